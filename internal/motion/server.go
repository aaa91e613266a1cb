package motion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 1 << 20
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeWait    = 10 * time.Second
	sendQueueLen = 64
)

// ServerConfig configures the sensor server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// SampleInterval is advertised to phones in the welcome message.
	SampleInterval time.Duration

	// OnButton, if set, receives on-screen button taps by ID.
	// It runs on the connection's read goroutine and must not block.
	OnButton func(id string)

	Logger *log.Logger
}

// DefaultServerConfig returns a config listening on :8080 with 20ms samples.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        ":8080",
		SampleInterval: 20 * time.Millisecond,
	}
}

// Server accepts phone connections over websocket and feeds their samples
// into a Latest. Any number of phones may connect; the newest sample wins.
type Server struct {
	config   ServerConfig
	latest   *Latest
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.Mutex
	clients map[string]*client
	http    *http.Server
}

type client struct {
	id       string
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// enqueue never blocks. When the queue is full the oldest message is dropped.
func (c *client) enqueue(b []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- b:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- b:
		default:
		}
	}
}

func (c *client) close() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// NewServer creates a server that writes samples into latest.
func NewServer(cfg ServerConfig, latest *Latest) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "sensor",
		})
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultServerConfig().SampleInterval
	}

	s := &Server{
		config: cfg,
		latest: latest,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Phones load the controller page from anywhere on the LAN.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe binds the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Listen binds the configured address. Callers that must report a busy
// port before doing anything else bind first and pass the listener to
// Serve.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return nil, fmt.Errorf("motion: listen %s: %w", s.config.Address, err)
	}
	return ln, nil
}

// Serve accepts phones on ln until ctx is cancelled. ln is closed on
// return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.http = &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.http
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sensor server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("motion: serve %s: %w", ln.Addr(), err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("motion: shutdown: %w", err)
	}
	return nil
}

// Clients returns the number of connected phones.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends one message to every connected phone.
// Slow phones lose their oldest queued messages instead of stalling the caller.
func (s *Server) Broadcast(t string, payload any) error {
	b, err := Encode(t, payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.enqueue(b)
	}
	return nil
}

type healthResponse struct {
	Status          string `json:"status"`
	Clients         int    `json:"clients"`
	HasSample       bool   `json:"hasSample"`
	LastSampleAgeMS int64  `json:"lastSampleAgeMs,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Clients: s.Clients()}
	if age, ok := s.latest.Age(); ok {
		resp.HasSample = true
		resp.LastSampleAgeMS = age.Milliseconds()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("health encode failed", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueLen),
		done: make(chan struct{}),
	}
	s.register(c)
	defer s.unregister(c)

	go s.writePump(c)
	s.readPump(c, r.RemoteAddr)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("phone connected", "client", c.id, "clients", n)
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	n := len(s.clients)
	s.mu.Unlock()

	c.close()
	_ = c.conn.Close()
	s.logger.Info("phone disconnected", "client", c.id, "clients", n)
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.close()
		_ = c.conn.Close()
	}
}

func (s *Server) readPump(c *client, remote string) {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "client", c.id, "remote", remote, "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := s.handleMessage(c, msg); err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				s.logger.Warn("rejecting phone", "client", c.id, "remote", remote, "error", err)
				closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unsupported protocol version")
				_ = c.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
				return
			}
			s.logger.Warn("dropping message", "client", c.id, "error", err)
		}
	}
}

func (s *Server) handleMessage(c *client, msg []byte) error {
	env, err := DecodeEnvelope(msg)
	if err != nil {
		return err
	}

	switch env.T {
	case MsgHello:
		hello, err := DecodePayload[Hello](env)
		if err != nil {
			return err
		}
		s.logger.Debug("hello", "client", c.id, "name", hello.Name, "version", hello.V)
		if hello.V != ProtocolVersion {
			return fmt.Errorf("%w: phone speaks v%d, server v%d", ErrVersionMismatch, hello.V, ProtocolVersion)
		}
		b, err := Encode(MsgWelcome, Welcome{
			ClientID:         c.id,
			V:                ProtocolVersion,
			SampleIntervalMS: int(s.config.SampleInterval.Milliseconds()),
		})
		if err != nil {
			return err
		}
		c.enqueue(b)

	case MsgSample:
		p, err := DecodePayload[SamplePayload](env)
		if err != nil {
			return err
		}
		s.latest.Put(Sample{X: p.X, Y: p.Y, Z: p.Z})

	case MsgButton:
		btn, err := DecodePayload[Button](env)
		if err != nil {
			return err
		}
		if s.config.OnButton != nil {
			s.config.OnButton(btn.ID)
		}

	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadEnvelope, env.T)
	}
	return nil
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		}
	}
}
