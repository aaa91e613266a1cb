// Package play runs a catch session headless: a fixed-rate tick loop fed
// by a command queue and a tilt source, with events streamed out and
// finished sessions saved.
package play

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/motion"
)

// Result is the record of one finished session.
type Result struct {
	ID            string
	GameID        string
	Outcome       string // "won" or "lost"
	Score         int
	Catches       int
	Misses        int
	HazardsCaught int
	HazardsDodged int
	Ticks         uint64
	Duration      time.Duration // Time spent playing, pauses excluded
	FinishedAt    time.Time
}

// ResultSaver persists finished sessions.
type ResultSaver interface {
	SaveSession(r Result) error
}

// Options configures a Runner. Everything but GameID is optional.
type Options struct {
	GameID   string
	TickRate int // Ticks per second, default 60

	Source motion.Source
	Stream *EventStream
	Mirror *Mirror
	Saver  ResultSaver
	Logger *log.Logger

	// CommandBuffer bounds Submit's queue, default 64.
	CommandBuffer int
}

// Runner owns a session and drives it from a single goroutine.
type Runner struct {
	session  *sim.Session
	opts     Options
	logger   *log.Logger
	dt       time.Duration
	commands chan sim.Command
	now      func() time.Time

	sessionID string
	saved     bool
	results   int
}

// NewRunner wraps session. The runner takes ownership; callers must not
// step the session themselves afterwards.
func NewRunner(session *sim.Session, opts Options) *Runner {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.CommandBuffer <= 0 {
		opts.CommandBuffer = 64
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Runner{
		session:  session,
		opts:     opts,
		logger:   logger,
		dt:       time.Second / time.Duration(opts.TickRate),
		commands: make(chan sim.Command, opts.CommandBuffer),
		now:      time.Now,
	}
}

// Submit queues a command for the next tick. Safe from any goroutine.
// It reports false when the queue is full and the command was dropped.
func (r *Runner) Submit(cmd sim.Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		r.logger.Warn("command queue full, dropping", "command", cmd)
		return false
	}
}

// Press submits the commands behind a phone button. Unknown IDs are logged
// and ignored.
func (r *Runner) Press(id string) {
	cmds, ok := sim.CommandsForButton(sim.ButtonID(id))
	if !ok {
		r.logger.Warn("unknown button", "id", id)
		return
	}
	for _, cmd := range cmds {
		r.Submit(cmd)
	}
}

// Run ticks until ctx is cancelled. Once the session is won or lost the
// ticker stops and the loop sleeps until a command arrives.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.dt)
	defer ticker.Stop()
	ticking := true

	r.logger.Info("runner started", "game", r.opts.GameID, "tick_rate", r.opts.TickRate)

	for {
		var tickC <-chan time.Time
		var cmdC <-chan sim.Command
		if ticking {
			tickC = ticker.C
		} else {
			cmdC = r.commands
		}

		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped", "ticks", r.session.Tick())
			return ctx.Err()

		case cmd := <-cmdC:
			r.session.Submit(cmd)
			ticker.Reset(r.dt)
			ticking = true

		case <-tickC:
			res := r.Step()
			if res.State.Terminal() {
				ticker.Stop()
				ticking = false
			}
		}
	}
}

// Step runs exactly one tick: queued commands, the newest unread sample,
// the simulation, then event delivery and result saving.
func (r *Runner) Step() sim.StepResult {
	r.drain()

	in := sim.Input{Dt: r.dt}
	if r.opts.Source != nil {
		if s, ok := r.opts.Source.Take(); ok {
			in.Tilt, in.HasTilt = s.X, true
		}
	}

	res := r.session.Step(in)

	for _, e := range res.Events {
		if sc, ok := e.(sim.StateChanged); ok {
			r.onTransition(sc)
		}
		if r.opts.Stream != nil {
			r.opts.Stream.Send(e)
		}
	}
	if r.opts.Mirror != nil {
		r.opts.Mirror.Observe(res.Events, r.session.Snapshot())
	}

	if res.State.Terminal() && !r.saved {
		r.save()
		r.saved = true
	}
	return res
}

func (r *Runner) drain() {
	for {
		select {
		case cmd := <-r.commands:
			r.session.Submit(cmd)
		default:
			return
		}
	}
}

func (r *Runner) onTransition(sc sim.StateChanged) {
	r.logger.Debug("state", "from", sc.From, "to", sc.To, "tick", sc.Tick)
	if sc.From == sim.StateInstructions && sc.To == sim.StatePlaying {
		r.sessionID = uuid.NewString()
		r.saved = false
		r.logger.Info("session started", "session", r.sessionID)
	}
}

func (r *Runner) save() {
	id := r.sessionID
	if id == "" {
		// Finished without a start transition seen by this runner.
		id = uuid.NewString()
	}
	result := ResultOf(id, r.opts.GameID, r.session, r.now())
	r.results++

	r.logger.Info("session finished",
		"session", result.ID,
		"outcome", result.Outcome,
		"score", result.Score,
		"catches", result.Catches,
		"misses", result.Misses,
	)

	if r.opts.Saver == nil {
		return
	}
	if err := r.opts.Saver.SaveSession(result); err != nil {
		r.logger.Warn("could not save session", "session", result.ID, "error", err)
	}
}

// ResultOf summarizes a finished session under the caller's ID.
func ResultOf(id, gameID string, s *sim.Session, finishedAt time.Time) Result {
	stats := s.Stats()
	return Result{
		ID:            id,
		GameID:        gameID,
		Outcome:       s.State().String(),
		Score:         s.Score(),
		Catches:       stats.Catches,
		Misses:        stats.Misses,
		HazardsCaught: stats.HazardsCaught,
		HazardsDodged: stats.HazardsMissed,
		Ticks:         stats.PlayTicks,
		Duration:      stats.PlayTime,
		FinishedAt:    finishedAt,
	}
}

// Results returns how many finished sessions this runner has recorded.
func (r *Runner) Results() int {
	return r.results
}

// Session exposes the wrapped session for read-only inspection from the
// runner's goroutine.
func (r *Runner) Session() *sim.Session {
	return r.session
}
