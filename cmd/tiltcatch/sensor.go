package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-catch/internal/games/catch"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/motion"
	"github.com/vovakirdan/tilt-catch/internal/play"
)

var (
	flagSensorAddr string
	flagSensorGame string
)

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Run a headless game driven by a phone",
	Long: `Run a game with no terminal UI. A phone connects to the websocket
endpoint, streams tilt samples and taps the on-screen buttons
(startButton, pauseButton, resumeButton, startOverButton,
playAgainButton). Score and state changes are pushed back to every
connected phone, and finished games are saved to the scores database.

Endpoints:
  GET /ws      - websocket for samples, buttons and game events
  GET /health  - JSON status with client count and last sample age

Examples:
  tiltcatch sensor
  tiltcatch sensor --addr :9000 --game catch_gravity
  TILTCATCH_SENSOR_ADDR=:9000 tiltcatch sensor`,
	Args: cobra.NoArgs,
	RunE: runSensor,
}

func init() {
	sensorCmd.Flags().StringVar(&flagSensorAddr, "addr", motion.DefaultServerConfig().Address, "Listen address for the sensor server")
	sensorCmd.Flags().StringVar(&flagSensorGame, "game", "catch", "Game variant to run")
}

func runSensor(_ *cobra.Command, _ []string) error {
	mode, ok := catch.ModeFor(flagSensorGame)
	if !ok {
		return fmt.Errorf("unknown game %q, run 'tiltcatch list' to see available games", flagSensorGame)
	}

	logger := newLogger("tiltcatch")

	session, _, cfgErr := catch.NewSession(mode, seed())
	if session == nil {
		return cfgErr
	}
	if cfgErr != nil {
		logger.Warn("config ignored, using defaults", "error", cfgErr)
	}

	opts := play.Options{
		GameID:   flagSensorGame,
		TickRate: flagFPS,
		Stream:   play.NewEventStream(0),
		Logger:   newLogger("runner"),
	}
	if store := openStore(); store != nil {
		defer store.Close()
		opts.Saver = store
	}

	latest := motion.NewLatest()
	opts.Source = latest

	// Buttons arrive on connection goroutines; the runner queues them.
	var runner *play.Runner
	scfg := sensorConfig(flagSensorAddr, mode, newLogger("sensor"))
	scfg.OnButton = func(id string) { runner.Press(id) }
	srv := motion.NewServer(scfg, latest)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	opts.Mirror = play.NewMirror(srv, mirrorStateEvery)
	runner = play.NewRunner(session, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx, ln)
	}()

	go logEvents(opts.Stream, srv, logger)

	logger.Info("waiting for a phone", "ws", "ws://"+scfg.Address+"/ws", "game", flagSensorGame)

	runErr := runner.Run(ctx)
	opts.Stream.Close()
	stop()

	if err := <-serveErr; err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	logger.Info("stopped", "games", runner.Results(), "dropped_events", opts.Stream.Dropped())
	return nil
}

// logEvents reports scoring and state changes until the stream closes.
func logEvents(stream *play.EventStream, srv *motion.Server, logger *log.Logger) {
	for {
		select {
		case e := <-stream.Events():
			switch ev := e.(type) {
			case sim.StateChanged:
				logger.Info("state", "from", ev.From, "to", ev.To, "tick", ev.Tick)
				if ev.To == sim.StatePlaying && srv.Clients() == 0 {
					logger.Info("no phone connected, catcher stays put until one streams samples")
				}
			case sim.ItemRemoved:
				if ev.Outcome != sim.OutcomeNone {
					logger.Info("item", "kind", ev.Kind, "outcome", ev.Outcome, "tick", ev.Tick)
				}
			case sim.ScoreChanged:
				logger.Info("score", "score", ev.Score, "delta", ev.Delta)
			default:
				p := play.EventPayload(e)
				logger.Debug(p.Type, "tick", p.Tick, "x", p.X)
			}
		case <-stream.Done():
			return
		}
	}
}
