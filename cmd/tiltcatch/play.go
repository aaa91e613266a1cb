package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-catch/internal/games/catch"
	"github.com/vovakirdan/tilt-catch/internal/motion"
	"github.com/vovakirdan/tilt-catch/internal/platform/tui"
	"github.com/vovakirdan/tilt-catch/internal/play"
	"github.com/vovakirdan/tilt-catch/internal/registry"
)

var (
	flagPlaySensor string
	flagLogFile    string
)

// mirrorStateEvery is how often, in ticks, phones get a full state
// snapshot when nothing else changed.
const mirrorStateEvery = 15

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a game variant",
	Long: `Start playing the given variant in this terminal.

Controls:
  Left/Right, A/D  - Tilt the catcher
  Enter/Space      - Start / play again
  P                - Pause / resume
  R                - Start over (paused or finished)
  Esc/B            - Leave (on the instructions, paused or end screen)
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

With --sensor the phone server runs alongside the game. Phones connect
to ws://<host><addr>/ws and stream tilt samples; arrow keys still win on
frames where they are held.

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, plays the config as written

Examples:
  tiltcatch play catch
  tiltcatch play catch_gravity --difficulty hard
  tiltcatch play catch --sensor :8080 --log-file sensor.log
  tiltcatch play catch --config ./my-catch.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlaySensor, "sensor", "", "Run the phone sensor server on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write sensor logs to this file instead of discarding them")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if err := checkGame(gameID); err != nil {
		return err
	}
	cfg := runtimeConfig()

	if flagPlaySensor != "" {
		// The TUI owns the terminal, so sensor logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			out = f
		}
		logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "sensor"})

		mode, _ := catch.ModeFor(gameID)
		latest := motion.NewLatest()
		srv, stop, err := startSensor(sensorConfig(flagPlaySensor, mode, logger), latest)
		if err != nil {
			return fmt.Errorf("start sensor server: %w", err)
		}
		defer stop()

		catch.SetTiltSource(latest)
		catch.SetObserver(play.NewMirror(srv, mirrorStateEvery))
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
