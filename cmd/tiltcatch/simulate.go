package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-catch/internal/games/catch"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/play"
)

var (
	flagSimTicks     int
	flagSimGame      string
	flagSimAmplitude float64
	flagSimPeriod    int
	flagSimJSON      bool
	flagSimQuiet     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a seeded game with synthetic tilt",
	Long: `Run a game headless and as fast as possible. A sine wave stands in for
the phone, swinging the catcher back and forth. Every event is printed,
followed by the outcome and a state digest; the same seed and flags
always print the same thing.

Examples:
  tiltcatch simulate --seed 42
  tiltcatch simulate --seed 42 --ticks 36000 --quiet
  tiltcatch simulate --game catch_gravity --amplitude 0.3 --json`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Maximum ticks to run")
	simulateCmd.Flags().StringVar(&flagSimGame, "game", "catch", "Game variant to run")
	simulateCmd.Flags().Float64Var(&flagSimAmplitude, "amplitude", 0.6, "Peak synthetic tilt")
	simulateCmd.Flags().IntVar(&flagSimPeriod, "period", 240, "Ticks per full tilt swing")
	simulateCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print events as JSON lines")
	simulateCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Only print the summary")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	mode, ok := catch.ModeFor(flagSimGame)
	if !ok {
		return fmt.Errorf("unknown game %q, run 'tiltcatch list' to see available games", flagSimGame)
	}
	if flagSimTicks <= 0 {
		return fmt.Errorf("--ticks must be positive, got %d", flagSimTicks)
	}

	s := seed()
	session, _, cfgErr := catch.NewSession(mode, s)
	if session == nil {
		return cfgErr
	}
	if cfgErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: config ignored, using defaults: %v\n", cfgErr)
	}

	runner := play.NewRunner(session, play.Options{
		GameID:   flagSimGame,
		TickRate: flagFPS,
		Source:   &play.SineSource{Amplitude: flagSimAmplitude, Period: flagSimPeriod},
		Logger:   log.New(io.Discard),
	})
	runner.Submit(sim.CommandStart)

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)

	var last sim.StepResult
	for i := 0; i < flagSimTicks; i++ {
		last = runner.Step()
		if !flagSimQuiet {
			for _, e := range last.Events {
				if err := printEvent(out, enc, e); err != nil {
					return err
				}
			}
		}
		if last.State.Terminal() {
			break
		}
	}

	snap := session.Snapshot()
	stats := snap.Stats
	fmt.Fprintln(out)
	fmt.Fprintf(out, "seed=%d game=%s state=%s score=%d/%d ticks=%d\n",
		s, flagSimGame, snap.State, snap.Score, snap.WinScore, snap.Tick)
	fmt.Fprintf(out, "spawned=%d caught=%d missed=%d hazards_caught=%d hazards_dodged=%d\n",
		stats.Spawned, stats.Catches, stats.Misses, stats.HazardsCaught, stats.HazardsMissed)
	fmt.Fprintf(out, "game_time=%s hash=%016x\n", stats.PlayTime, snap.Hash())
	return nil
}

func printEvent(w io.Writer, enc *json.Encoder, e sim.Event) error {
	p := play.EventPayload(e)
	if flagSimJSON {
		return enc.Encode(p)
	}

	var detail string
	switch p.Type {
	case "spawned":
		detail = fmt.Sprintf("#%d %s x=%.1f", p.ItemID, p.Kind, p.X)
	case "removed":
		detail = fmt.Sprintf("#%d %s %s", p.ItemID, p.Kind, p.Outcome)
	case "catcher":
		detail = fmt.Sprintf("x=%.1f", p.X)
	case "score":
		detail = fmt.Sprintf("%d", p.Score)
	case "state":
		detail = fmt.Sprintf("%s -> %s", p.From, p.To)
	}
	_, err := fmt.Fprintf(w, "%6d  %-8s %s\n", p.Tick, p.Type, detail)
	return err
}
