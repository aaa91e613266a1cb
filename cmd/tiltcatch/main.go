// tiltcatch is a falling-object catching game for the terminal. Tilt a
// phone (or use the arrow keys) to catch good items and dodge bombs.
//
// Usage:
//
//	tiltcatch list              - List game variants
//	tiltcatch play <id>         - Play a variant in this terminal
//	tiltcatch menu              - Pick variants and browse scores interactively
//	tiltcatch scores <id>       - Show high scores and recent games
//	tiltcatch serve             - Start an SSH server for remote play
//	tiltcatch sensor            - Run a headless game driven by a phone
//	tiltcatch simulate          - Run a seeded game with synthetic tilt
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tiltcatch/scores.db)
//	--config <path>       - Custom catch.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//
// Defaults for --db, --config and the sensor address can also come from
// TILTCATCH_DB, TILTCATCH_CONFIG and TILTCATCH_SENSOR_ADDR, read from the
// environment or a .env file in the working directory.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-catch/internal/config"
	"github.com/vovakirdan/tilt-catch/internal/games/catch"
)

const defaultDBPath = "~/.tiltcatch/scores.db"

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tiltcatch",
	Short: "Tilt Catch - catch falling items, dodge the bombs",
	Long: `Tilt Catch is a falling-object catching game for the terminal.

Good items (o) fall from the top: catch them for points, a missed one
costs a point. Hazards (*) end the game when caught. Reach the target
score to win; drop below zero and you lose.

Steer with the arrow keys, or connect a phone to the sensor server and
tilt it.

Available commands:
  list      - Show game variants
  play      - Play a variant directly
  menu      - Interactive picker with scoreboard
  scores    - View high scores and recent games
  serve     - Start SSH server for remote play
  sensor    - Headless game driven by a phone
  simulate  - Seeded run with synthetic tilt

Examples:
  tiltcatch play catch
  tiltcatch play catch --sensor :8080
  tiltcatch menu --difficulty hard
  tiltcatch simulate --seed 7 --ticks 3600`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom catch.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sensorCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setup fills unset flags from the environment and hands the game
// settings to the catch package before any game is created.
func setup(cmd *cobra.Command, _ []string) error {
	envDefault(cmd, "db", "TILTCATCH_DB")
	envDefault(cmd, "config", "TILTCATCH_CONFIG")
	envDefault(cmd, "addr", "TILTCATCH_SENSOR_ADDR")

	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
	}

	catch.SetConfigPath(flagConfig)
	catch.SetDifficultyPreset(flagDifficulty)
	// A file the user named has to be valid; only the search path
	// falls back to defaults.
	return catch.CheckConfig()
}

// envDefault sets a flag from an environment variable unless the user
// passed it explicitly. Flags the command doesn't have are skipped.
func envDefault(cmd *cobra.Command, name, env string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || f.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		_ = f.Value.Set(v)
	}
}

func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}
