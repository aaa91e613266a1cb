package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-catch/internal/registry"
	"github.com/vovakirdan/tilt-catch/internal/storage"
)

var (
	flagRecent    int
	flagAllScores bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [id]",
	Short: "Show high scores and recent games",
	Long: `Display the top 10 scores for a variant, win/loss totals and the most
recent finished games. Without an id, prints a summary of every variant.

Examples:
  tiltcatch scores
  tiltcatch scores catch
  tiltcatch scores catch_gravity --recent 20
  tiltcatch scores catch --all
  tiltcatch scores catch --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 5, "How many recent games to list")
	scoresCmd.Flags().BoolVar(&flagAllScores, "all", false, "List every recorded score instead of the top 10")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and games recorded for the variant")
}

func runScores(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if flagAllScores || flagClear {
			return errors.New("--all and --clear need a game id")
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return printSummary(out, store)
	}

	gameID := args[0]
	if err := checkGame(gameID); err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared scores for %s.\n", game.Title())
		return nil
	}

	var scores []storage.ScoreEntry
	if flagAllScores {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", game.Title())

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'tiltcatch play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Fprintf(out, "  %-4s  %-8s  %s\n", "Rank", "Score", "Date")
		fmt.Fprintf(out, "  %-4s  %-8s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			fmt.Fprintf(out, "  %-4d  %-8d  %s\n", i+1, entry.Score, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	if stats.Wins+stats.Losses == 0 {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Best: %d   Won: %d   Lost: %d\n", stats.HighScore, stats.Wins, stats.Losses)

	if flagRecent <= 0 {
		return nil
	}
	recent, err := store.RecentSessions(gameID, flagRecent)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent games:")
	fmt.Fprintf(out, "  %-6s  %-6s  %-6s  %-6s  %-8s  %s\n", "Result", "Score", "Caught", "Missed", "Time", "Finished")
	for _, r := range recent {
		fmt.Fprintf(out, "  %-6s  %-6d  %-6d  %-6d  %-8s  %s\n",
			r.Outcome, r.Score, r.Catches, r.Misses,
			r.Duration.Round(100*time.Millisecond).String(),
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// printSummary lists every registered variant with its score totals.
func printSummary(out io.Writer, store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	games := registry.List()
	idW := 2
	for _, g := range games {
		idW = max(idW, len(g.ID))
	}

	fmt.Fprintf(out, "  %-*s  %-6s  %-6s  %-6s  %s\n", idW, "ID", "Scores", "Best", "Avg", "Last played")
	fmt.Fprintf(out, "  %-*s  %-6s  %-6s  %-6s  %s\n", idW, "--", "------", "----", "---", "-----------")
	for _, g := range games {
		gs, ok := all[g.ID]
		if !ok {
			fmt.Fprintf(out, "  %-*s  %-6d  %-6s  %-6s  %s\n", idW, g.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Fprintf(out, "  %-*s  %-6d  %-6d  %-6.1f  %s\n",
			idW, g.ID, gs.GamesCount, gs.HighScore, gs.AvgScore,
			gs.LastPlayed.Local().Format("2006-01-02 15:04"),
		)
	}
	return nil
}
