// ABOUTME: CLI command for the streak leaderboard.
// ABOUTME: Ranks habits by best streak; --watch redraws when the ranking changes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/streak"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	streaksJSON     bool
	streaksTop      bool
	streaksWatch    bool
	streaksInterval time.Duration
)

var streaksCmd = &cobra.Command{
	Use:     "streaks",
	Aliases: []string{"s", "rank"},
	Short:   "Rank habits by best streak",
	Long: `Show every habit ranked by its best streak, with the current streak and
the total number of completions. The top three get gold, silver and bronze.

Habits tied on best streak keep the order they were created in.

WATCH MODE:

  --watch keeps the leaderboard on screen and redraws it whenever a change
  made from any terminal or the MCP server alters the ranking. The badger
  backend locks its directory, so watching it blocks other writers.

EXAMPLES:

  habits streaks
  habits streaks --top
  habits streaks --json
  habits streaks --watch --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if streaksWatch {
			if streaksJSON {
				return fmt.Errorf("--watch cannot be combined with --json")
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			// Other processes write behind this one's back, so every poll is a full recompute.
			poller := tracker.New(repo, nil, svc.Calculator(), svc.UserID())
			return watchStreaks(ctx, cmd.OutOrStdout(), poller, streaksInterval)
		}

		entries, err := rankedForDisplay(svc)
		if err != nil {
			return err
		}

		if streaksJSON {
			return writeJSON(cmd, tracker.StreakViews(entries))
		}

		fmt.Fprint(cmd.OutOrStdout(), renderStreaks(entries))
		warnRankErrors(entries)
		return nil
	},
}

func rankedForDisplay(s *tracker.Service) ([]streak.Entry, error) {
	entries, err := s.Ranked()
	if entries == nil && err != nil {
		return nil, fmt.Errorf("failed to rank habits: %w", err)
	}
	if streaksTop {
		entries = streak.TopStreaks(entries)
	}
	return entries, nil
}

func warnRankErrors(entries []streak.Entry) {
	failed := 0
	for _, e := range entries {
		if e.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		color.Yellow("⚠ %d habit(s) have completions with invalid timestamps and were ranked with zero streaks", failed)
	}
}

// watchStreaks redraws the leaderboard each time its rendering changes,
// until ctx is cancelled.
func watchStreaks(ctx context.Context, w io.Writer, s *tracker.Service, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		entries, err := rankedForDisplay(s)
		if err != nil {
			logger.Error("watch refresh failed", "err", err)
		} else if out := renderStreaks(entries); out != last {
			last = out
			fmt.Fprint(w, "\033[H\033[2J")
			fmt.Fprint(w, out)
			fmt.Fprintf(w, "\n%s\n", color.New(color.Faint).Sprintf("updated %s · ctrl+c to exit", time.Now().Format("15:04:05")))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	streaksCmd.Flags().BoolVar(&streaksJSON, "json", false, "output JSON")
	streaksCmd.Flags().BoolVar(&streaksTop, "top", false, "only the top three")
	streaksCmd.Flags().BoolVarP(&streaksWatch, "watch", "w", false, "redraw when the ranking changes")
	streaksCmd.Flags().DurationVar(&streaksInterval, "interval", 2*time.Second, "how often --watch checks for changes")
	rootCmd.AddCommand(streaksCmd)
}
