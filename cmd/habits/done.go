// ABOUTME: CLI command for marking a habit done.
// ABOUTME: Records a completion, optionally backdated, and reports the new streak.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	doneAt    string
	doneNotes string
)

var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"d", "check"},
	Short:   "Mark a habit as done",
	Long: `Record a completion for a habit. Without --at the completion is logged now.

Times without an offset are read in your configured timezone. Logging the
same habit twice on one day adds to the total but not to the streak.

Examples:
  habits done a1b2c3d4
  habits done a1b2 --at "2025-01-30 21:15"
  habits done a1b2 --at 2025-01-29 --notes "caught up on the weekend"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := svc.Habit(args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		loc := svc.Calculator().Location()
		c := models.NewCompletion(h)

		if doneAt != "" {
			t, err := tracker.ParseTime(doneAt, loc)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", doneAt)
			}
			c.WithCompletedAt(t)
		}

		if doneNotes != "" {
			c.WithNotes(doneNotes)
		}

		if err := repo.CreateCompletion(c); err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}

		color.Green("✓ Done: %s", h.Title)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(c.ID)),
			c.CompletedAt.In(loc).Format("2006-01-02 15:04"))

		e, err := svc.HabitStreak(h.ID.String())
		if err != nil {
			color.Yellow("⚠ Could not compute streak: %v", err)
			return nil
		}
		fmt.Printf("  🔥 current streak %d, best %d, total %d\n", e.Current, e.Best, e.Total)

		return nil
	},
}

func init() {
	doneCmd.Flags().StringVar(&doneAt, "at", "", "when it was done (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	doneCmd.Flags().StringVar(&doneNotes, "notes", "", "notes for the completion")
	rootCmd.AddCommand(doneCmd)
}
