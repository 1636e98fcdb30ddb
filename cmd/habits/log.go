// ABOUTME: CLI command for listing completions.
// ABOUTME: Shows the most recent completions, optionally for a single habit.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	logLimit int
	logJSON  bool
)

var logCmd = &cobra.Command{
	Use:     "log [habit-id]",
	Aliases: []string{"history"},
	Short:   "List recent completions",
	Long: `List completions, most recent first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  HABIT  (NOTES)

  The ID is the completion's 8-character prefix, usable with 'habits undo'.

EXAMPLES:

  habits log               # Last 20 completions across all habits
  habits log a1b2c3d4      # Only one habit
  habits log -n 100        # More history`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		habits, err := repo.ListHabits(svc.UserID())
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		titles := make(map[uuid.UUID]string, len(habits))
		for _, h := range habits {
			titles[h.ID] = h.Title
		}

		var habitID *uuid.UUID
		if len(args) == 1 {
			h, err := svc.Habit(args[0])
			if err != nil {
				return fmt.Errorf("habit not found: %s", args[0])
			}
			habitID = &h.ID
		}

		completions, err := repo.ListCompletions(svc.UserID(), habitID, logLimit)
		if err != nil {
			return fmt.Errorf("failed to list completions: %w", err)
		}

		if logJSON {
			views := make([]tracker.CompletionView, 0, len(completions))
			for _, c := range completions {
				views = append(views, tracker.NewCompletionView(c))
			}
			return writeJSON(cmd, views)
		}

		if len(completions) == 0 {
			fmt.Println("No completions found.")
			return nil
		}

		loc := svc.Calculator().Location()
		faint := color.New(color.Faint)
		for _, c := range completions {
			title, ok := titles[c.HabitID]
			if !ok {
				title = "(unknown habit)"
			}
			notes := ""
			if c.Notes != nil && *c.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*c.Notes, 30))
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(shortID(c.ID)),
				faint.Sprint(c.CompletedAt.In(loc).Format("2006-01-02 15:04")),
				padRight(truncate(title, titleWidth), titleWidth),
				notes)
		}

		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "max number of results")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output JSON")
	rootCmd.AddCommand(logCmd)
}
