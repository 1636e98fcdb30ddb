// ABOUTME: CLI command showing which habits are done today.
// ABOUTME: Uses the calendar day of the configured timezone.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var todayJSON bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show which habits are done today",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := svc.Today()
		if err != nil {
			return fmt.Errorf("failed to load today's habits: %w", err)
		}

		if todayJSON {
			return writeJSON(cmd, tracker.TodayViews(statuses))
		}

		if len(statuses) == 0 {
			fmt.Println("No habits found.")
			return nil
		}

		faint := color.New(color.Faint)
		done := 0
		for _, st := range statuses {
			mark := faint.Sprint("·")
			if st.Done() {
				mark = color.GreenString("✓")
				done++
			}
			fmt.Printf("%s %s %s\n", mark, faint.Sprint(shortID(st.Habit.ID)), st.Habit.Title)
		}
		fmt.Printf("\n%d of %d done\n", done, len(statuses))

		return nil
	},
}

func init() {
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "output JSON")
	rootCmd.AddCommand(todayCmd)
}
