// ABOUTME: CLI command for listing habits.
// ABOUTME: Prints a table or JSON of the user's habits.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habits",
	Long: `List your habits in the order they were created.

OUTPUT FORMAT:

  Each line shows: ID  FREQUENCY  TITLE  (DESCRIPTION)

  The ID is an 8-character prefix you can use with done, edit and delete.

EXAMPLES:

  habits list           # Table
  habits list --json    # Machine-readable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		habits, err := repo.ListHabits(svc.UserID())
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		if listJSON {
			views := make([]tracker.HabitView, 0, len(habits))
			for _, h := range habits {
				views = append(views, tracker.NewHabitView(h))
			}
			return writeJSON(cmd, views)
		}

		if len(habits) == 0 {
			fmt.Println("No habits found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, h := range habits {
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(shortID(h.ID)),
				padRight(string(h.Frequency), 8),
				padRight(truncate(h.Title, titleWidth), titleWidth),
				faint.Sprintf(" (%s)", truncate(h.Description, 40)))
		}

		return nil
	},
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	rootCmd.AddCommand(listCmd)
}
