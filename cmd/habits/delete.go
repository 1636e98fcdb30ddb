// ABOUTME: CLI command for deleting habits.
// ABOUTME: Supports deletion by full ID or ID prefix and removes the habit's completions.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a habit",
	Long: `Delete a habit by its ID or ID prefix.

You can use either the full UUID or just the first few characters (prefix).
The ID prefix is shown in the first column of 'habits list' output.

EXAMPLES:

  habits delete abc12345                    # Delete by 8-char prefix
  habits rm abc1                            # Short prefix (if unique)

CAUTION:

  This permanently deletes the habit and every completion logged for it.
  If the prefix matches multiple habits, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idOrPrefix := args[0]

		h, err := svc.Habit(idOrPrefix)
		if err != nil {
			return fmt.Errorf("habit not found: %s", idOrPrefix)
		}

		if err := repo.DeleteHabit(h.ID.String()); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		color.Yellow("✗ Deleted %s", h.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(h.ID)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
