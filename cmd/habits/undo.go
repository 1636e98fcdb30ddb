// ABOUTME: CLI command for removing a completion.
// ABOUTME: Deletes a single completion by ID or ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo <completion-id>",
	Short: "Remove a completion",
	Long: `Remove a completion logged by mistake. Find its ID with 'habits log'.

EXAMPLES:

  habits undo 9f8e7d6c`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := svc.Completion(args[0])
		if err != nil {
			return fmt.Errorf("completion not found: %s", args[0])
		}

		title := "(unknown habit)"
		if h, err := svc.Habit(c.HabitID.String()); err == nil {
			title = h.Title
		}

		if err := repo.DeleteCompletion(c.ID.String()); err != nil {
			return fmt.Errorf("failed to remove completion: %w", err)
		}

		color.Yellow("✗ Removed completion of %s", title)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(c.ID)),
			c.CompletedAt.In(svc.Calculator().Location()).Format("2006-01-02 15:04"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
