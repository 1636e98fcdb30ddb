// ABOUTME: CLI command for adding habits.
// ABOUTME: Validates title, description and frequency before storing.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addFrequency   string
)

var addCmd = &cobra.Command{
	Use:     "add <title>",
	Aliases: []string{"a", "new"},
	Short:   "Add a habit",
	Long: `Add a habit to track. Both a title and a description are required.

Streaks are counted in calendar days whatever the frequency; the frequency
is recorded for your own reference.

Examples:
  habits add "Read" -d "20 pages before bed"
  habits add Meditate --description "10 minutes" --frequency daily
  habits add "Weekly review" -d "Inbox zero and plan" -f weekly`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))

		freq, err := models.ParseFrequency(addFrequency)
		if err != nil {
			return err
		}

		h := models.NewHabit(svc.UserID(), title, strings.TrimSpace(addDescription)).WithFrequency(freq)
		if err := h.Validate(); err != nil {
			return err
		}

		if err := repo.CreateHabit(h); err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		color.Green("✓ Added %s", h.Title)
		fmt.Printf("  %s %s %s\n",
			color.New(color.Faint).Sprint(shortID(h.ID)),
			h.Frequency,
			truncate(h.Description, 50))

		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "what doing the habit means (required)")
	addCmd.Flags().StringVarP(&addFrequency, "frequency", "f", "daily", "daily, weekly, or monthly")
	rootCmd.AddCommand(addCmd)
}
