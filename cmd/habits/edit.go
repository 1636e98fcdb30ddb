// ABOUTME: CLI command for editing a habit.
// ABOUTME: Updates title, description or frequency; empty flags keep the current value.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/spf13/cobra"
)

var (
	editTitle       string
	editDescription string
	editFrequency   string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a habit",
	Long: `Change a habit's title, description or frequency. Completions and
streaks are kept.

EXAMPLES:

  habits edit a1b2c3d4 --title "Read fiction"
  habits edit a1b2 -d "30 pages" -f daily`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editTitle == "" && editDescription == "" && editFrequency == "" {
			return fmt.Errorf("nothing to change: use --title, --description or --frequency")
		}

		h, err := svc.Habit(args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		if t := strings.TrimSpace(editTitle); t != "" {
			h.Title = t
		}
		if d := strings.TrimSpace(editDescription); d != "" {
			h.Description = d
		}
		if editFrequency != "" {
			freq, err := models.ParseFrequency(editFrequency)
			if err != nil {
				return err
			}
			h.Frequency = freq
		}
		if err := h.Validate(); err != nil {
			return err
		}

		if err := repo.UpdateHabit(h); err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}

		color.Green("✓ Updated %s", h.Title)
		fmt.Printf("  %s %s %s\n",
			color.New(color.Faint).Sprint(shortID(h.ID)),
			h.Frequency,
			truncate(h.Description, 50))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "new description")
	editCmd.Flags().StringVarP(&editFrequency, "frequency", "f", "", "new frequency (daily, weekly, monthly)")
	rootCmd.AddCommand(editCmd)
}
