// ABOUTME: CLI commands for viewing and changing configuration.
// ABOUTME: Reads and writes the JSON config file without opening storage.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change configuration",
	Long: `View or change settings stored in ~/.config/habits/config.json.

KEYS:

  backend        sqlite (default), markdown, badger, or postgres
  data_dir       where data and logs live (default ~/.local/share/habits)
  postgres_dsn   connection string (HABITS_POSTGRES_DSN overrides it)
  timezone       IANA zone whose calendar days streaks count in (default local)
  user_id        owner of new habits (default your OS user name)

EXAMPLES:

  habits config show
  habits config set timezone Europe/Berlin
  habits config set backend ""               # Reset to default`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := cfg.Location()
		if err != nil {
			color.Yellow("⚠ %v", err)
		}

		dsn := "(not set)"
		if cfg.GetPostgresDSN() != "" {
			dsn = "(set)"
		}
		tz := "(invalid)"
		if loc != nil {
			tz = loc.String()
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("config file: "), config.GetConfigPath())
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("backend:     "), cfg.GetBackend())
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("data_dir:    "), cfg.GetDataDir())
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("postgres_dsn:"), dsn)
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("timezone:    "), tz)
		fmt.Fprintf(out, "%s %s\n", faint.Sprint("user_id:     "), cfg.GetUserID())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change a setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Flags such as --backend only apply to this run; load the file as stored.
		stored, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := stored.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := stored.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if args[1] == "" {
			color.Green("✓ Reset %s", args[0])
		} else {
			color.Green("✓ Set %s", args[0])
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
