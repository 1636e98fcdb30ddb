// ABOUTME: Root Cobra command for habits CLI.
// ABOUTME: Loads config, starts logging, and owns the storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/notify"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/streak"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	backendFlag string
	dataDirFlag string
	debugFlag   bool

	cfg  *config.Config
	repo storage.Repository
	svc  *tracker.Service
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Habit tracker with streaks",
	Long: `Habits tracks the things you want to do every day and turns your
completion log into streaks.

STREAKS:

  Current  consecutive days ending with your most recent completion
  Best     the longest run of consecutive days ever
  Total    every completion you have logged

  Days are calendar days in your configured timezone. Doing a habit twice
  on the same day counts once toward a streak and twice toward the total.
  The three habits with the best streaks get gold, silver and bronze.

QUICK START:

  $ habits add "Read" -d "20 pages"    # Create a habit
  $ habits done a1b2c3d4               # Mark it done now
  $ habits done a1b2 --at 2025-01-30   # Backfill a day
  $ habits streaks                     # See the leaderboard
  $ habits streaks --watch             # Keep it on screen

STORAGE:

  sqlite (default)  ~/.local/share/habits/habits.db
  markdown          one file per habit and per completion
  badger            embedded key-value store
  postgres          set postgres_dsn or HABITS_POSTGRES_DSN

  $ habits config set backend markdown
  $ habits migrate --to markdown       # Copy existing data first

MCP INTEGRATION:

  Run 'habits mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "habits": { "command": "habits", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A previous command that failed never reached PostRun.
		closeStorage()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			if err := cfg.Set("backend", backendFlag); err != nil {
				return err
			}
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}

		if err := logger.Init(logger.Config{Debug: debugFlag, DataDir: cfg.GetDataDir()}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if !needsStorage(cmd) {
			return nil
		}
		return openStorage()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeStorage()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func needsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config", "install-skill":
			return false
		}
	}
	return true
}

func openStorage() error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	r, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	hub := notify.NewHub()
	repo = storage.WithNotifications(r, hub)
	svc = tracker.New(repo, hub, streak.NewCalculator(loc), cfg.GetUserID())

	logger.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir(), "user", svc.UserID())
	return nil
}

func closeStorage() {
	if svc != nil {
		svc.Close()
		svc = nil
	}
	if repo != nil {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
		repo = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend (sqlite, markdown, badger, postgres)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.local/share/habits)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
}
