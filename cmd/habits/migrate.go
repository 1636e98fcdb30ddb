// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies every habit and completion from the active backend to another.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateToDir  string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all habits and completions from the active backend to another one.

The source is whatever --backend/--data-dir or the config file selects.
The destination must be empty unless --force is given. Your config is not
changed; switch with 'habits config set backend <name>' afterwards.

USAGE:

  habits migrate --to markdown --dry-run     # Preview what would be copied
  habits migrate --to markdown               # Copy into the same data dir
  habits migrate --to badger --to-dir ~/kv   # Copy somewhere else
  habits migrate --to postgres               # Uses postgres_dsn`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required (one of: sqlite, markdown, badger, postgres)")
		}

		destDir := cfg.GetDataDir()
		if migrateToDir != "" {
			destDir = config.ExpandPath(migrateToDir)
		}

		if migrateTo == cfg.GetBackend() && destDir == cfg.GetDataDir() && migrateTo != config.BackendPostgres {
			return fmt.Errorf("source and destination are the same %s store", migrateTo)
		}

		data, err := repo.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read source data: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would copy %d habits and %d completions\n", len(data.Habits), len(data.Completions))
			fmt.Printf("  from %s (%s)\n", cfg.GetBackend(), cfg.GetDataDir())
			fmt.Printf("  to   %s (%s)\n", migrateTo, describeDest(migrateTo, destDir))
			return nil
		}

		if !migrateForce {
			occupied, err := destinationOccupied(migrateTo, destDir)
			if err != nil {
				return err
			}
			if occupied {
				return fmt.Errorf("destination %s already has data (use --force to copy anyway)", describeDest(migrateTo, destDir))
			}
		}

		dst, err := config.OpenBackend(migrateTo, destDir, cfg.GetPostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d habits and %d completions to %s", summary.Habits, summary.Completions, migrateTo)
		fmt.Printf("  Switch with: habits config set backend %s\n", migrateTo)
		return nil
	},
}

func describeDest(backend, dir string) string {
	switch backend {
	case config.BackendSQLite:
		return storage.DBPath(dir)
	case config.BackendBadger:
		return storage.KVDir(dir)
	case config.BackendPostgres:
		return "postgres"
	default:
		return dir
	}
}

// destinationOccupied reports whether a file-based destination already holds
// data. Postgres destinations reject duplicate IDs on insert instead.
func destinationOccupied(backend, dir string) (bool, error) {
	switch backend {
	case config.BackendSQLite:
		_, err := os.Stat(storage.DBPath(dir))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	case config.BackendMarkdown:
		for _, sub := range []string{"habits", "completions"} {
			nonEmpty, err := storage.IsDirNonEmpty(filepath.Join(dir, sub))
			if err != nil || nonEmpty {
				return nonEmpty, err
			}
		}
		return false, nil
	case config.BackendBadger:
		return storage.IsDirNonEmpty(storage.KVDir(dir))
	case config.BackendPostgres:
		return false, nil
	default:
		return false, fmt.Errorf("unknown backend: %q", backend)
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, markdown, badger, postgres)")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "destination data directory (default: current data dir)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even if the destination has data")
	rootCmd.AddCommand(migrateCmd)
}
