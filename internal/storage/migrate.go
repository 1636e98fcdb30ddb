// ABOUTME: Data migration between habit storage backends.
// ABOUTME: Copies habits and then their completions from source to destination.
package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Habits      int
	Completions int
}

// MigrateData copies all data from src to dst. Habits are created before
// completions so backends that check references accept them. The destination
// should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	habits, err := src.ListHabits("")
	if err != nil {
		return nil, fmt.Errorf("list source habits: %w", err)
	}
	for _, h := range habits {
		if err := dst.CreateHabit(h); err != nil {
			return nil, fmt.Errorf("create habit %s: %w", h.ID, err)
		}
		summary.Habits++
	}

	completions, err := src.ListCompletions("", nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source completions: %w", err)
	}
	// Oldest first so file-backed destinations are written in log order.
	for i := len(completions) - 1; i >= 0; i-- {
		c := completions[i]
		if err := dst.CreateCompletion(c); err != nil {
			return nil, fmt.Errorf("create completion %s: %w", c.ID, err)
		}
		summary.Completions++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
