// ABOUTME: Repository interface for habit and completion storage.
// ABOUTME: Defines the contract every backend implements, plus shared ID helpers.
package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

// Repository defines the storage interface for habits and their completions.
// An empty userID on list operations means every user.
type Repository interface {
	// Habit operations
	CreateHabit(h *models.Habit) error
	GetHabit(idOrPrefix string) (*models.Habit, error)
	ListHabits(userID string) ([]*models.Habit, error)
	UpdateHabit(h *models.Habit) error
	DeleteHabit(idOrPrefix string) error

	// Completion operations
	CreateCompletion(c *models.Completion) error
	GetCompletion(idOrPrefix string) (*models.Completion, error)
	ListCompletions(userID string, habitID *uuid.UUID, limit int) ([]*models.Completion, error)
	DeleteCompletion(idOrPrefix string) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

// isFullID reports whether s looks like a complete UUID rather than a prefix.
func isFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// matchID picks the single item whose ID equals or starts with idOrPrefix.
func matchID[T any](items []T, idOf func(T) uuid.UUID, idOrPrefix string) (T, error) {
	var zero T
	full := isFullID(idOrPrefix)

	var matches []T
	for _, item := range items {
		id := idOf(item).String()
		if full && id == idOrPrefix {
			return item, nil
		}
		if !full && strings.HasPrefix(id, idOrPrefix) {
			matches = append(matches, item)
		}
	}

	if len(matches) == 0 {
		return zero, fmt.Errorf("not found: %s", idOrPrefix)
	}
	if len(matches) > 1 {
		return zero, fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

// filterCompletions applies the user and habit filters, sorts most recent
// first and truncates to limit. Backends without query support share it.
func filterCompletions(all []*models.Completion, userID string, habitID *uuid.UUID, limit int) []*models.Completion {
	var out []*models.Completion
	for _, c := range all {
		if userID != "" && c.UserID != userID {
			continue
		}
		if habitID != nil && c.HabitID != *habitID {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filterHabits keeps habits owned by userID, ordered by creation time.
func filterHabits(all []*models.Habit, userID string) []*models.Habit {
	var out []*models.Habit
	for _, h := range all {
		if userID != "" && h.UserID != userID {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
