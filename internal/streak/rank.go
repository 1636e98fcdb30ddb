// ABOUTME: Habit ranker composing the calculator over a set of habits.
// ABOUTME: Orders by best streak (stable) and assigns positional rank badges.
package streak

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

// TopN is the number of ranked habits that receive a badge.
const TopN = 3

// Entry is one ranked habit with its streak statistics.
// Err is set when the habit's completions could not be evaluated; the
// statistics are zero in that case.
type Entry struct {
	Habit *models.Habit
	Result
	Err error
}

// Badge is the rank badge shown for the top streaks.
type Badge int

// Badges in rank order. Each badge's value is the position it is awarded for.
const (
	// BadgeNone is shown for every position past the top three.
	BadgeNone Badge = iota
	// BadgeGold marks the first ranked habit.
	BadgeGold
	// BadgeSilver marks the second ranked habit.
	BadgeSilver
	// BadgeBronze marks the third ranked habit.
	BadgeBronze
)

// String returns the badge name, or "" for BadgeNone.
func (b Badge) String() string {
	switch b {
	case BadgeGold:
		return "gold"
	case BadgeSilver:
		return "silver"
	case BadgeBronze:
		return "bronze"
	default:
		return ""
	}
}

// BadgeFor maps a 1-based rank position to its badge. Badges are positional:
// two habits tied on best streak still take distinct slots.
func BadgeFor(position int) Badge {
	if position < 1 || position > TopN {
		return BadgeNone
	}
	return Badge(position)
}

// Partition groups completions by habit ID, keeping input order within a group.
func Partition(completions []*models.Completion) map[uuid.UUID][]*models.Completion {
	byHabit := make(map[uuid.UUID][]*models.Completion)
	for _, c := range completions {
		if c == nil {
			continue
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit
}

// Orphans returns completions that reference a habit not present in habits.
func Orphans(habits []*models.Habit, completions []*models.Completion) []*models.Completion {
	known := make(map[uuid.UUID]struct{}, len(habits))
	for _, h := range habits {
		if h != nil {
			known[h.ID] = struct{}{}
		}
	}

	var orphans []*models.Completion
	for _, c := range completions {
		if c == nil {
			continue
		}
		if _, ok := known[c.HabitID]; !ok {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// Rank computes streaks for every habit and orders them by best streak,
// descending. Habits with equal best keep their input order. Completions for
// habits not in the list are ignored.
//
// A habit whose streak cannot be computed is still returned, with Err set;
// the returned error joins every such per-habit error.
func (c *Calculator) Rank(habits []*models.Habit, completions []*models.Completion) ([]Entry, error) {
	byHabit := Partition(completions)

	entries := make([]Entry, 0, len(habits))
	var errs []error

	for _, h := range habits {
		if h == nil {
			continue
		}
		entry := Entry{Habit: h}
		res, err := c.Compute(byHabit[h.ID])
		if err != nil {
			entry.Err = fmt.Errorf("habit %s: %w", h.ID, err)
			errs = append(errs, entry.Err)
		} else {
			entry.Result = res
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Best > entries[j].Best
	})

	return entries, errors.Join(errs...)
}

// TopStreaks returns the first TopN entries of a ranking.
func TopStreaks(entries []Entry) []Entry {
	if len(entries) > TopN {
		return entries[:TopN]
	}
	return entries
}
