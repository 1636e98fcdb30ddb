// ABOUTME: Streak calculator deriving current/best/total from a completion log.
// ABOUTME: Works on calendar days in a fixed reference location; pure and stateless.
package streak

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/habits/internal/models"
)

var (
	// ErrInvalidTimestamp is returned when a completion has no usable instant.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrUnknownHabitReference marks a completion whose habit was not supplied.
	// Rank ignores such completions; see Orphans.
	ErrUnknownHabitReference = errors.New("unknown habit reference")
)

// maxDayGap is the largest gap, in days between normalized dates, that still
// continues a streak. Anything above one day but at most this value absorbs
// jitter such as a 25 hour DST day.
const maxDayGap = 1.5

// Result holds the derived streak statistics for one habit.
type Result struct {
	Current int
	Best    int
	Total   int
}

// Calculator computes streaks relative to a reference location.
type Calculator struct {
	loc *time.Location
}

// NewCalculator returns a Calculator that normalizes timestamps to calendar
// days in loc. A nil loc means time.Local.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{loc: loc}
}

// Location returns the reference location used for day normalization.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Day truncates t to midnight of its calendar day in the reference location.
func (c *Calculator) Day(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// Compute derives streak statistics from completions of a single habit.
// The input may be unordered and may hold several completions per day; it is
// not modified.
func (c *Calculator) Compute(completions []*models.Completion) (Result, error) {
	if len(completions) == 0 {
		return Result{}, nil
	}

	sorted := make([]*models.Completion, 0, len(completions))
	for _, comp := range completions {
		if comp == nil {
			return Result{}, fmt.Errorf("%w: nil completion", ErrInvalidTimestamp)
		}
		if comp.CompletedAt.IsZero() {
			return Result{}, fmt.Errorf("%w: completion %s", ErrInvalidTimestamp, comp.ID)
		}
		sorted = append(sorted, comp)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	res := Result{Total: len(sorted)}
	var lastDay time.Time
	run := 0

	for i, comp := range sorted {
		day := c.Day(comp.CompletedAt)

		if i == 0 {
			run = 1
		} else {
			gap := day.Sub(lastDay).Hours() / 24
			switch {
			case gap == 0:
				// same calendar day
			case gap <= maxDayGap:
				run++
			default:
				run = 1
			}
		}

		res.Best = max(res.Best, run)
		lastDay = day
	}

	res.Current = run
	return res, nil
}
