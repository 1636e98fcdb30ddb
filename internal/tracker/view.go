// ABOUTME: JSON-facing views of habits, completions and ranked streaks.
// ABOUTME: Shared by the CLI --json output and the MCP server.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
)

// HabitView is the serialized form of a habit.
type HabitView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	CreatedAt   string `json:"created_at"`
}

// CompletionView is the serialized form of a completion.
type CompletionView struct {
	ID          string `json:"id"`
	HabitID     string `json:"habit_id"`
	CompletedAt string `json:"completed_at"`
	Notes       string `json:"notes,omitempty"`
}

// StreakView is one ranked habit.
type StreakView struct {
	Rank    int    `json:"rank"`
	Badge   string `json:"badge,omitempty"`
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	Current int    `json:"current"`
	Best    int    `json:"best"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// TodayView reports whether a habit has been done today.
type TodayView struct {
	HabitID     string           `json:"habit_id"`
	Title       string           `json:"title"`
	Done        bool             `json:"done"`
	Completions []CompletionView `json:"completions,omitempty"`
}

// NewHabitView converts a habit.
func NewHabitView(h *models.Habit) HabitView {
	return HabitView{
		ID:          h.ID.String(),
		Title:       h.Title,
		Description: h.Description,
		Frequency:   string(h.Frequency),
		CreatedAt:   h.CreatedAt.Format(time.RFC3339),
	}
}

// NewCompletionView converts a completion.
func NewCompletionView(c *models.Completion) CompletionView {
	v := CompletionView{
		ID:          c.ID.String(),
		HabitID:     c.HabitID.String(),
		CompletedAt: c.CompletedAt.Format(time.RFC3339),
	}
	if c.Notes != nil {
		v.Notes = *c.Notes
	}
	return v
}

// NewStreakView converts a ranked entry at the given 1-based position.
func NewStreakView(position int, e streak.Entry) StreakView {
	v := StreakView{
		Rank:    position,
		Badge:   streak.BadgeFor(position).String(),
		HabitID: e.Habit.ID.String(),
		Title:   e.Habit.Title,
		Current: e.Current,
		Best:    e.Best,
		Total:   e.Total,
	}
	if e.Err != nil {
		v.Error = e.Err.Error()
	}
	return v
}

// StreakViews converts a full ranking, numbering positions from 1.
func StreakViews(entries []streak.Entry) []StreakView {
	views := make([]StreakView, 0, len(entries))
	for i, e := range entries {
		views = append(views, NewStreakView(i+1, e))
	}
	return views
}

// TodayViews converts the output of Service.Today.
func TodayViews(statuses []DayStatus) []TodayView {
	views := make([]TodayView, 0, len(statuses))
	for _, st := range statuses {
		v := TodayView{
			HabitID: st.Habit.ID.String(),
			Title:   st.Habit.Title,
			Done:    st.Done(),
		}
		for _, c := range st.Completions {
			v.Completions = append(v.Completions, NewCompletionView(c))
		}
		views = append(views, v)
	}
	return views
}

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 or a local date/time. Values without an offset
// are interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
