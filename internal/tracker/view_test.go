// ABOUTME: Tests for the JSON views and the shared time parser.
// ABOUTME: Covers rank numbering, badges, error text and location handling.
package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakViews(t *testing.T) {
	a := models.NewHabit("alice", "A", "a")
	b := models.NewHabit("alice", "B", "b")
	c := models.NewHabit("alice", "C", "c")
	d := models.NewHabit("alice", "D", "d")

	entries := []streak.Entry{
		{Habit: a, Result: streak.Result{Current: 2, Best: 5, Total: 9}},
		{Habit: b, Result: streak.Result{Current: 1, Best: 3, Total: 3}},
		{Habit: c, Err: errors.New("boom")},
		{Habit: d},
	}

	views := StreakViews(entries)
	require.Len(t, views, 4)

	assert.Equal(t, 1, views[0].Rank)
	assert.Equal(t, "gold", views[0].Badge)
	assert.Equal(t, a.ID.String(), views[0].HabitID)
	assert.Equal(t, 5, views[0].Best)
	assert.Equal(t, 9, views[0].Total)

	assert.Equal(t, "silver", views[1].Badge)
	assert.Equal(t, "bronze", views[2].Badge)
	assert.Equal(t, "boom", views[2].Error)
	assert.Empty(t, views[3].Badge)
	assert.Equal(t, 4, views[3].Rank)
}

func TestNewCompletionViewNotes(t *testing.T) {
	h := models.NewHabit("alice", "Read", "pages")
	c := models.NewCompletion(h).WithCompletedAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))

	v := NewCompletionView(c)
	assert.Empty(t, v.Notes)
	assert.Equal(t, "2024-03-01T08:00:00Z", v.CompletedAt)
	assert.Equal(t, h.ID.String(), v.HabitID)

	c.WithNotes("20 pages")
	assert.Equal(t, "20 pages", NewCompletionView(c).Notes)
}

func TestTodayViews(t *testing.T) {
	h := models.NewHabit("alice", "Read", "pages")
	other := models.NewHabit("alice", "Walk", "steps")
	c := models.NewCompletion(h)

	views := TodayViews([]DayStatus{
		{Habit: h, Completions: []*models.Completion{c}},
		{Habit: other},
	})
	require.Len(t, views, 2)
	assert.True(t, views[0].Done)
	assert.Len(t, views[0].Completions, 1)
	assert.False(t, views[1].Done)
	assert.Empty(t, views[1].Completions)
}

func TestParseTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "date and time", input: "2025-01-31 08:30", want: time.Date(2025, 1, 31, 8, 30, 0, 0, tokyo)},
		{name: "date and time with T", input: "2025-01-31T08:30", want: time.Date(2025, 1, 31, 8, 30, 0, 0, tokyo)},
		{name: "date only", input: "2025-01-31", want: time.Date(2025, 1, 31, 0, 0, 0, 0, tokyo)},
		{name: "RFC3339 keeps its offset", input: "2025-01-31T08:30:00Z", want: time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC)},
		{name: "surrounding space", input: " 2025-01-31 ", want: time.Date(2025, 1, 31, 0, 0, 0, 0, tokyo)},
		{name: "day first", input: "31-01-2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input, tokyo)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseTimeNilLocation(t *testing.T) {
	got, err := ParseTime("2025-01-31", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}
