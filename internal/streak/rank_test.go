// ABOUTME: Tests for the habit ranker and rank badges.
// ABOUTME: Covers stable ordering, zero-completion habits, orphans, and error isolation.
package streak

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

func habitNamed(title string) *models.Habit {
	return models.NewHabit("tester", title, title+" description")
}

func completionsFor(h *models.Habit, ds ...int) []*models.Completion {
	var out []*models.Completion
	for _, d := range ds {
		c := at(d, 12)
		c.HabitID = h.ID
		out = append(out, c)
	}
	return out
}

func titles(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Habit.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankStableOnTies(t *testing.T) {
	a, b, c := habitNamed("A"), habitNamed("B"), habitNamed("C")

	var completions []*models.Completion
	completions = append(completions, completionsFor(a, 1, 2, 3, 4, 5)...)
	completions = append(completions, completionsFor(b, 10, 11, 12, 13, 14)...)
	completions = append(completions, completionsFor(c, 1, 2)...)

	entries, err := NewCalculator(time.UTC).Rank([]*models.Habit{c, a, b}, completions)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}

	if got := titles(entries); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Errorf("Rank() order = %v, want [A B C]", got)
	}
	if entries[0].Best != 5 || entries[1].Best != 5 || entries[2].Best != 2 {
		t.Errorf("unexpected bests: %d %d %d", entries[0].Best, entries[1].Best, entries[2].Best)
	}
}

func TestRankKeepsHabitsWithoutCompletions(t *testing.T) {
	active, idle := habitNamed("active"), habitNamed("idle")

	entries, err := NewCalculator(time.UTC).Rank(
		[]*models.Habit{idle, active},
		completionsFor(active, 3),
	)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Habit != idle {
		t.Fatalf("expected idle habit last, got %s", entries[1].Habit.Title)
	}
	if entries[1].Result != (Result{}) {
		t.Errorf("idle habit result = %+v, want zero", entries[1].Result)
	}
}

func TestRankIgnoresOrphans(t *testing.T) {
	h := habitNamed("tracked")
	ghost := habitNamed("deleted")

	completions := append(completionsFor(h, 1, 2), completionsFor(ghost, 1, 2, 3, 4)...)

	entries, err := NewCalculator(time.UTC).Rank([]*models.Habit{h}, completions)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Total != 2 {
		t.Errorf("total = %d, want 2", entries[0].Total)
	}

	orphans := Orphans([]*models.Habit{h}, completions)
	if len(orphans) != 4 {
		t.Errorf("Orphans() = %d, want 4", len(orphans))
	}
}

func TestRankIsolatesInvalidTimestamps(t *testing.T) {
	good, bad := habitNamed("good"), habitNamed("bad")

	completions := completionsFor(good, 1, 2, 3)
	completions = append(completions, &models.Completion{ID: uuid.New(), HabitID: bad.ID})

	entries, err := NewCalculator(time.UTC).Rank([]*models.Habit{bad, good}, completions)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("Rank() error = %v, want ErrInvalidTimestamp", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Habit != good || entries[0].Best != 3 {
		t.Errorf("good habit = %+v, want first with best 3", entries[0])
	}
	if entries[1].Err == nil {
		t.Error("expected bad habit entry to carry its error")
	}
	if entries[1].Result != (Result{}) {
		t.Errorf("bad habit result = %+v, want zero", entries[1].Result)
	}
}

func TestTopStreaks(t *testing.T) {
	var habits []*models.Habit
	var completions []*models.Completion
	for i, title := range []string{"one", "two", "three", "four"} {
		h := habitNamed(title)
		habits = append(habits, h)
		var ds []int
		for d := 1; d <= 4-i; d++ {
			ds = append(ds, d)
		}
		completions = append(completions, completionsFor(h, ds...)...)
	}

	entries, err := NewCalculator(time.UTC).Rank(habits, completions)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}

	top := TopStreaks(entries)
	if got := titles(top); !equalStrings(got, []string{"one", "two", "three"}) {
		t.Errorf("TopStreaks() = %v", got)
	}
	if len(TopStreaks(entries[:2])) != 2 {
		t.Error("TopStreaks() should return short rankings unchanged")
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		position int
		want     Badge
		name     string
	}{
		{0, BadgeNone, ""},
		{1, BadgeGold, "gold"},
		{2, BadgeSilver, "silver"},
		{3, BadgeBronze, "bronze"},
		{4, BadgeNone, ""},
	}

	for _, tt := range tests {
		if got := BadgeFor(tt.position); got != tt.want {
			t.Errorf("BadgeFor(%d) = %v, want %v", tt.position, got, tt.want)
		}
		if got := BadgeFor(tt.position).String(); got != tt.name {
			t.Errorf("BadgeFor(%d).String() = %q, want %q", tt.position, got, tt.name)
		}
	}
}

func TestBadgesArePositionalOnTies(t *testing.T) {
	a, b := habitNamed("A"), habitNamed("B")
	completions := append(completionsFor(a, 1, 2), completionsFor(b, 5, 6)...)

	entries, err := NewCalculator(time.UTC).Rank([]*models.Habit{a, b}, completions)
	if err != nil {
		t.Fatalf("Rank() unexpected error: %v", err)
	}
	if entries[0].Best != entries[1].Best {
		t.Fatal("expected a tie")
	}
	if BadgeFor(1) == BadgeFor(2) {
		t.Error("tied habits must occupy distinct badge slots")
	}
}
