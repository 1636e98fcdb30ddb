// ABOUTME: Tests specific to the markdown-backed store.
// ABOUTME: Covers file layout, renames on title change, and hand-edited files.
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/models"
)

func setupMarkdown(t *testing.T) (*MarkdownStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewMarkdownStore(dir)
	if err != nil {
		t.Fatalf("NewMarkdownStore failed: %v", err)
	}
	return s, dir
}

func TestMarkdownFileLayout(t *testing.T) {
	s, dir := setupMarkdown(t)

	h := newHabit(t, s, "alice", "Morning Pages!", 0)
	c := newCompletion(t, s, h, time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC))

	habitPath := filepath.Join(dir, "habits", "morning-pages-"+h.ID.String()[:8]+".md")
	if _, err := os.Stat(habitPath); err != nil {
		t.Errorf("habit file missing at %s: %v", habitPath, err)
	}

	completionPath := filepath.Join(dir, "completions", "2024", "07", "2024-07-04-"+c.ID.String()[:8]+".md")
	data, err := os.ReadFile(completionPath)
	if err != nil {
		t.Fatalf("completion file missing: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "---\n") {
		t.Error("completion file should start with frontmatter")
	}
	if !strings.Contains(content, "habit_id: "+h.ID.String()) {
		t.Errorf("completion frontmatter missing habit_id: %s", content)
	}
}

func TestMarkdownRenameOnTitleChange(t *testing.T) {
	s, dir := setupMarkdown(t)
	h := newHabit(t, s, "alice", "Old Name", 0)

	h.Title = "New Name"
	if err := s.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "habits"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 habit file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "new-name-") {
		t.Errorf("unexpected file name %s", entries[0].Name())
	}
}

func TestMarkdownHandEditedTimestamp(t *testing.T) {
	s, dir := setupMarkdown(t)
	h := newHabit(t, s, "alice", "Read", 0)

	content := "---\n" +
		"id: 6f1c2f7e-9d6c-4a53-9a43-0a2b3c4d5e6f\n" +
		"habit_id: " + h.ID.String() + "\n" +
		"user_id: alice\n" +
		"completed_at: yesterday-ish\n" +
		"created_at: 2024-01-01T00:00:00Z\n" +
		"---\n\nfinished the book\n"
	path := filepath.Join(dir, "completions", "2024", "01", "manual.md")
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCompletion("6f1c2f7e")
	if err != nil {
		t.Fatalf("GetCompletion failed: %v", err)
	}
	if !got.CompletedAt.IsZero() {
		t.Errorf("expected zero CompletedAt, got %v", got.CompletedAt)
	}
	if got.Notes == nil || *got.Notes != "finished the book" {
		t.Errorf("Notes = %v", got.Notes)
	}
}

func TestMarkdownRejectsDuplicate(t *testing.T) {
	s, _ := setupMarkdown(t)
	h := newHabit(t, s, "alice", "Read", 0)

	if err := s.CreateHabit(h); err == nil {
		t.Error("expected error creating the same habit twice")
	}
}

func TestMarkdownIgnoresNonMarkdownFiles(t *testing.T) {
	s, dir := setupMarkdown(t)
	newHabit(t, s, "alice", "Read", 0)

	if err := os.WriteFile(filepath.Join(dir, "habits", "notes.txt"), []byte("scratch"), 0600); err != nil {
		t.Fatal(err)
	}

	habits, err := s.ListHabits("")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(habits))
	}
}

func TestMarkdownDefaultsFrequency(t *testing.T) {
	s, dir := setupMarkdown(t)

	content := "---\nid: 0b7e5a43-1c1d-4d0e-8f3e-2f9b4f0b6a11\nuser_id: alice\ntitle: Floss\ncreated_at: 2024-01-01T00:00:00Z\n---\n\nEvery night\n"
	if err := os.MkdirAll(filepath.Join(dir, "habits"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "habits", "floss.md"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	h, err := s.GetHabit("0b7e5a43")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.Frequency != models.FrequencyDaily {
		t.Errorf("Frequency = %v, want daily", h.Frequency)
	}
	if h.Description != "Every night" {
		t.Errorf("Description = %q", h.Description)
	}
}
