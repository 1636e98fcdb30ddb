// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-markdown, markdown-to-badger, and empty-directory checks.
package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMigrateDataSQLiteToMarkdown(t *testing.T) {
	src := setupTestDB(t)
	h := newHabit(t, src, "alice", "Run", 0)
	other := newHabit(t, src, "bob", "Swim", time.Second)
	newCompletion(t, src, h, base.Add(time.Hour))
	newCompletion(t, src, h, base.Add(25*time.Hour))
	newCompletion(t, src, other, base.Add(2*time.Hour))

	dst, err := NewMarkdownStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMarkdownStore failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Habits != 2 || summary.Completions != 3 {
		t.Errorf("summary = %+v, want 2 habits and 3 completions", summary)
	}

	completions, err := dst.ListCompletions("alice", nil, 0)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(completions) != 2 {
		t.Errorf("expected 2 completions for alice, got %d", len(completions))
	}
}

func TestMigrateDataMarkdownToBadger(t *testing.T) {
	src, err := NewMarkdownStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMarkdownStore failed: %v", err)
	}
	h := newHabit(t, src, "alice", "Read", 0)
	newCompletion(t, src, h, base.Add(time.Hour))

	dst, err := OpenKV(filepath.Join(t.TempDir(), "kv"))
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	defer dst.Close()

	if _, err := MigrateData(src, dst); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	got, err := dst.GetHabit(h.ID.String())
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Title != "Read" {
		t.Errorf("Title = %q", got.Title)
	}
	completions, err := dst.ListCompletions("", &h.ID, 0)
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(completions) != 1 {
		t.Errorf("expected 1 completion, got %d", len(completions))
	}
}

func TestMigrateDataFailsOnDuplicate(t *testing.T) {
	src := setupTestDB(t)
	newHabit(t, src, "alice", "Run", 0)

	dst := setupTestDB(t)
	if _, err := MigrateData(src, dst); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	if _, err := MigrateData(src, dst); err == nil {
		t.Error("expected error migrating into a store that already has the data")
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || nonEmpty {
		t.Errorf("missing dir: got %v, %v", nonEmpty, err)
	}

	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil || nonEmpty {
		t.Errorf("empty dir: got %v, %v", nonEmpty, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Errorf("populated dir: got %v, %v", nonEmpty, err)
	}
}
