// ABOUTME: Tests for JSON, YAML, and Markdown export and JSON import.
// ABOUTME: Exports run against SQLite; import round-trips into a fresh store.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/streak"
	"gopkg.in/yaml.v3"
)

func seedExport(t *testing.T, repo Repository) {
	t.Helper()
	run := newHabit(t, repo, "alice", "Run", 0)
	read := newHabit(t, repo, "alice", "Read", time.Second)
	newHabit(t, repo, "alice", "Floss", 2*time.Second)

	for _, day := range []int{1, 2, 3, 5, 6, 7, 8} {
		newCompletion(t, repo, run, time.Date(2024, 1, day, 7, 0, 0, 0, time.UTC))
	}
	newCompletion(t, repo, read, time.Date(2024, 1, 4, 21, 0, 0, 0, time.UTC))
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedExport(t, src)

	raw, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded["tool"] != "habits" {
		t.Errorf("tool = %v, want habits", decoded["tool"])
	}

	dst := setupTestDB(t)
	data, err := ImportJSON(dst, raw)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if len(data.Habits) != 3 || len(data.Completions) != 8 {
		t.Errorf("imported %d habits and %d completions", len(data.Habits), len(data.Completions))
	}

	habits, _ := dst.ListHabits("alice")
	if len(habits) != 3 || habits[0].Title != "Run" {
		t.Errorf("habits not imported in creation order: %v", habits)
	}
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	if _, err := ImportJSON(setupTestDB(t), []byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportYAMLGroupsByHabit(t *testing.T) {
	repo := setupTestDB(t)
	seedExport(t, repo)

	raw, err := ExportYAML(repo)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var out struct {
		Tool   string `yaml:"tool"`
		Habits []struct {
			Title       string `yaml:"title"`
			Completions []struct {
				CompletedAt string `yaml:"completed_at"`
			} `yaml:"completions"`
		} `yaml:"habits"`
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}

	if len(out.Habits) != 3 {
		t.Fatalf("expected 3 habits, got %d", len(out.Habits))
	}
	counts := map[string]int{}
	for _, h := range out.Habits {
		counts[h.Title] = len(h.Completions)
	}
	if counts["Run"] != 7 || counts["Read"] != 1 || counts["Floss"] != 0 {
		t.Errorf("unexpected grouping: %v", counts)
	}
}

func TestExportMarkdown(t *testing.T) {
	repo := setupTestDB(t)
	seedExport(t, repo)

	md, err := ExportMarkdown(repo, streak.NewCalculator(time.UTC))
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	if !strings.HasPrefix(md, "# Habits Export - ") {
		t.Errorf("missing title: %q", md)
	}
	if !strings.Contains(md, "## Run\n") {
		t.Error("missing Run section")
	}
	if !strings.Contains(md, "Current streak: 4 | Best streak: 4 | Total: 7") {
		t.Error("missing Run streak line")
	}
	if !strings.Contains(md, "Rank: #1 (gold)") {
		t.Error("missing gold badge")
	}
	if !strings.Contains(md, "| 2024-01-08 07:00 |") {
		t.Error("missing completion row")
	}

	runAt := strings.Index(md, "## Run")
	readAt := strings.Index(md, "## Read")
	flossAt := strings.Index(md, "## Floss")
	if !(runAt < readAt && readAt < flossAt) {
		t.Error("sections should follow ranking order")
	}
}

func TestExportMarkdownEmpty(t *testing.T) {
	md, err := ExportMarkdown(setupTestDB(t), streak.NewCalculator(time.UTC))
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "No habits.") {
		t.Errorf("expected empty notice, got %q", md)
	}
}
