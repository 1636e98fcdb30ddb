// ABOUTME: Export and import of habit data across every backend.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the version stamped on exports.
const ExportVersion = "1.0"

// ExportData represents the full export format for habit data.
type ExportData struct {
	Version     string               `json:"version" yaml:"version"`
	ExportedAt  time.Time            `json:"exported_at" yaml:"exported_at"`
	Tool        string               `json:"tool" yaml:"tool"`
	Habits      []*models.Habit      `json:"habits" yaml:"habits"`
	Completions []*models.Completion `json:"completions" yaml:"completions"`
}

func newExportData(habits []*models.Habit, completions []*models.Completion) *ExportData {
	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  time.Now(),
		Tool:        "habits",
		Habits:      habits,
		Completions: completions,
	}
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	habits, err := d.ListHabits("")
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	completions, err := d.ListCompletions("", nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return newExportData(habits, completions), nil
}

// ImportData imports habits first, then their completions, in one transaction.
func (d *DB) ImportData(data *ExportData) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range data.Habits {
		_, err := tx.Exec(`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID.String(), h.UserID, h.Title, h.Description, string(h.Frequency), formatTime(h.CreatedAt))
		if err != nil {
			return fmt.Errorf("import habit %s: %w", h.ID, err)
		}
	}
	for _, c := range data.Completions {
		_, err := tx.Exec(`INSERT INTO completions (`+completionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID.String(), c.HabitID.String(), c.UserID, formatTime(c.CompletedAt), c.Notes, formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("import completion %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// importSequential is the ImportData body for backends without transactions.
func importSequential(repo Repository, data *ExportData) error {
	for _, h := range data.Habits {
		if err := repo.CreateHabit(h); err != nil {
			return fmt.Errorf("import habit: %w", err)
		}
	}
	for _, c := range data.Completions {
		if err := repo.CreateCompletion(c); err != nil {
			return fmt.Errorf("import completion: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes produced by ExportJSON.
func ImportJSON(repo Repository, raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := repo.ImportData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

type yamlHabit struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Frequency   string           `yaml:"frequency"`
	UserID      string           `yaml:"user_id"`
	CreatedAt   string           `yaml:"created_at"`
	Completions []yamlCompletion `yaml:"completions,omitempty"`
}

type yamlCompletion struct {
	ID          string `yaml:"id"`
	CompletedAt string `yaml:"completed_at"`
	Notes       string `yaml:"notes,omitempty"`
}

// ExportYAML exports all data as YAML with completions nested under their habit.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}

	out := struct {
		Version    string      `yaml:"version"`
		ExportedAt string      `yaml:"exported_at"`
		Tool       string      `yaml:"tool"`
		Habits     []yamlHabit `yaml:"habits"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Habits:     make([]yamlHabit, 0, len(data.Habits)),
	}

	byHabit := streak.Partition(data.Completions)
	for _, h := range data.Habits {
		yh := yamlHabit{
			ID:          h.ID.String()[:8],
			Title:       h.Title,
			Description: h.Description,
			Frequency:   string(h.Frequency),
			UserID:      h.UserID,
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		}
		for _, c := range byHabit[h.ID] {
			yc := yamlCompletion{
				ID:          c.ID.String()[:8],
				CompletedAt: c.CompletedAt.Format(time.RFC3339),
			}
			if c.Notes != nil {
				yc.Notes = *c.Notes
			}
			yh.Completions = append(yh.Completions, yc)
		}
		out.Habits = append(out.Habits, yh)
	}

	return yaml.Marshal(out)
}

// ExportMarkdown renders a report with one table per habit, headed by its
// streak statistics as computed by calc.
func ExportMarkdown(repo Repository, calc *streak.Calculator) (string, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return "", err
	}

	entries, rankErr := calc.Rank(data.Habits, data.Completions)
	byHabit := streak.Partition(data.Completions)

	var sb strings.Builder
	now := time.Now().In(calc.Location())

	sb.WriteString(fmt.Sprintf("# Habits Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(entries) == 0 {
		sb.WriteString("No habits.\n")
		return sb.String(), nil
	}

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("## %s\n\n", e.Habit.Title))
		if e.Habit.Description != "" {
			sb.WriteString(e.Habit.Description + "\n\n")
		}
		if badge := streak.BadgeFor(i + 1); badge != streak.BadgeNone {
			sb.WriteString(fmt.Sprintf("Rank: #%d (%s)\n\n", i+1, badge))
		}
		if e.Err != nil {
			sb.WriteString(fmt.Sprintf("Streak unavailable: %v\n\n", e.Err))
		} else {
			sb.WriteString(fmt.Sprintf("Current streak: %d | Best streak: %d | Total: %d\n\n",
				e.Current, e.Best, e.Total))
		}

		completions := filterCompletions(byHabit[e.Habit.ID], "", nil, 0)
		if len(completions) == 0 {
			continue
		}
		sb.WriteString("| Date | Notes |\n")
		sb.WriteString("|------|-------|\n")
		for _, c := range completions {
			notes := ""
			if c.Notes != nil {
				notes = *c.Notes
			}
			sb.WriteString(fmt.Sprintf("| %s | %s |\n",
				c.CompletedAt.In(calc.Location()).Format("2006-01-02 15:04"), notes))
		}
		sb.WriteString("\n")
	}

	if rankErr != nil {
		return sb.String(), fmt.Errorf("compute streaks: %w", rankErr)
	}
	return sb.String(), nil
}
