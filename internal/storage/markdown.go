// ABOUTME: MarkdownStore keeps habits and completions as markdown files with YAML frontmatter.
// ABOUTME: Habits live under habits/, completions under completions/YYYY/MM/.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

// MarkdownStore provides file-based storage using markdown files.
type MarkdownStore struct {
	dataDir string
}

// Compile-time check that MarkdownStore implements Repository.
var _ Repository = (*MarkdownStore)(nil)

// NewMarkdownStore creates a new markdown-backed store rooted at dataDir.
func NewMarkdownStore(dataDir string) (*MarkdownStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &MarkdownStore{dataDir: dataDir}, nil
}

// Close releases resources. For MarkdownStore this is a no-op.
func (s *MarkdownStore) Close() error {
	return nil
}

func (s *MarkdownStore) habitsDir() string {
	return filepath.Join(s.dataDir, "habits")
}

func (s *MarkdownStore) completionsDir() string {
	return filepath.Join(s.dataDir, "completions")
}

// habitFilePath returns habits/<slug>-<id_prefix>.md.
func (s *MarkdownStore) habitFilePath(h *models.Habit) string {
	return filepath.Join(s.habitsDir(),
		fmt.Sprintf("%s-%s.md", slugify(h.Title), h.ID.String()[:8]))
}

// completionFilePath returns completions/YYYY/MM/YYYY-MM-DD-<id_prefix>.md.
func (s *MarkdownStore) completionFilePath(c *models.Completion) string {
	at := c.CompletedAt
	return filepath.Join(s.completionsDir(), at.Format("2006"), at.Format("01"),
		fmt.Sprintf("%s-%s.md", at.Format("2006-01-02"), c.ID.String()[:8]))
}

type habitFrontmatter struct {
	ID        string `yaml:"id"`
	UserID    string `yaml:"user_id"`
	Title     string `yaml:"title"`
	Frequency string `yaml:"frequency"`
	CreatedAt string `yaml:"created_at"`
}

type completionFrontmatter struct {
	ID          string `yaml:"id"`
	HabitID     string `yaml:"habit_id"`
	UserID      string `yaml:"user_id"`
	CompletedAt string `yaml:"completed_at"`
	CreatedAt   string `yaml:"created_at"`
}

// habitFile pairs a parsed habit with the file it came from.
type habitFile struct {
	path  string
	habit *models.Habit
}

type completionFile struct {
	path       string
	completion *models.Completion
}

func readHabitFile(path string) (*models.Habit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fm habitFrontmatter
	body, err := decodeFrontmatter(data, &fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("parse habit ID %q: %w", fm.ID, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, fm.CreatedAt)

	freq := models.Frequency(fm.Frequency)
	if freq == "" {
		freq = models.FrequencyDaily
	}

	return &models.Habit{
		ID:          id,
		UserID:      fm.UserID,
		Title:       fm.Title,
		Description: strings.TrimSpace(body),
		Frequency:   freq,
		CreatedAt:   createdAt,
	}, nil
}

func (s *MarkdownStore) writeHabitFile(path string, h *models.Habit) error {
	fm := habitFrontmatter{
		ID:        h.ID.String(),
		UserID:    h.UserID,
		Title:     h.Title,
		Frequency: string(h.Frequency),
		CreatedAt: h.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	content, err := renderFrontmatter(&fm, "\n"+h.Description+"\n")
	if err != nil {
		return fmt.Errorf("render habit file: %w", err)
	}
	return atomicWrite(path, []byte(content))
}

// readCompletionFile parses a completion. A hand-edited completed_at that no
// longer parses is kept as the zero time so streak computation can flag it.
func readCompletionFile(path string) (*models.Completion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fm completionFrontmatter
	body, err := decodeFrontmatter(data, &fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("parse completion ID %q: %w", fm.ID, err)
	}
	habitID, err := uuid.Parse(fm.HabitID)
	if err != nil {
		return nil, fmt.Errorf("parse habit ID %q: %w", fm.HabitID, err)
	}
	completedAt, _ := time.Parse(time.RFC3339, fm.CompletedAt)
	createdAt, _ := time.Parse(time.RFC3339, fm.CreatedAt)

	c := &models.Completion{
		ID:          id,
		HabitID:     habitID,
		UserID:      fm.UserID,
		CompletedAt: completedAt,
		CreatedAt:   createdAt,
	}
	if notes := strings.TrimSpace(body); notes != "" {
		c.Notes = &notes
	}
	return c, nil
}

func (s *MarkdownStore) writeCompletionFile(c *models.Completion) error {
	fm := completionFrontmatter{
		ID:          c.ID.String(),
		HabitID:     c.HabitID.String(),
		UserID:      c.UserID,
		CompletedAt: c.CompletedAt.Format(time.RFC3339Nano),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	body := ""
	if c.Notes != nil && *c.Notes != "" {
		body = "\n" + *c.Notes + "\n"
	}

	content, err := renderFrontmatter(&fm, body)
	if err != nil {
		return fmt.Errorf("render completion file: %w", err)
	}
	return atomicWrite(s.completionFilePath(c), []byte(content))
}

// walkMarkdown calls fn for every .md file under dir. A missing dir is empty.
func walkMarkdown(dir string, fn func(path string) error) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		return fn(path)
	})
}

func (s *MarkdownStore) loadHabits() ([]habitFile, error) {
	var files []habitFile
	err := walkMarkdown(s.habitsDir(), func(path string) error {
		h, err := readHabitFile(path)
		if err != nil {
			return fmt.Errorf("read habit file %s: %w", path, err)
		}
		files = append(files, habitFile{path: path, habit: h})
		return nil
	})
	return files, err
}

func (s *MarkdownStore) loadCompletions() ([]completionFile, error) {
	var files []completionFile
	err := walkMarkdown(s.completionsDir(), func(path string) error {
		c, err := readCompletionFile(path)
		if err != nil {
			return fmt.Errorf("read completion file %s: %w", path, err)
		}
		files = append(files, completionFile{path: path, completion: c})
		return nil
	})
	return files, err
}

func (s *MarkdownStore) findHabit(idOrPrefix string) (habitFile, error) {
	files, err := s.loadHabits()
	if err != nil {
		return habitFile{}, err
	}
	return matchID(files, func(f habitFile) uuid.UUID { return f.habit.ID }, idOrPrefix)
}

func (s *MarkdownStore) findCompletion(idOrPrefix string) (completionFile, error) {
	files, err := s.loadCompletions()
	if err != nil {
		return completionFile{}, err
	}
	return matchID(files, func(f completionFile) uuid.UUID { return f.completion.ID }, idOrPrefix)
}

// CreateHabit writes a new habit file.
func (s *MarkdownStore) CreateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	if _, err := s.findHabit(h.ID.String()); err == nil {
		return fmt.Errorf("create habit: already exists: %s", h.ID)
	}
	return s.writeHabitFile(s.habitFilePath(h), h)
}

// GetHabit retrieves a habit by ID or ID prefix.
func (s *MarkdownStore) GetHabit(idOrPrefix string) (*models.Habit, error) {
	f, err := s.findHabit(idOrPrefix)
	if err != nil {
		return nil, err
	}
	return f.habit, nil
}

// ListHabits returns habits ordered by creation time.
func (s *MarkdownStore) ListHabits(userID string) ([]*models.Habit, error) {
	files, err := s.loadHabits()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	habits := make([]*models.Habit, 0, len(files))
	for _, f := range files {
		habits = append(habits, f.habit)
	}
	return filterHabits(habits, userID), nil
}

// UpdateHabit rewrites a habit file, renaming it when the title changes.
func (s *MarkdownStore) UpdateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	f, err := s.findHabit(h.ID.String())
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	updated := *f.habit
	updated.Title = h.Title
	updated.Description = h.Description
	updated.Frequency = h.Frequency

	newPath := s.habitFilePath(&updated)
	if err := s.writeHabitFile(newPath, &updated); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if newPath != f.path {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove old habit file: %w", err)
		}
	}
	return nil
}

// DeleteHabit removes a habit file and every completion file that references it.
func (s *MarkdownStore) DeleteHabit(idOrPrefix string) error {
	f, err := s.findHabit(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	completions, err := s.loadCompletions()
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	for _, cf := range completions {
		if cf.completion.HabitID != f.habit.ID {
			continue
		}
		if err := os.Remove(cf.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete completion file: %w", err)
		}
	}

	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// CreateCompletion writes a completion file. The habit must exist.
func (s *MarkdownStore) CreateCompletion(c *models.Completion) error {
	if _, err := s.findHabit(c.HabitID.String()); err != nil {
		return fmt.Errorf("create completion: habit %w", err)
	}
	if _, err := s.findCompletion(c.ID.String()); err == nil {
		return fmt.Errorf("create completion: already exists: %s", c.ID)
	}
	return s.writeCompletionFile(c)
}

// GetCompletion retrieves a completion by ID or ID prefix.
func (s *MarkdownStore) GetCompletion(idOrPrefix string) (*models.Completion, error) {
	f, err := s.findCompletion(idOrPrefix)
	if err != nil {
		return nil, err
	}
	return f.completion, nil
}

// ListCompletions retrieves completions sorted by CompletedAt descending.
func (s *MarkdownStore) ListCompletions(userID string, habitID *uuid.UUID, limit int) ([]*models.Completion, error) {
	files, err := s.loadCompletions()
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	all := make([]*models.Completion, 0, len(files))
	for _, f := range files {
		all = append(all, f.completion)
	}
	return filterCompletions(all, userID, habitID, limit), nil
}

// DeleteCompletion removes a completion file by ID or prefix.
func (s *MarkdownStore) DeleteCompletion(idOrPrefix string) error {
	f, err := s.findCompletion(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// GetAllData retrieves all data for export.
func (s *MarkdownStore) GetAllData() (*ExportData, error) {
	habits, err := s.ListHabits("")
	if err != nil {
		return nil, err
	}
	completions, err := s.ListCompletions("", nil, 0)
	if err != nil {
		return nil, err
	}
	return newExportData(habits, completions), nil
}

// ImportData imports habits, then completions.
func (s *MarkdownStore) ImportData(data *ExportData) error {
	return importSequential(s, data)
}
