// ABOUTME: Habit CRUD operations for SQLite storage.
// ABOUTME: Deleting a habit cascades to its completions.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

const habitColumns = `id, user_id, title, description, frequency, created_at`

// CreateHabit stores a new habit in the database.
func (d *DB) CreateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}

	query := `INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		h.ID.String(),
		h.UserID,
		h.Title,
		h.Description,
		string(h.Frequency),
		formatTime(h.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID or ID prefix.
func (d *DB) GetHabit(idOrPrefix string) (*models.Habit, error) {
	id, err := d.resolveID("habits", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = ?`
	h, err := scanHabit(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return h, err
}

// ListHabits returns habits ordered by creation time.
func (d *DB) ListHabits(userID string) ([]*models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit rewrites the mutable fields of an existing habit.
func (d *DB) UpdateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	result, err := d.db.Exec(
		`UPDATE habits SET title = ?, description = ?, frequency = ? WHERE id = ?`,
		h.Title, h.Description, string(h.Frequency), h.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", h.ID)
	}
	return nil
}

// DeleteHabit removes a habit and all of its completions.
func (d *DB) DeleteHabit(idOrPrefix string) error {
	id, err := d.resolveID("habits", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", idOrPrefix)
	}
	return nil
}

// resolveID finds the full ID in table from an ID or unique prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	if isFullID(idOrPrefix) {
		return idOrPrefix, nil
	}

	// table is always a package constant, never user input.
	rows, err := d.db.Query(`SELECT id FROM `+table+` WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("not found: %s", idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	var h models.Habit
	var idStr, frequency, createdAt string

	if err := row.Scan(&idStr, &h.UserID, &h.Title, &h.Description, &frequency, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}

	h.ID, _ = uuid.Parse(idStr)
	h.Frequency = models.Frequency(frequency)
	h.CreatedAt = parseTime(createdAt)
	return &h, nil
}
