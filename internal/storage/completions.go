// ABOUTME: Completion CRUD operations for SQLite storage.
// ABOUTME: Completions are listed most recent first with optional user and habit filters.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
)

const completionColumns = `id, habit_id, user_id, completed_at, notes, created_at`

// CreateCompletion stores a completion. The referenced habit must exist.
func (d *DB) CreateCompletion(c *models.Completion) error {
	query := `INSERT INTO completions (` + completionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		c.ID.String(),
		c.HabitID.String(),
		c.UserID,
		formatTime(c.CompletedAt),
		c.Notes,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

// GetCompletion retrieves a completion by ID or ID prefix.
func (d *DB) GetCompletion(idOrPrefix string) (*models.Completion, error) {
	id, err := d.resolveID("completions", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + completionColumns + ` FROM completions WHERE id = ?`
	c, err := scanCompletion(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return c, err
}

// ListCompletions retrieves completions sorted by CompletedAt descending.
// A limit of 0 returns everything.
func (d *DB) ListCompletions(userID string, habitID *uuid.UUID, limit int) ([]*models.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE 1 = 1`
	var args []interface{}

	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	if habitID != nil {
		query += ` AND habit_id = ?`
		args = append(args, habitID.String())
	}
	query += ` ORDER BY completed_at DESC`

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// DeleteCompletion removes a completion by ID or prefix.
func (d *DB) DeleteCompletion(idOrPrefix string) error {
	id, err := d.resolveID("completions", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM completions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", idOrPrefix)
	}
	return nil
}

func scanCompletion(row rowScanner) (*models.Completion, error) {
	var c models.Completion
	var idStr, habitIDStr, completedAt, createdAt string
	var notes sql.NullString

	if err := row.Scan(&idStr, &habitIDStr, &c.UserID, &completedAt, &notes, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan completion: %w", err)
	}

	c.ID, _ = uuid.Parse(idStr)
	c.HabitID, _ = uuid.Parse(habitIDStr)
	c.CompletedAt = parseTime(completedAt)
	c.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		c.Notes = &notes.String
	}
	return &c, nil
}
