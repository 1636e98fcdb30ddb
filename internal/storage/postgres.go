// ABOUTME: Postgres-backed storage for habits using a pgx connection pool.
// ABOUTME: Intended for sharing one habit log between machines.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresTimeout = 10 * time.Second

const postgresSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	frequency TEXT NOT NULL DEFAULT 'daily',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS completions (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_completions_habit ON completions(habit_id, completed_at DESC);
CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id, completed_at DESC);
`

// PostgresStore provides Postgres-backed persistence for habits and completions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that PostgresStore implements Repository.
var _ Repository = (*PostgresStore)(nil)

// OpenPostgres connects to dsn, verifies the connection and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("open postgres: empty connection string")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStore wraps an existing pool. The schema must already exist.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), postgresTimeout)
}

// CreateHabit stores a new habit.
func (s *PostgresStore) CreateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO habits (`+habitColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		h.ID.String(), h.UserID, h.Title, h.Description, string(h.Frequency), h.CreatedAt)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID or ID prefix.
func (s *PostgresStore) GetHabit(idOrPrefix string) (*models.Habit, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	id, err := s.resolveID(ctx, "habits", idOrPrefix)
	if err != nil {
		return nil, err
	}

	h, err := scanPgHabit(s.pool.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return h, err
}

// ListHabits returns habits ordered by creation time.
func (s *PostgresStore) ListHabits(userID string) ([]*models.Habit, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	query := `SELECT ` + habitColumns + ` FROM habits`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanPgHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit rewrites the mutable fields of an existing habit.
func (s *PostgresStore) UpdateHabit(h *models.Habit) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	ctx, cancel := s.ctx()
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`UPDATE habits SET title = $1, description = $2, frequency = $3 WHERE id = $4`,
		h.Title, h.Description, string(h.Frequency), h.ID.String())
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("not found: %s", h.ID)
	}
	return nil
}

// DeleteHabit removes a habit; completions go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteHabit(idOrPrefix string) error {
	return s.deleteByID("habits", "delete habit", idOrPrefix)
}

// CreateCompletion stores a completion. The referenced habit must exist.
func (s *PostgresStore) CreateCompletion(c *models.Completion) error {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO completions (`+completionColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID.String(), c.HabitID.String(), c.UserID, c.CompletedAt, c.Notes, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

// GetCompletion retrieves a completion by ID or ID prefix.
func (s *PostgresStore) GetCompletion(idOrPrefix string) (*models.Completion, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	id, err := s.resolveID(ctx, "completions", idOrPrefix)
	if err != nil {
		return nil, err
	}

	c, err := scanPgCompletion(s.pool.QueryRow(ctx, `SELECT `+completionColumns+` FROM completions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	return c, err
}

// ListCompletions retrieves completions sorted by CompletedAt descending.
func (s *PostgresStore) ListCompletions(userID string, habitID *uuid.UUID, limit int) ([]*models.Completion, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	query := `SELECT ` + completionColumns + ` FROM completions WHERE 1 = 1`
	var args []any
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if habitID != nil {
		args = append(args, habitID.String())
		query += fmt.Sprintf(` AND habit_id = $%d`, len(args))
	}
	query += ` ORDER BY completed_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.Completion
	for rows.Next() {
		c, err := scanPgCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// DeleteCompletion removes a completion by ID or prefix.
func (s *PostgresStore) DeleteCompletion(idOrPrefix string) error {
	return s.deleteByID("completions", "delete completion", idOrPrefix)
}

// GetAllData retrieves all data for export.
func (s *PostgresStore) GetAllData() (*ExportData, error) {
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

// ImportData imports habits then completions inside a single transaction.
func (s *PostgresStore) ImportData(data *ExportData) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*postgresTimeout)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, h := range data.Habits {
		_, err := tx.Exec(ctx, `INSERT INTO habits (`+habitColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			h.ID.String(), h.UserID, h.Title, h.Description, string(h.Frequency), h.CreatedAt)
		if err != nil {
			return fmt.Errorf("import habit %s: %w", h.ID, err)
		}
	}
	for _, c := range data.Completions {
		_, err := tx.Exec(ctx, `INSERT INTO completions (`+completionColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
			c.ID.String(), c.HabitID.String(), c.UserID, c.CompletedAt, c.Notes, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("import completion %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (s *PostgresStore) deleteByID(table, op, idOrPrefix string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	id, err := s.resolveID(ctx, table, idOrPrefix)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("not found: %s", idOrPrefix)
	}
	return nil
}

// resolveID finds the full ID in table from an ID or unique prefix.
func (s *PostgresStore) resolveID(ctx context.Context, table, idOrPrefix string) (string, error) {
	if isFullID(idOrPrefix) {
		return idOrPrefix, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT id FROM `+table+` WHERE id LIKE $1 || '%' LIMIT 2`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}
	matches, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
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

func scanPgHabit(row pgx.Row) (*models.Habit, error) {
	var h models.Habit
	var idStr, frequency string

	if err := row.Scan(&idStr, &h.UserID, &h.Title, &h.Description, &frequency, &h.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}

	h.ID, _ = uuid.Parse(idStr)
	h.Frequency = models.Frequency(frequency)
	return &h, nil
}

func scanPgCompletion(row pgx.Row) (*models.Completion, error) {
	var c models.Completion
	var idStr, habitIDStr string

	if err := row.Scan(&idStr, &habitIDStr, &c.UserID, &c.CompletedAt, &c.Notes, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan completion: %w", err)
	}

	c.ID, _ = uuid.Parse(idStr)
	c.HabitID, _ = uuid.Parse(habitIDStr)
	return &c, nil
}
