// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is how timestamps are stored in SQLite. Values are written in
// UTC so lexical order matches chronological order.
const timeLayout = time.RFC3339

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// sqlitePragmas are applied to every pooled connection through the DSN.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// Open opens or creates the habits SQLite database at dbPath and makes sure
// the schema is current.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := dbPath + "?_pragma=" + strings.Join(sqlitePragmas, "&_pragma=")
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: conn, dbPath: dbPath}
	for _, step := range []struct {
		what string
		fn   func() error
	}{
		{"ping database", conn.Ping},
		{"restrict database permissions", func() error { return os.Chmod(dbPath, 0600) }},
		{"initialize schema", d.initSchema},
	} {
		if err := step.fn(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", step.what, err)
		}
	}

	return d, nil
}

// DataDir is $XDG_DATA_HOME/habits, falling back to ~/.local/share/habits.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "habits")
}

// DBPath returns the SQLite file path inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "habits.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close releases the connection pool.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// formatTime renders t for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp. An unreadable value yields the zero
// time, which the streak engine reports as an invalid timestamp.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
