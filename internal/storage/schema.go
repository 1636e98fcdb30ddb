// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for habits and completions with cascading deletes.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		frequency TEXT NOT NULL DEFAULT 'daily',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		completed_at DATETIME NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_completions_habit ON completions(habit_id, completed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id, completed_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
