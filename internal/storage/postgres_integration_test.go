//go:build integration

// ABOUTME: Integration tests for PostgresStore against a throwaway Postgres container.
// ABOUTME: Run with: go test -tags integration ./internal/storage/...
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("habits"),
		postgrescontainer.WithUsername("habits"),
		postgrescontainer.WithPassword("habits"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	store, err := OpenPostgres(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func TestPostgresStoreConformance(t *testing.T) {
	store := setupPostgres(t)

	run := newHabit(t, store, "alice", "Run", 0)
	read := newHabit(t, store, "alice", "Read", time.Second)
	newHabit(t, store, "bob", "Swim", 2*time.Second)

	got, err := store.GetHabit(run.ID.String()[:8])
	require.NoError(t, err)
	require.Equal(t, "Run", got.Title)
	require.True(t, got.CreatedAt.Equal(run.CreatedAt))

	habits, err := store.ListHabits("alice")
	require.NoError(t, err)
	require.Len(t, habits, 2)
	require.Equal(t, run.ID, habits[0].ID)

	c1 := newCompletion(t, store, run, base.Add(24*time.Hour))
	c2 := newCompletion(t, store, read, base.Add(48*time.Hour))

	completions, err := store.ListCompletions("alice", nil, 0)
	require.NoError(t, err)
	require.Len(t, completions, 2)
	require.Equal(t, c2.ID, completions[0].ID)
	require.Nil(t, completions[0].Notes)

	limited, err := store.ListCompletions("", &run.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, c1.ID, limited[0].ID)

	run.Title = "Run 5k"
	require.NoError(t, store.UpdateHabit(run))
	got, err = store.GetHabit(run.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Run 5k", got.Title)

	require.NoError(t, store.DeleteHabit(run.ID.String()))
	remaining, err := store.ListCompletions("", nil, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "completions of the deleted habit cascade")

	ghost := models.NewCompletion(models.NewHabit("alice", "ghost", "ghost"))
	require.Error(t, store.CreateCompletion(ghost))
}

func TestPostgresMigrateFromSQLite(t *testing.T) {
	store := setupPostgres(t)

	src := setupTestDB(t)
	h := newHabit(t, src, "alice", "Journal", 0)
	newCompletion(t, src, h, base.Add(time.Hour))
	newCompletion(t, src, h, base.Add(26*time.Hour))

	summary, err := MigrateData(src, store)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Habits)
	require.Equal(t, 2, summary.Completions)

	data, err := store.GetAllData()
	require.NoError(t, err)
	require.Len(t, data.Completions, 2)
}
