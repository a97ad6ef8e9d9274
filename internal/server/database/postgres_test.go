package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// openPostgresDB starts PostgreSQL in a container and returns a migrated DB.
// Docker is required, so the test only runs with TEST_INTEGRATION set.
func openPostgresDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("filemeta_test"),
		postgres.WithUsername("filemeta"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, Options{URL: dsn, MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func TestPostgres(t *testing.T) {
	db := openPostgresDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	assert.Equal(t, DialectPostgres, db.Dialect())

	t.Run("round trip", func(t *testing.T) {
		want := newTestRecord("a/b", "f.txt", 10)
		require.NoError(t, repo.Create(ctx, want))

		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Filename, got.Filename)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("fixtures are idempotent", func(t *testing.T) {
		require.NoError(t, db.LoadFixtures(ctx))
		require.NoError(t, db.LoadFixtures(ctx))

		got, err := repo.GetByID(ctx, SeedFile.ID)
		require.NoError(t, err)
		assert.Equal(t, SeedFile.DirectoryPath, got.DirectoryPath)
	})

	t.Run("checkpoint is a no-op", func(t *testing.T) {
		res, err := db.Checkpoint(ctx)
		require.NoError(t, err)
		assert.Equal(t, CheckpointResult{}, res)
	})
}
