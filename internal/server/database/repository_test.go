package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(dir, name string, size int64) *FileRecord {
	now := Now()
	return &FileRecord{
		ID:            uuid.NewString(),
		DirectoryPath: dir,
		Filename:      name,
		FileType:      "text",
		Size:          size,
		Checksum:      "abc123",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	t.Run("round trip preserves every field", func(t *testing.T) {
		repo := NewRepository(openTestDB(t))
		ctx := context.Background()

		want := newTestRecord("a/b", "f.txt", 10)
		require.NoError(t, repo.Create(ctx, want))

		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)

		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, "a/b", got.DirectoryPath)
		assert.Equal(t, "f.txt", got.Filename)
		assert.Equal(t, "text", got.FileType)
		assert.Equal(t, int64(10), got.Size)
		assert.Equal(t, "abc123", got.Checksum)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", want.CreatedAt, got.CreatedAt)
		assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	})

	t.Run("zero size is stored", func(t *testing.T) {
		repo := NewRepository(openTestDB(t))
		ctx := context.Background()

		rec := newTestRecord("empty/", "empty.txt", 0)
		require.NoError(t, repo.Create(ctx, rec))

		got, err := repo.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Size)
	})

	t.Run("duplicate id is a persistence error", func(t *testing.T) {
		repo := NewRepository(openTestDB(t))
		ctx := context.Background()

		rec := newTestRecord("a/", "f", 1)
		require.NoError(t, repo.Create(ctx, rec))

		err := repo.Create(ctx, rec)
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "create", perr.Op)
	})
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("unknown id is not found", func(t *testing.T) {
		repo := NewRepository(openTestDB(t))

		got, err := repo.GetByID(context.Background(), uuid.NewString())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("closed handle is a persistence error", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewRepository(db)
		require.NoError(t, db.Close())

		_, err := repo.GetByID(context.Background(), uuid.NewString())
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "get", perr.Op)
		assert.False(t, errors.Is(err, ErrFileNotFound))
	})
}

func TestRepository_ConcurrentCreates(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	const n = 25
	records := make([]*FileRecord, n)
	for i := range records {
		records[i] = newTestRecord("same/", "same.txt", 1)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, rec := range records {
		wg.Add(1)
		go func(rec *FileRecord) {
			defer wg.Done()
			errs <- repo.Create(ctx, rec)
		}(rec)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for _, rec := range records {
		got, err := repo.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	}
}

func TestRepository_WriterSlotTimeout(t *testing.T) {
	db := openTestDB(t)
	db.timeout = 50 * time.Millisecond
	repo := NewRepository(db)

	// Hold the only writer slot so Create has to wait for it.
	require.NoError(t, db.writeSem.Acquire(context.Background(), 1))
	defer db.writeSem.Release(1)

	err := repo.Create(context.Background(), newTestRecord("a/", "f", 1))
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScanFile_BadTimestamp(t *testing.T) {
	db := openTestDB(t)

	_, err := db.sql.Exec(`INSERT INTO files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"bad-ts", "a/", "f", "file", 1, "x", "yesterday", "yesterday")
	require.NoError(t, err)

	_, err = NewRepository(db).GetByID(context.Background(), "bad-ts")
	var perr *PersistenceError
	assert.ErrorAs(t, err, &perr)
}
