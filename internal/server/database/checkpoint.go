package database

import (
	"context"
	"log/slog"
	"time"
)

// CheckpointResult mirrors the row returned by PRAGMA wal_checkpoint.
type CheckpointResult struct {
	Busy         bool
	LogFrames    int
	Checkpointed int
}

// Checkpoint folds the SQLite write-ahead log back into the database file and
// truncates it. It is a no-op on other backends.
func (db *DB) Checkpoint(ctx context.Context) (CheckpointResult, error) {
	var res CheckpointResult
	if db.dialect != DialectSQLite {
		return res, nil
	}

	err := db.run(ctx, "checkpoint", true, func(ctx context.Context) error {
		var busy int
		if err := db.sql.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").
			Scan(&busy, &res.LogFrames, &res.Checkpointed); err != nil {
			return &PersistenceError{Op: "checkpoint", Err: err}
		}
		res.Busy = busy != 0
		return nil
	})
	return res, err
}

// Checkpointer periodically checkpoints the write-ahead log so it does not
// grow without bound between SQLite's automatic checkpoints.
type Checkpointer struct {
	db       *DB
	interval time.Duration
	done     chan struct{}
}

// NewCheckpointer creates a checkpointer. A non-positive interval disables it.
func NewCheckpointer(db *DB, interval time.Duration) *Checkpointer {
	return &Checkpointer{
		db:       db,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the checkpoint loop in a background goroutine.
func (c *Checkpointer) Start(ctx context.Context) {
	if c.interval <= 0 || c.db.dialect != DialectSQLite {
		slog.Info("wal checkpointer disabled", "dialect", c.db.dialect, "interval", c.interval)
		close(c.done)
		return
	}

	slog.Info("wal checkpointer started", "interval", c.interval)

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.runCheckpoint(ctx)
			case <-ctx.Done():
				slog.Info("wal checkpointer stopping")
				return
			}
		}
	}()
}

// Wait blocks until the checkpointer has fully stopped.
func (c *Checkpointer) Wait() {
	<-c.done
}

func (c *Checkpointer) runCheckpoint(ctx context.Context) {
	res, err := c.db.Checkpoint(ctx)
	if err != nil {
		slog.Error("wal checkpoint failed", "error", err)
		return
	}
	if res.Busy {
		slog.Warn("wal checkpoint incomplete, database busy",
			"log_frames", res.LogFrames,
			"checkpointed", res.Checkpointed,
		)
		return
	}
	slog.Debug("wal checkpoint complete",
		"log_frames", res.LogFrames,
		"checkpointed", res.Checkpointed,
	)
}
