package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrFileNotFound is returned by GetByID when no row has the requested id.
var ErrFileNotFound = errors.New("file not found")

// PersistenceError labels a storage engine failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

const fileColumns = `id, directory_path, filename, file_type, size, checksum, created_at, updated_at`

// Repository provides the create and lookup operations for file records.
// Records are never updated or deleted through it.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a fully populated record as a single statement.
func (r *Repository) Create(ctx context.Context, file *FileRecord) error {
	return r.db.run(ctx, "create", true, func(ctx context.Context) error {
		_, err := r.db.sql.ExecContext(ctx, r.db.rebind(`
			INSERT INTO files (`+fileColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`),
			file.ID,
			file.DirectoryPath,
			file.Filename,
			file.FileType,
			file.Size,
			file.Checksum,
			formatTime(file.CreatedAt),
			formatTime(file.UpdatedAt),
		)
		if err != nil {
			return &PersistenceError{Op: "create", Err: err}
		}
		return nil
	})
}

// GetByID retrieves a record by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	var file *FileRecord
	err := r.db.run(ctx, "get", false, func(ctx context.Context) error {
		row := r.db.sql.QueryRowContext(ctx, r.db.rebind(`
			SELECT `+fileColumns+`
			FROM files WHERE id = ?
		`), id)

		f, err := scanFile(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFileNotFound
			}
			return &PersistenceError{Op: "get", Err: err}
		}
		file = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*FileRecord, error) {
	var (
		file                 FileRecord
		createdAt, updatedAt string
		err                  error
	)
	if err := row.Scan(
		&file.ID,
		&file.DirectoryPath,
		&file.Filename,
		&file.FileType,
		&file.Size,
		&file.Checksum,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if file.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if file.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &file, nil
}
