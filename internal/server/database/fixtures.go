package database

import (
	"context"
	"log/slog"
)

// SeedFile is the demonstration row kept present by LoadFixtures.
// Its timestamps are set at load time.
var SeedFile = FileRecord{
	ID:            "b0320eab-57a6-4c45-ba6d-0b68a3501ef6",
	DirectoryPath: "cmd/server/",
	Filename:      "main.go",
	FileType:      "file",
	Size:          123,
	Checksum:      "1afb2837cb93eb1f3d68027adf777218",
}

// LoadFixtures upserts SeedFile. It is safe to run on every start and is kept
// apart from Migrate so that a deployment can skip it.
func (db *DB) LoadFixtures(ctx context.Context) error {
	seed := SeedFile
	seed.CreatedAt = Now()
	seed.UpdatedAt = seed.CreatedAt

	err := db.run(ctx, "load_fixtures", true, func(ctx context.Context) error {
		_, err := db.sql.ExecContext(ctx, db.rebind(`
			INSERT INTO files (`+fileColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				directory_path = excluded.directory_path,
				filename       = excluded.filename,
				file_type      = excluded.file_type,
				size           = excluded.size,
				checksum       = excluded.checksum,
				created_at     = excluded.created_at,
				updated_at     = excluded.updated_at
		`),
			seed.ID,
			seed.DirectoryPath,
			seed.Filename,
			seed.FileType,
			seed.Size,
			seed.Checksum,
			formatTime(seed.CreatedAt),
			formatTime(seed.UpdatedAt),
		)
		if err != nil {
			return &PersistenceError{Op: "load_fixtures", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("fixtures loaded", "id", seed.ID)
	return nil
}
