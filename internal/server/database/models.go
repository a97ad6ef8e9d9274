package database

import (
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format. It is fixed-width UTC, so
// lexical order in the database matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FileRecord represents one row of the files table.
type FileRecord struct {
	ID            string    `json:"id"`
	DirectoryPath string    `json:"directory_path"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"file_type"`
	Size          int64     `json:"size"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Now returns the current time at the precision the store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
