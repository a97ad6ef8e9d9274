package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filemeta/internal/server/database"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "filemeta_cache_requests_total",
		Help: "File record cache lookups by result (hit, miss).",
	},
	[]string{"result"},
)

// FileRepository is the storage contract FileService depends on.
type FileRepository interface {
	Create(ctx context.Context, file *database.FileRecord) error
	GetByID(ctx context.Context, id string) (*database.FileRecord, error)
}

// CreateFileInput is the client-supplied part of a file record.
// Size is a pointer so that an omitted size can be told apart from zero.
type CreateFileInput struct {
	DirectoryPath string `json:"directory_path"`
	Filename      string `json:"filename"`
	FileType      string `json:"file_type"`
	Size          *int64 `json:"size"`
	Checksum      string `json:"checksum"`
}

// Validate checks that every field is present and size is non-negative.
func (in *CreateFileInput) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"directory_path", in.DirectoryPath},
		{"filename", in.Filename},
		{"file_type", in.FileType},
		{"checksum", in.Checksum},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Cause: "is required"}
		}
	}
	if in.Size == nil {
		return &ValidationError{Field: "size", Cause: "is required"}
	}
	if *in.Size < 0 {
		return &ValidationError{Field: "size", Cause: "must not be negative"}
	}
	return nil
}

// FileService creates and looks up file metadata records.
type FileService struct {
	repo  FileRepository
	cache *expirable.LRU[string, database.FileRecord]
}

// NewFileService creates a file service. A cacheSize of zero disables the
// read cache. Records are never updated, so a cached copy cannot go stale.
func NewFileService(repo FileRepository, cacheSize int, cacheTTL time.Duration) *FileService {
	s := &FileService{repo: repo}
	if cacheSize > 0 {
		s.cache = expirable.NewLRU[string, database.FileRecord](cacheSize, nil, cacheTTL)
	}
	return s
}

// Create stores a new record with a fresh id and identical created/updated timestamps.
func (s *FileService) Create(ctx context.Context, in CreateFileInput) (*database.FileRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := database.Now()
	file := &database.FileRecord{
		ID:            uuid.NewString(),
		DirectoryPath: in.DirectoryPath,
		Filename:      in.Filename,
		FileType:      in.FileType,
		Size:          *in.Size,
		Checksum:      in.Checksum,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if s.cache != nil {
		s.cache.Add(file.ID, *file)
	}

	slog.Info("file metadata created",
		"id", file.ID,
		"directory_path", file.DirectoryPath,
		"filename", file.Filename,
		"size", file.Size,
	)
	return file, nil
}

// Get returns the record with the given id, consulting the cache first.
func (s *FileService) Get(ctx context.Context, id string) (*database.FileRecord, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(id); ok {
			cacheRequestsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		cacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if s.cache != nil {
		s.cache.Add(file.ID, *file)
	}
	return file, nil
}
