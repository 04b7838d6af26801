package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

type fileRequestRepository struct {
	dir string
	log *slog.Logger
}

// NewFileRequestRepository stores each request as
// "request_<user_id>_<unix>_<id8>.json" under dir
func NewFileRequestRepository(dir string) (repository.RequestRepository, error) {
	if dir == "" {
		return nil, errors.New("requests dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create requests dir: %w", err)
	}
	return &fileRequestRepository{dir: dir, log: logging.ForComponent(logging.CompRequests)}, nil
}

// Save writes the request file
func (r *fileRequestRepository) Save(_ context.Context, req entity.SearchRequest) error {
	created := req.CreatedTime()
	if created.IsZero() {
		created = time.Now()
	}
	id := req.ID
	if len(id) > 8 {
		id = id[:8]
	}
	name := fmt.Sprintf("request_%d_%d_%s.json", req.UserID, created.Unix(), id)

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write request: %w", err)
	}
	return nil
}

// ListByUser unreadable files are logged and skipped
func (r *fileRequestRepository) ListByUser(_ context.Context, userID int64) ([]entity.SearchRequest, error) {
	paths, err := filepath.Glob(filepath.Join(r.dir, fmt.Sprintf("request_%d_*.json", userID)))
	if err != nil {
		return nil, err
	}

	requests := make([]entity.SearchRequest, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			r.log.Error("request file unreadable", slog.String("path", path), slog.Any("error", err))
			continue
		}
		var req entity.SearchRequest
		if err := json.Unmarshal(data, &req); err != nil {
			r.log.Error("request file malformed", slog.String("path", path), slog.Any("error", err))
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}
