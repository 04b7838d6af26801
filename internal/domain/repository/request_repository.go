package repository

import (
	"context"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
)

// RequestRepository append-only log of search requests
type RequestRepository interface {
	// Save appends a request
	Save(ctx context.Context, request entity.SearchRequest) error

	// ListByUser returns the user's requests in storage order
	ListByUser(ctx context.Context, userID int64) ([]entity.SearchRequest, error)
}
