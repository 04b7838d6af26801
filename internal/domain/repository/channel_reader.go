package repository

import (
	"context"
	"errors"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
)

var (
	// ErrAuthRequired the reader is not connected or the account is not authorized
	ErrAuthRequired = errors.New("channel reader is not authorized")

	// ErrChannelUnavailable the channel cannot be resolved or read
	ErrChannelUnavailable = errors.New("channel unavailable")
)

// ChannelReader reads public channels through a user account
type ChannelReader interface {
	// IsConnected reports whether the underlying connection is up
	IsConnected() bool

	// IsAuthorized reports whether the session belongs to a logged in account
	IsAuthorized(ctx context.Context) (bool, error)

	// Connect opens the connection. Calling it on a connected reader is a no-op.
	Connect(ctx context.Context) error

	// ResolveChannel maps "@username" to a channel. Unknown or private channels
	// yield an error wrapping ErrChannelUnavailable.
	ResolveChannel(ctx context.Context, name string) (entity.Channel, error)

	// IterMessages yields up to limit messages, newest first. Iteration stops
	// early when fn returns false.
	IterMessages(ctx context.Context, channel entity.Channel, limit int, fn func(entity.ChannelMessage) bool) error
}
