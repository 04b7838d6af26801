package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

const (
	MaxKeywords   = 10
	MaxChannels   = 5
	minKeywordLen = 2
	maxKeywordLen = 50

	// createdAtLayout microsecond ISO-8601 without zone
	createdAtLayout = "2006-01-02T15:04:05.000000"
)

var (
	// ErrRequestNotFound the user has no matching saved request
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidRequest the request has no keywords or no channels
	ErrInvalidRequest = errors.New("invalid request")
)

// RequestUseCase saved search requests of bot users
type RequestUseCase interface {
	Create(ctx context.Context, userID int64, username string, keywords, channels []string) (entity.SearchRequest, error)
	// List newest first
	List(ctx context.Context, userID int64) ([]entity.SearchRequest, error)
	Latest(ctx context.Context, userID int64) (entity.SearchRequest, error)
	FindByCreatedAt(ctx context.Context, userID int64, createdAt string) (entity.SearchRequest, error)
	Stats(ctx context.Context, userID int64) (entity.RequestStats, error)
}

type requestUseCase struct {
	repo repository.RequestRepository
	now  func() time.Time
	log  *slog.Logger
}

// NewRequestUseCase over the given request log
func NewRequestUseCase(repo repository.RequestRepository) RequestUseCase {
	return &requestUseCase{
		repo: repo,
		now:  time.Now,
		log:  logging.ForComponent(logging.CompRequests),
	}
}

// Create validates and persists a request
func (u *requestUseCase) Create(ctx context.Context, userID int64, username string, keywords, channels []string) (entity.SearchRequest, error) {
	keywords = ValidateKeywords(keywords)
	channels = ValidateChannels(channels)
	if len(keywords) == 0 {
		return entity.SearchRequest{}, fmt.Errorf("%w: no keywords", ErrInvalidRequest)
	}
	if len(channels) == 0 {
		return entity.SearchRequest{}, fmt.Errorf("%w: no channels", ErrInvalidRequest)
	}

	req := entity.SearchRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Keywords:  keywords,
		Channels:  channels,
		CreatedAt: u.now().Format(createdAtLayout),
	}
	if err := u.repo.Save(ctx, req); err != nil {
		return entity.SearchRequest{}, fmt.Errorf("failed to save request: %w", err)
	}

	u.log.Info("request saved",
		slog.Int64("user_id", userID),
		slog.Int("keywords", len(keywords)),
		slog.Int("channels", len(channels)),
	)
	return req, nil
}

func (u *requestUseCase) List(ctx context.Context, userID int64) ([]entity.SearchRequest, error) {
	requests, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedTime().After(requests[j].CreatedTime())
	})
	return requests, nil
}

func (u *requestUseCase) Latest(ctx context.Context, userID int64) (entity.SearchRequest, error) {
	requests, err := u.List(ctx, userID)
	if err != nil {
		return entity.SearchRequest{}, err
	}
	if len(requests) == 0 {
		return entity.SearchRequest{}, ErrRequestNotFound
	}
	return requests[0], nil
}

// FindByCreatedAt looks a request up by the reference carried in callbacks
func (u *requestUseCase) FindByCreatedAt(ctx context.Context, userID int64, createdAt string) (entity.SearchRequest, error) {
	requests, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return entity.SearchRequest{}, fmt.Errorf("failed to list requests: %w", err)
	}
	for _, req := range requests {
		if req.CreatedAt == createdAt {
			return req, nil
		}
	}
	return entity.SearchRequest{}, ErrRequestNotFound
}

func (u *requestUseCase) Stats(ctx context.Context, userID int64) (entity.RequestStats, error) {
	requests, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return entity.RequestStats{}, fmt.Errorf("failed to list requests: %w", err)
	}

	var stats entity.RequestStats
	unique := make(map[string]struct{})
	for _, req := range requests {
		stats.TotalRequests++
		stats.TotalKeywords += len(req.Keywords)
		stats.TotalChannels += len(req.Channels)
		for _, ch := range req.Channels {
			unique[strings.ToLower(ch)] = struct{}{}
		}
		if t := req.CreatedTime(); t.After(stats.LastRequest) {
			stats.LastRequest = t
		}
	}
	stats.UniqueChannels = len(unique)
	return stats, nil
}

// ParseQuickFormat splits "kw1 kw2 @chan t.me/chan2" into raw keywords and
// channels. Tokens that look like channel references become channels.
func ParseQuickFormat(text string) (keywords, channels []string) {
	for _, part := range strings.Fields(text) {
		if looksLikeChannel(part) {
			channels = append(channels, part)
		} else {
			keywords = append(keywords, part)
		}
	}
	return keywords, channels
}

func looksLikeChannel(s string) bool {
	return strings.HasPrefix(s, "@") || strings.Contains(s, "t.me/")
}

// SplitList splits comma or newline separated input, dropping blanks
func SplitList(payload string) []string {
	var items []string
	for _, item := range strings.Split(strings.ReplaceAll(payload, "\n", ","), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ValidateKeywords trims, drops one-rune keywords, caps each at 50 runes and
// keeps the first 10
func ValidateKeywords(keywords []string) []string {
	var valid []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if utf8.RuneCountInString(kw) < minKeywordLen {
			continue
		}
		if utf8.RuneCountInString(kw) > maxKeywordLen {
			kw = string([]rune(kw)[:maxKeywordLen])
		}
		valid = append(valid, kw)
		if len(valid) == MaxKeywords {
			break
		}
	}
	return valid
}

// ValidateChannels normalizes references to "@username" and keeps the first 5
func ValidateChannels(channels []string) []string {
	var valid []string
	for _, ch := range channels {
		if name, ok := NormalizeChannel(ch); ok {
			valid = append(valid, name)
			if len(valid) == MaxChannels {
				break
			}
		}
	}
	return valid
}

// NormalizeChannel accepts "@name", "https://t.me/name[/...]", "t.me/name" or
// a bare name
func NormalizeChannel(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", false
	case strings.HasPrefix(ref, "@"):
		return ref, true
	case strings.Contains(ref, "t.me/"):
		_, rest, _ := strings.Cut(ref, "t.me/")
		username, _, _ := strings.Cut(rest, "/")
		if username == "" {
			return "", false
		}
		return "@" + username, true
	default:
		return "@" + ref, true
	}
}
