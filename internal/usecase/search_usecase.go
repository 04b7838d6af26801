package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/domain/textmatch"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

const (
	// minMessagesPerChannel lower bound of the per-channel scan budget
	minMessagesPerChannel = 50

	snippetSentences = 3
	snippetMaxLen    = 200
)

// SearchUseCase keyword search across public channels
type SearchUseCase interface {
	// Search returns up to limit results. With forceRefresh false a fresh
	// cached result set is returned without touching the channels.
	Search(ctx context.Context, channels, keywords []string, limit int, forceRefresh bool) ([]entity.SearchResult, error)
	CacheKey(channels, keywords []string, limit int) string
	Invalidate(ctx context.Context, key string) error
}

type searchUseCase struct {
	reader  repository.ChannelReader
	cache   *SearchCache
	extract func(q textmatch.Query, text string) []string
	log     *slog.Logger
}

// NewSearchUseCase builds the searcher over a channel reader and cache
func NewSearchUseCase(reader repository.ChannelReader, cache *SearchCache) SearchUseCase {
	return &searchUseCase{
		reader:  reader,
		cache:   cache,
		extract: textmatch.Query.Extract,
		log:     logging.ForComponent(logging.CompSearch),
	}
}

// CacheKey key under which the result set of a query is cached
func (u *searchUseCase) CacheKey(channels, keywords []string, limit int) string {
	return u.cache.KeyFor(channels, keywords, limit)
}

// Invalidate drops a cached result set
func (u *searchUseCase) Invalidate(ctx context.Context, key string) error {
	return u.cache.Invalidate(ctx, key)
}

// Search channels are scanned in order and scanning stops once limit results
// are collected, so earlier channels may fill the whole result set.
func (u *searchUseCase) Search(ctx context.Context, channels, keywords []string, limit int, forceRefresh bool) ([]entity.SearchResult, error) {
	key := u.cache.KeyFor(channels, keywords, limit)
	if !forceRefresh {
		if cached, ok := u.cache.Load(ctx, key); ok {
			return cached, nil
		}
	}

	if err := u.ensureReady(ctx); err != nil {
		return nil, err
	}

	query := textmatch.NewQuery(keywords)
	perChannel := max(minMessagesPerChannel, limit*2)
	results := make([]entity.SearchResult, 0, max(limit, 0))
	started := time.Now()

	for _, name := range channels {
		if len(results) >= limit {
			break
		}

		channel, err := u.reader.ResolveChannel(ctx, name)
		if err != nil {
			u.log.Warn("channel skipped", slog.String("channel", name), slog.Any("error", err))
			continue
		}

		before := len(results)
		err = u.reader.IterMessages(ctx, channel, perChannel, func(msg entity.ChannelMessage) bool {
			if result, ok := u.matchMessage(channel, msg, query); ok {
				results = append(results, result)
			}
			return len(results) < limit
		})
		if err != nil {
			u.log.Error("channel read failed", slog.String("channel", name), slog.Any("error", err))
			continue
		}
		u.log.Debug("channel scanned", slog.String("channel", name), slog.Int("matches", len(results)-before))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search cancelled: %w", err)
	}

	u.cache.Store(ctx, key, results)
	u.log.Info("search finished",
		slog.Int("channels", len(channels)),
		slog.Int("results", len(results)),
		slog.Duration("took", time.Since(started)),
	)
	return results, nil
}

// ensureReady connects the reader if needed and checks the account is logged in
func (u *searchUseCase) ensureReady(ctx context.Context) error {
	if !u.reader.IsConnected() {
		if err := u.reader.Connect(ctx); err != nil {
			return fmt.Errorf("%w: connect: %w", repository.ErrAuthRequired, err)
		}
	}

	authorized, err := u.reader.IsAuthorized(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrAuthRequired, err)
	}
	if !authorized {
		return repository.ErrAuthRequired
	}
	return nil
}

// matchMessage a panic while processing one message skips only that message
func (u *searchUseCase) matchMessage(channel entity.Channel, msg entity.ChannelMessage, query textmatch.Query) (result entity.SearchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			u.log.Error("message skipped",
				slog.String("channel", channel.Name),
				slog.Int("message_id", msg.ID),
				slog.Any("panic", r),
			)
			ok = false
		}
	}()

	if msg.Text == "" {
		return entity.SearchResult{}, false
	}

	sentences := u.extract(query, msg.Text)
	if len(sentences) == 0 {
		return entity.SearchResult{}, false
	}

	return entity.SearchResult{
		Channel:   channel.DisplayName(),
		MessageID: msg.ID,
		Date:      msg.Date.Format(entity.DateLayout),
		Snippet:   BuildSnippet(sentences),
		Link:      MessageLink(channel, msg.ID),
	}, true
}

// BuildSnippet joins the first sentences and caps the length at 200 runes
func BuildSnippet(sentences []string) string {
	if len(sentences) > snippetSentences {
		sentences = sentences[:snippetSentences]
	}
	return truncateRunes(strings.Join(sentences, " "), snippetMaxLen)
}

// MessageLink public t.me link, entity.NoLink for channels without a username
func MessageLink(channel entity.Channel, messageID int) string {
	if channel.Username == "" {
		return entity.NoLink
	}
	return fmt.Sprintf("https://t.me/%s/%d", channel.Username, messageID)
}

// truncateRunes cuts s to n runes, the last three being "..."
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
