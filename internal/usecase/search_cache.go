package usecase

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

// DefaultCacheTTL lifetime of a cached result set
const DefaultCacheTTL = time.Hour

// SearchCache TTL cache of search results over a CacheStore. Expired entries
// are removed when read, never swept. Failures are logged and reported as
// misses.
type SearchCache struct {
	store repository.CacheStore
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
}

// NewSearchCache ttl <= 0 means DefaultCacheTTL
func NewSearchCache(store repository.CacheStore, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SearchCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		log:   logging.ForComponent(logging.CompCache),
	}
}

// TTL configured lifetime
func (c *SearchCache) TTL() time.Duration {
	return c.ttl
}

// KeyFor see CacheKey
func (c *SearchCache) KeyFor(channels, keywords []string, limit int) string {
	return CacheKey(channels, keywords, limit)
}

// CacheKey derives the content-addressed key: md5 hex of the sorted channel
// and keyword lists rendered as "['a', 'b']_['x']_<limit>".
func CacheKey(channels, keywords []string, limit int) string {
	canonical := fmt.Sprintf("%s_%s_%d", listRepr(channels), listRepr(keywords), limit)
	sum := md5.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func listRepr(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, item := range sorted {
		quoted[i] = "'" + item + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Load returns the stored results for key. ok is false when nothing is stored,
// the record is unreadable, or it is older than the TTL; expired records are
// deleted.
func (c *SearchCache) Load(ctx context.Context, key string) (results []entity.SearchResult, ok bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			c.log.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	var entry entity.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn("cache record is malformed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}

	if c.now().Sub(entry.WrittenAt()) > c.ttl {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn("expired cache record not deleted", slog.String("key", key), slog.Any("error", err))
		}
		c.log.Debug("cache expired", slog.String("key", key))
		return nil, false
	}

	if entry.Results == nil {
		entry.Results = []entity.SearchResult{}
	}
	c.log.Info("cache hit", slog.String("key", key), slog.Int("results", len(entry.Results)))
	return entry.Results, true
}

// Store overwrites the record for key with results stamped with the current
// time. Write failures are logged and dropped.
func (c *SearchCache) Store(ctx context.Context, key string, results []entity.SearchResult) {
	if results == nil {
		results = []entity.SearchResult{}
	}
	now := c.now()
	entry := entity.CacheEntry{
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Results:   results,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entry); err != nil {
		c.log.Warn("cache record not encoded", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := c.store.Put(ctx, key, buf.Bytes()); err != nil {
		c.log.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	c.log.Info("results cached", slog.String("key", key), slog.Int("results", len(results)))
}

// Contains reports whether a record (fresh or not) is stored for key
func (c *SearchCache) Contains(ctx context.Context, key string) bool {
	ok, err := c.store.Exists(ctx, key)
	if err != nil {
		c.log.Warn("cache existence check failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return ok
}

// Invalidate deletes the record for key
func (c *SearchCache) Invalidate(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}
