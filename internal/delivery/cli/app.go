package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/yourusername/tg-channel-parser/config"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/infrastructure/gemini"
	"github.com/yourusername/tg-channel-parser/internal/infrastructure/mtproto"
	"github.com/yourusername/tg-channel-parser/internal/infrastructure/storage"
	"github.com/yourusername/tg-channel-parser/internal/logging"
	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

// app wires components from config and closes them after the command
type app struct {
	cfg     *config.Config
	closers []func() error
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.ForComponent(logging.CompCLI).Warn("close failed", slog.Any("error", err))
		}
	}
	a.closers = nil
}

func (a *app) cacheStore() (repository.CacheStore, error) {
	switch a.cfg.CacheBackend {
	case config.CacheBackendSQLite:
		store, err := storage.NewSQLiteCacheStore(a.cfg.CacheDBPath)
		if err != nil {
			return nil, err
		}
		a.onClose(store.Close)
		return store, nil
	case config.CacheBackendMemory:
		return storage.NewMemoryCacheStore(a.cfg.CacheMemorySize)
	default:
		return storage.NewFileCacheStore(a.cfg.CacheDir)
	}
}

func (a *app) searchCache() (*usecase.SearchCache, error) {
	store, err := a.cacheStore()
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return usecase.NewSearchCache(store, a.cfg.CacheTTL), nil
}

// mtprotoClient imports TG_SESSION_STRING first when no session file exists
func (a *app) mtprotoClient(ctx context.Context) (*mtproto.Client, error) {
	if err := a.cfg.ValidateMTProto(); err != nil {
		return nil, err
	}

	if a.cfg.SessionString != "" {
		if _, err := os.Stat(a.cfg.SessionFile); errors.Is(err, fs.ErrNotExist) {
			if err := mtproto.ImportTelethonSession(ctx, a.cfg.SessionFile, a.cfg.SessionString); err != nil {
				return nil, err
			}
			logging.ForComponent(logging.CompMTProto).Info("string session imported", slog.String("file", a.cfg.SessionFile))
		}
	}

	client, err := mtproto.New(mtproto.Config{
		AppID:       a.cfg.AppID,
		AppHash:     a.cfg.AppHash,
		SessionFile: a.cfg.SessionFile,
		RPS:         a.cfg.MTProtoRPS,
		Logger:      logging.NewZap(),
	})
	if err != nil {
		return nil, err
	}
	a.onClose(client.Close)
	return client, nil
}

func (a *app) searchUseCase(ctx context.Context) (usecase.SearchUseCase, *mtproto.Client, error) {
	cache, err := a.searchCache()
	if err != nil {
		return nil, nil, err
	}
	client, err := a.mtprotoClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewSearchUseCase(client, cache), client, nil
}

// summarizer nil when GEMINI_API_KEY is unset
func (a *app) summarizer(ctx context.Context) (repository.Summarizer, error) {
	if !a.cfg.SummaryEnabled() {
		return nil, nil
	}
	s, err := gemini.NewSummarizer(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	a.onClose(s.Close)
	return s, nil
}
