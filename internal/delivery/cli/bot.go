package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/tg-channel-parser/internal/delivery/telegram"
	"github.com/yourusername/tg-channel-parser/internal/infrastructure/export"
	"github.com/yourusername/tg-channel-parser/internal/infrastructure/storage"
	"github.com/yourusername/tg-channel-parser/internal/logging"
	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateBot(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBot(ctx, a)
		},
	}
}

func runBot(ctx context.Context, a *app) error {
	log := logging.ForComponent(logging.CompCLI)

	search, client, err := a.searchUseCase(ctx)
	if err != nil {
		return err
	}
	// The bot still serves menus and saved requests without a session;
	// searches answer with the unavailable notice until one exists.
	if err := client.Connect(ctx); err != nil {
		log.Warn("mtproto connect failed", slog.Any("error", err))
	} else if ok, err := client.IsAuthorized(ctx); err != nil || !ok {
		log.Warn("mtproto session is not authorized, run the auth command", slog.Any("error", err))
	}

	repo, err := storage.NewFileRequestRepository(a.cfg.RequestsDir)
	if err != nil {
		return fmt.Errorf("opening request log: %w", err)
	}

	summarizer, err := a.summarizer(ctx)
	if err != nil {
		log.Warn("summaries disabled", slog.Any("error", err))
	}

	handler, err := telegram.NewBotHandler(
		a.cfg.BotToken,
		search,
		usecase.NewRequestUseCase(repo),
		usecase.NewSummaryUseCase(summarizer),
		export.NewExcelExporter(),
	)
	if err != nil {
		return err
	}

	log.Info("bot started",
		slog.String("cache_backend", a.cfg.CacheBackend),
		slog.Bool("summaries", summarizer != nil))
	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("bot stopped")
	return nil
}
