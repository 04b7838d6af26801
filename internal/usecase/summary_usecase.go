package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

// maxSummarySnippets snippets beyond this are not sent to the model
const maxSummarySnippets = 20

// ErrSummaryDisabled no summarizer is configured
var ErrSummaryDisabled = errors.New("summaries are disabled")

// SummaryUseCase digest of a result set
type SummaryUseCase interface {
	Enabled() bool
	Summarize(ctx context.Context, keywords []string, results []entity.SearchResult) (string, error)
}

type summaryUseCase struct {
	summarizer repository.Summarizer
	log        *slog.Logger
}

// NewSummaryUseCase summarizer may be nil, which disables summaries
func NewSummaryUseCase(summarizer repository.Summarizer) SummaryUseCase {
	return &summaryUseCase{
		summarizer: summarizer,
		log:        logging.ForComponent(logging.CompGemini),
	}
}

func (u *summaryUseCase) Enabled() bool {
	return u.summarizer != nil
}

func (u *summaryUseCase) Summarize(ctx context.Context, keywords []string, results []entity.SearchResult) (string, error) {
	if u.summarizer == nil {
		return "", ErrSummaryDisabled
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: nothing to summarize", ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	snippets := make([]string, 0, min(len(results), maxSummarySnippets))
	for _, r := range results[:min(len(results), maxSummarySnippets)] {
		snippets = append(snippets, fmt.Sprintf("[%s, %s] %s", r.Channel, r.Date, r.Snippet))
	}

	summary, err := u.summarizer.Summarize(ctx, keywords, snippets)
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}
	u.log.Info("summary generated", slog.Int("snippets", len(snippets)))
	return summary, nil
}
