package repository

import "context"

// Summarizer produces a short digest of search snippets
type Summarizer interface {
	Summarize(ctx context.Context, keywords []string, snippets []string) (string, error)
}
