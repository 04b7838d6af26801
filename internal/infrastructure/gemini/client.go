package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = `Ты помощник, который кратко пересказывает найденные посты из Telegram-каналов.
Пиши по-русски, простым текстом без разметки.
Дай 3-5 пунктов: главные темы, упомянутые события и факты, связанные с ключевыми словами.
Не придумывай того, чего нет в постах.`

// Summarizer snippet digests via Gemini, at most 3 requests in flight and
// a minimum interval between them
type Summarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewSummarizer creates the Gemini client for model
func NewSummarizer(ctx context.Context, apiKey, model string) (*Summarizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.3)
	m.SetTopK(20)
	m.SetTopP(0.9)
	m.SetMaxOutputTokens(1024)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	return &Summarizer{
		client: client,
		model:  m,
		sem:    make(chan struct{}, 3),
		delay:  350 * time.Millisecond,
	}, nil
}

// Summarize sends the snippets in one prompt
func (s *Summarizer) Summarize(ctx context.Context, keywords []string, snippets []string) (string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildPrompt(keywords, snippets)))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates")
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("empty summary")
	}
	return text, nil
}

func buildPrompt(keywords []string, snippets []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ключевые слова: %s\n\nНайденные фрагменты:\n", strings.Join(keywords, ", "))
	for i, s := range snippets {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// extractText concatenates the text parts of all candidates
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				result.WriteString(string(t))
			}
		}
	}
	return result.String()
}

func (s *Summarizer) acquire(ctx context.Context) (func(), error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.last.IsZero() {
		if sleep := s.delay - now.Sub(s.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
	}
	s.last = now

	return func() {
		<-s.sem
	}, nil
}

// Close closes the client
func (s *Summarizer) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
