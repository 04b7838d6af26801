package telegram

import (
	"strings"
	"sync"

	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

// maxStepKeywords more keywords than this without channels is treated as a
// malformed quick request rather than the first step
const maxStepKeywords = 3

type convState int

const (
	stateIdle convState = iota
	stateAwaitingKeywords
	stateAwaitingChannels
)

type conversation struct {
	state    convState
	keywords []string
	channels []string
}

type intakeOutcome int

const (
	outcomeSave intakeOutcome = iota
	outcomeAskChannels
	outcomeAskKeywords
	outcomeNeedChannels
	outcomeUnrecognized
	outcomeBadChannels
	outcomeBadKeywords
)

type intakeResult struct {
	outcome  intakeOutcome
	keywords []string
	channels []string
	next     conversation
}

// advance applies one text message to the conversation
func advance(conv conversation, text string) intakeResult {
	switch conv.state {
	case stateAwaitingChannels:
		channels := usecase.ValidateChannels(splitTokens(text))
		if len(channels) == 0 {
			return intakeResult{outcome: outcomeBadChannels, next: conv}
		}
		return intakeResult{outcome: outcomeSave, keywords: conv.keywords, channels: channels}

	case stateAwaitingKeywords:
		keywords := usecase.ValidateKeywords(splitTokens(text))
		if len(keywords) == 0 {
			return intakeResult{outcome: outcomeBadKeywords, next: conv}
		}
		return intakeResult{outcome: outcomeSave, keywords: keywords, channels: conv.channels}
	}

	rawKeywords, rawChannels := usecase.ParseQuickFormat(text)
	keywords := usecase.ValidateKeywords(rawKeywords)
	channels := usecase.ValidateChannels(rawChannels)

	switch {
	case len(keywords) == 0 && len(channels) == 0:
		return intakeResult{outcome: outcomeUnrecognized}
	case len(keywords) == 0:
		return intakeResult{
			outcome:  outcomeAskKeywords,
			channels: channels,
			next:     conversation{state: stateAwaitingKeywords, channels: channels},
		}
	case len(channels) == 0 && len(keywords) > maxStepKeywords:
		return intakeResult{outcome: outcomeNeedChannels, keywords: keywords}
	case len(channels) == 0:
		return intakeResult{
			outcome:  outcomeAskChannels,
			keywords: keywords,
			next:     conversation{state: stateAwaitingChannels, keywords: keywords},
		}
	}
	return intakeResult{outcome: outcomeSave, keywords: keywords, channels: channels}
}

// splitTokens comma, newline or whitespace separated items
func splitTokens(text string) []string {
	var out []string
	for _, item := range usecase.SplitList(text) {
		out = append(out, strings.Fields(item)...)
	}
	return out
}

// conversations per-chat FSM state
type conversations struct {
	mu     sync.RWMutex
	byChat map[int64]conversation
}

func newConversations() *conversations {
	return &conversations{byChat: make(map[int64]conversation)}
}

func (c *conversations) get(chatID int64) conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byChat[chatID]
}

func (c *conversations) set(chatID int64, conv conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conv.state == stateIdle {
		delete(c.byChat, chatID)
		return
	}
	c.byChat[chatID] = conv
}

func (c *conversations) reset(chatID int64) {
	c.set(chatID, conversation{})
}
