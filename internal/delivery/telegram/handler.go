package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

const (
	searchLimit    = 50
	allResultLimit = 200
	perPage        = usecase.DefaultPerPage
	allPerPage     = 20
	maxListed      = 10
)

// botAPI the subset of *tgbotapi.BotAPI the handler uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot      botAPI
	search   usecase.SearchUseCase
	requests usecase.RequestUseCase
	summary  usecase.SummaryUseCase
	exporter repository.ResultExporter
	convs    *conversations
	log      *slog.Logger
}

// NewBotHandler connects to the Bot API with token
func NewBotHandler(
	token string,
	search usecase.SearchUseCase,
	requests usecase.RequestUseCase,
	summary usecase.SummaryUseCase,
	exporter repository.ResultExporter,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newBotHandler(bot, search, requests, summary, exporter)
	h.log.Info("bot authorized", slog.String("username", bot.Self.UserName))
	return h, nil
}

func newBotHandler(
	bot botAPI,
	search usecase.SearchUseCase,
	requests usecase.RequestUseCase,
	summary usecase.SummaryUseCase,
	exporter repository.ResultExporter,
) *BotHandler {
	return &BotHandler{
		bot:      bot,
		search:   search,
		requests: requests,
		summary:  summary,
		exporter: exporter,
		convs:    newConversations(),
		log:      logging.ForComponent(logging.CompBot),
	}
}

// Start runs the update loop until ctx is done. Each update is handled in
// its own goroutine.
func (h *BotHandler) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("bot stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			go h.handleUpdate(ctx, update)
		}
	}
}

func (h *BotHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic in update handler",
				slog.Int("update_id", update.UpdateID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

// target a chat, and the message to edit if any
type target struct {
	chatID    int64
	messageID int
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	to := target{chatID: message.Chat.ID}

	if message.IsCommand() {
		h.handleCommand(ctx, message, to)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	h.handleIntake(ctx, message.From, to, text)
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message, to target) {
	userID := message.From.ID
	switch message.Command() {
	case "start":
		h.convs.reset(to.chatID)
		h.reply(to, menuText, mainMenuKeyboard())
	case "help":
		h.reply(to, helpText, helpKeyboard())
	case "list":
		h.showRequestList(ctx, userID, to)
	case "stats":
		h.showStats(ctx, userID, to)
	case "search":
		h.executeLatest(ctx, userID, to)
	default:
		h.reply(to, unknownCommandText, nil)
	}
}

// handleIntake feeds free text to the request FSM
func (h *BotHandler) handleIntake(ctx context.Context, from *tgbotapi.User, to target, text string) {
	res := advance(h.convs.get(to.chatID), text)
	h.convs.set(to.chatID, res.next)

	switch res.outcome {
	case outcomeSave:
		req, err := h.requests.Create(ctx, from.ID, from.UserName, res.keywords, res.channels)
		if err != nil {
			h.log.Error("request not saved", slog.Int64("user_id", from.ID), slog.Any("error", err))
			h.reply(to, "❌ Не удалось сохранить запрос.", backKeyboard())
			return
		}
		h.reply(to, savedText(req), savedRequestKeyboard(req.CreatedAt))
	case outcomeAskChannels:
		h.reply(to, askChannelsText(res.keywords), nil)
	case outcomeAskKeywords:
		h.reply(to, askKeywordsText(res.channels), nil)
	case outcomeNeedChannels:
		h.reply(to, tooManyKeywordsText(res.keywords), nil)
	case outcomeBadChannels:
		h.reply(to, badChannelsText, nil)
	case outcomeBadKeywords:
		h.reply(to, badKeywordsText, nil)
	default:
		h.reply(to, unrecognizedText, nil)
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		h.log.Warn("callback answer failed", slog.Any("error", err))
	}
	if cq.Message == nil || cq.From == nil {
		return
	}

	userID := cq.From.ID
	to := target{chatID: cq.Message.Chat.ID, messageID: cq.Message.MessageID}
	data := cq.Data

	switch data {
	case cbIgnore:
		return
	case cbBackToMenu:
		h.reply(to, menuText, mainMenuKeyboard())
		return
	case cbHelp:
		h.reply(to, helpText, helpKeyboard())
		return
	case cbQuickStart:
		h.reply(to, quickStartText, backKeyboard())
		return
	case cbRequestFormats:
		h.reply(to, requestFormatsText, requestFormatsKeyboard())
		return
	case cbFormatQuick:
		h.reply(to, quickFormatText, backKeyboard())
		return
	case cbFormatStep:
		h.reply(to, stepFormatText, backKeyboard())
		return
	case cbFAQ:
		h.reply(to, faqText, backKeyboard())
		return
	case cbList:
		h.showRequestList(ctx, userID, to)
		return
	case cbStats:
		h.showStats(ctx, userID, to)
		return
	case cbNewRequest:
		h.convs.reset(to.chatID)
		h.reply(to, newRequestText, backKeyboard())
		return
	case cbExecuteSearch:
		h.executeLatest(ctx, userID, to)
		return
	}

	switch {
	case strings.HasPrefix(data, cbPage):
		page, createdAt, ok := parsePagePayload(strings.TrimPrefix(data, cbPage))
		if !ok {
			h.reply(to, requestNotFoundText, backKeyboard())
			return
		}
		h.showResults(ctx, userID, to, createdAt, resultsView{page: page, perPage: perPage}, searchLimit)
	case strings.HasPrefix(data, cbShowTable):
		h.showResults(ctx, userID, to, strings.TrimPrefix(data, cbShowTable), resultsView{page: 1, perPage: perPage, table: true}, searchLimit)
	case strings.HasPrefix(data, cbShowText):
		h.showResults(ctx, userID, to, strings.TrimPrefix(data, cbShowText), resultsView{page: 1, perPage: perPage}, searchLimit)
	case strings.HasPrefix(data, cbShowAllTable):
		h.showResults(ctx, userID, to, strings.TrimPrefix(data, cbShowAllTable), resultsView{page: 1, perPage: allPerPage, table: true}, allResultLimit)
	case strings.HasPrefix(data, cbShowAll):
		h.showResults(ctx, userID, to, strings.TrimPrefix(data, cbShowAll), resultsView{page: 1, perPage: allPerPage}, allResultLimit)
	case strings.HasPrefix(data, cbExport):
		h.sendExport(ctx, userID, to.chatID, strings.TrimPrefix(data, cbExport))
	case strings.HasPrefix(data, cbSummary):
		h.sendSummary(ctx, userID, to.chatID, strings.TrimPrefix(data, cbSummary))
	default:
		h.log.Warn("unknown callback", slog.String("data", data))
	}
}

// parsePagePayload "<page>_<created_at>"
func parsePagePayload(payload string) (int, string, bool) {
	pageStr, createdAt, ok := strings.Cut(payload, "_")
	if !ok || createdAt == "" {
		return 0, "", false
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, "", false
	}
	return page, createdAt, true
}

// executeLatest re-runs the newest request bypassing the cache
func (h *BotHandler) executeLatest(ctx context.Context, userID int64, to target) {
	req, err := h.requests.Latest(ctx, userID)
	if errors.Is(err, usecase.ErrRequestNotFound) {
		h.reply(to, noRequestsText, backKeyboard())
		return
	}
	if err != nil {
		h.log.Error("latest request lookup failed", slog.Int64("user_id", userID), slog.Any("error", err))
		h.reply(to, searchFailedText(err), backKeyboard())
		return
	}

	to = h.reply(to, searchingText(req), nil)
	results, err := h.search.Search(ctx, req.Channels, req.Keywords, searchLimit, true)
	if err != nil {
		h.replySearchError(to, err)
		return
	}
	h.renderResults(to, req, results, resultsView{page: 1, perPage: perPage})
}

// showResults renders a view of a saved request, served from cache when fresh
func (h *BotHandler) showResults(ctx context.Context, userID int64, to target, createdAt string, view resultsView, limit int) {
	req, err := h.requests.FindByCreatedAt(ctx, userID, createdAt)
	if err != nil {
		if !errors.Is(err, usecase.ErrRequestNotFound) {
			h.log.Error("request lookup failed", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		h.reply(to, requestNotFoundText, backKeyboard())
		return
	}

	results, err := h.search.Search(ctx, req.Channels, req.Keywords, limit, false)
	if err != nil {
		h.replySearchError(to, err)
		return
	}
	h.renderResults(to, req, results, view)
}

func (h *BotHandler) renderResults(to target, req entity.SearchRequest, results []entity.SearchResult, view resultsView) {
	view.createdAt = req.CreatedAt
	view.total = len(results)
	view.summary = h.summary.Enabled()
	text := fitMessage(usecase.FormatResults(results, view.page, view.perPage, view.table))
	h.reply(to, text, resultsKeyboard(view))
}

func (h *BotHandler) replySearchError(to target, err error) {
	if errors.Is(err, repository.ErrAuthRequired) {
		h.log.Warn("search unavailable", slog.Any("error", err))
		h.reply(to, searchUnavailableText, backKeyboard())
		return
	}
	h.log.Error("search failed", slog.Any("error", err))
	h.reply(to, searchFailedText(err), backKeyboard())
}

func (h *BotHandler) showRequestList(ctx context.Context, userID int64, to target) {
	requests, err := h.requests.List(ctx, userID)
	if err != nil {
		h.log.Error("request list failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	h.reply(to, requestListText(requests, maxListed), backKeyboard())
}

func (h *BotHandler) showStats(ctx context.Context, userID int64, to target) {
	stats, err := h.requests.Stats(ctx, userID)
	if err != nil {
		h.log.Error("stats failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	h.reply(to, statsText(stats), backKeyboard())
}

func (h *BotHandler) sendExport(ctx context.Context, userID, chatID int64, createdAt string) {
	to := target{chatID: chatID}
	req, err := h.requests.FindByCreatedAt(ctx, userID, createdAt)
	if err != nil {
		h.reply(to, requestNotFoundText, nil)
		return
	}
	results, err := h.search.Search(ctx, req.Channels, req.Keywords, searchLimit, false)
	if err != nil {
		h.replySearchError(to, err)
		return
	}

	data, err := h.exporter.Export(results)
	if err != nil {
		h.log.Error("export failed", slog.Any("error", err))
		h.reply(to, "❌ Не удалось сформировать файл.", nil)
		return
	}

	name := "results_" + time.Now().Format("20060102_150405") + h.exporter.FileExtension()
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = fmt.Sprintf("📥 Результаты: %d", len(results))
	if _, err := h.bot.Send(doc); err != nil {
		h.log.Error("document send failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func (h *BotHandler) sendSummary(ctx context.Context, userID, chatID int64, createdAt string) {
	to := target{chatID: chatID}
	if !h.summary.Enabled() {
		h.reply(to, summaryDisabledText, nil)
		return
	}
	req, err := h.requests.FindByCreatedAt(ctx, userID, createdAt)
	if err != nil {
		h.reply(to, requestNotFoundText, nil)
		return
	}
	results, err := h.search.Search(ctx, req.Channels, req.Keywords, searchLimit, false)
	if err != nil {
		h.replySearchError(to, err)
		return
	}
	if len(results) == 0 {
		h.reply(to, usecase.FormatResults(nil, 1, perPage, false), nil)
		return
	}

	summary, err := h.summary.Summarize(ctx, req.Keywords, results)
	if err != nil {
		h.log.Error("summary failed", slog.Any("error", err))
		h.reply(to, "❌ Не удалось подготовить пересказ.", nil)
		return
	}
	h.reply(to, fitMessage(summaryText(req.Keywords, summary)), nil)
}

// reply edits the target message, or sends a new one when there is none or
// the edit fails. It returns the message that now holds the text.
func (h *BotHandler) reply(to target, text string, markup *tgbotapi.InlineKeyboardMarkup) target {
	if to.messageID != 0 {
		edit := tgbotapi.NewEditMessageText(to.chatID, to.messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.DisableWebPagePreview = true
		edit.ReplyMarkup = markup
		_, err := h.bot.Send(edit)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return to
		}
		h.log.Warn("edit failed, sending new message", slog.Any("error", err))
	}

	msg := tgbotapi.NewMessage(to.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := h.bot.Send(msg)
	if err != nil {
		h.log.Error("send failed", slog.Int64("chat_id", to.chatID), slog.Any("error", err))
		return target{chatID: to.chatID}
	}
	return target{chatID: to.chatID, messageID: sent.MessageID}
}
