package usecase

import (
	"fmt"
	"html"
	"strings"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
)

// DefaultPerPage page size used when none is given
const DefaultPerPage = 5

const (
	tableChannelMax = 20
	tableSnippetMax = 50
)

// ResultFormatter renders a page of results as text or as a pipe table.
// With HTML set, bold markup is emitted and result text is HTML-escaped for
// Telegram's HTML parse mode.
type ResultFormatter struct {
	HTML bool
}

// FormatResults HTML rendering used by the bot
func FormatResults(results []entity.SearchResult, page, perPage int, asTable bool) string {
	return ResultFormatter{HTML: true}.Format(results, page, perPage, asTable)
}

// PageCount number of pages needed for total results
func PageCount(total, perPage int) int {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Format renders page (1-based) of results. A page past the end renders the
// header alone; only an empty result set yields the no-matches message.
func (f ResultFormatter) Format(results []entity.SearchResult, page, perPage int, asTable bool) string {
	if len(results) == 0 {
		return f.bold("❌ ", "Совпадений не найдено") + "\n\nПопробуйте изменить ключевые слова или каналы."
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	start := (page - 1) * perPage
	end := min(start+perPage, len(results))
	var pageResults []entity.SearchResult
	if start < len(results) {
		pageResults = results[start:end]
	}

	var b strings.Builder
	b.WriteString(f.bold("🔍 ", "Результаты поиска"))
	fmt.Fprintf(&b, " (%d найдено, стр. %d)\n\n", len(results), page)

	if asTable {
		f.writeTable(&b, pageResults, start)
	} else {
		f.writeText(&b, pageResults, start)
	}
	return b.String()
}

func (f ResultFormatter) writeText(b *strings.Builder, results []entity.SearchResult, start int) {
	for i, r := range results {
		b.WriteString(f.bold("", fmt.Sprintf("%d.", start+i+1)))
		b.WriteString(" " + f.escape(r.Channel) + "\n")
		b.WriteString("📅 " + f.escape(r.Date) + "\n")
		b.WriteString("💬 " + f.escape(r.Snippet) + "\n")
		if r.HasLink() {
			b.WriteString("🔗 " + f.escape(r.Link) + "\n")
		}
		b.WriteString("\n")
	}
}

func (f ResultFormatter) writeTable(b *strings.Builder, results []entity.SearchResult, start int) {
	b.WriteString("| # | Канал | Дата | Текст | Ссылка |\n")
	b.WriteString("|----|-------|------|-------|--------|\n")
	for i, r := range results {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s |\n",
			start+i+1,
			f.escape(tableCell(r.Channel, tableChannelMax)),
			f.escape(tableCell(r.Date, 0)),
			f.escape(tableCell(r.Snippet, tableSnippetMax)),
			f.escape(tableCell(r.Link, 0)),
		)
	}
}

// tableCell flattens newlines, truncates to n runes (0 keeps all) and
// escapes pipes
func tableCell(s string, n int) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if n > 0 {
		s = truncateRunes(s, n)
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func (f ResultFormatter) bold(prefix, s string) string {
	if f.HTML {
		return prefix + "<b>" + s + "</b>"
	}
	return prefix + s
}

func (f ResultFormatter) escape(s string) string {
	if f.HTML {
		return html.EscapeString(s)
	}
	return s
}
