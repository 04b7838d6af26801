package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
)

func sampleResults(n int) []entity.SearchResult {
	results := make([]entity.SearchResult, n)
	for i := range results {
		results[i] = entity.SearchResult{
			Channel:   fmt.Sprintf("Channel %d", i+1),
			MessageID: i + 1,
			Date:      "05.03.24 14:07",
			Snippet:   fmt.Sprintf("snippet %d", i+1),
			Link:      fmt.Sprintf("https://t.me/ch/%d", i+1),
		}
	}
	return results
}

func TestFormatResultsEmpty(t *testing.T) {
	want := "❌ <b>Совпадений не найдено</b>\n\nПопробуйте изменить ключевые слова или каналы."
	assert.Equal(t, want, FormatResults(nil, 1, 5, false))
	assert.Equal(t, want, FormatResults(nil, 3, 5, true))
}

func TestFormatResultsPagination(t *testing.T) {
	results := sampleResults(12)

	got := FormatResults(results, 3, 5, false)
	assert.True(t, strings.HasPrefix(got, "🔍 <b>Результаты поиска</b> (12 найдено, стр. 3)\n\n"))
	assert.Contains(t, got, "<b>11.</b> Channel 11\n")
	assert.Contains(t, got, "<b>12.</b> Channel 12\n")
	assert.NotContains(t, got, "<b>10.</b>")
	assert.Equal(t, 2, strings.Count(got, "🔗 "))
}

func TestFormatResultsPageOutOfRange(t *testing.T) {
	got := FormatResults(sampleResults(3), 4, 5, false)
	assert.Equal(t, "🔍 <b>Результаты поиска</b> (3 найдено, стр. 4)\n\n", got)
}

func TestFormatResultsTextEntry(t *testing.T) {
	got := FormatResults(sampleResults(1), 1, 5, false)
	assert.Contains(t, got, "<b>1.</b> Channel 1\n📅 05.03.24 14:07\n💬 snippet 1\n🔗 https://t.me/ch/1\n\n")
}

func TestFormatResultsEscapesHTML(t *testing.T) {
	results := []entity.SearchResult{{Channel: "A&B", Snippet: "use <b> tags", Date: "d", Link: entity.NoLink}}
	got := FormatResults(results, 1, 5, false)
	assert.Contains(t, got, "A&amp;B")
	assert.Contains(t, got, "use &lt;b&gt; tags")

	plain := ResultFormatter{}.Format(results, 1, 5, false)
	assert.Contains(t, plain, "use <b> tags")
	assert.True(t, strings.HasPrefix(plain, "🔍 Результаты поиска (1 найдено, стр. 1)"))
}

func TestFormatResultsOmitsMissingLink(t *testing.T) {
	results := []entity.SearchResult{
		{Channel: "c", Date: "d", Snippet: "python snippet here", Link: entity.NoLink},
		{Channel: "e", Date: "d", Snippet: "python again", Link: "https://t.me/e/7"},
	}

	got := ResultFormatter{}.Format(results[:1], 1, 5, false)
	assert.Equal(t, "🔍 Результаты поиска (1 найдено, стр. 1)\n\n1. c\n📅 d\n💬 python snippet here\n\n", got)
	assert.NotContains(t, got, "🔗")

	both := FormatResults(results, 1, 5, false)
	assert.Equal(t, 1, strings.Count(both, "🔗"))
	assert.Contains(t, both, "🔗 https://t.me/e/7\n\n")
	assert.NotContains(t, both, entity.NoLink)
}

func TestFormatResultsTable(t *testing.T) {
	results := []entity.SearchResult{{
		Channel:   "A very long channel title indeed",
		Date:      "05.03.24 14:07",
		Snippet:   "line one | pipe\nline two " + strings.Repeat("x", 60),
		Link:      "https://t.me/ch/1",
		MessageID: 1,
	}}
	got := ResultFormatter{}.Format(results, 1, 5, true)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, "| # | Канал | Дата | Текст | Ссылка |", lines[2])
	assert.Equal(t, "|----|-------|------|-------|--------|", lines[3])
	assert.Len(t, lines, 5)

	row := lines[4]
	assert.True(t, strings.HasPrefix(row, "| 1 | A very long chann... | 05.03.24 14:07 | "))
	assert.Contains(t, row, `line one \| pipe line two`)
	assert.NotContains(t, row, "\n")
	assert.Contains(t, row, "... | https://t.me/ch/1 |")
}

func TestFormatResultsDefaults(t *testing.T) {
	results := sampleResults(7)
	got := FormatResults(results, 0, 0, false)
	assert.Contains(t, got, "стр. 1)")
	assert.Equal(t, DefaultPerPage, strings.Count(got, "🔗 "))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 5))
	assert.Equal(t, 1, PageCount(5, 5))
	assert.Equal(t, 3, PageCount(12, 5))
	assert.Equal(t, 2, PageCount(6, 0))
}
