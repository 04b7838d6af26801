package textmatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRelevant(t *testing.T) {
	text := "Я изучаю python каждый день. Сегодня был дождь! Python лучший язык?"

	got := ExtractRelevant(text, []string{"python"})

	assert.Equal(t, []string{"Я изучаю python каждый день.", "Python лучший язык?"}, got)
}

func TestExtractRelevantUppercaseKeyword(t *testing.T) {
	got := ExtractRelevant("Новый курс по Python уже доступен.", []string{"PYTHON"})

	assert.Equal(t, []string{"Новый курс по Python уже доступен."}, got)
}

func TestExtractRelevantDropsShortSentences(t *testing.T) {
	got := ExtractRelevant("Python! Я люблю язык python очень сильно.", []string{"python"})

	assert.Equal(t, []string{"Я люблю язык python очень сильно."}, got)
}

func TestExtractRelevantKeepsTenRuneSentence(t *testing.T) {
	got := ExtractRelevant("go rocks!! Nothing here.", []string{"go"})

	assert.Equal(t, []string{"go rocks!!"}, got)
}

func TestExtractRelevantNormalizesWhitespace(t *testing.T) {
	got := ExtractRelevant("Новый   релиз\nPython 3.13 вышел.  Ура", []string{"python"})

	assert.Equal(t, []string{"Новый релиз Python 3.13 вышел."}, got)
}

func TestExtractRelevantEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractRelevant("", []string{"python"}))
	assert.Empty(t, ExtractRelevant("Python везде и всегда.", nil))
	assert.Empty(t, ExtractRelevant("Python везде и всегда.", []string{}))
}

func TestExtractRelevantIsIdempotent(t *testing.T) {
	text := "Я изучаю python каждый день. Сегодня был дождь! Python лучший язык?"
	keywords := []string{"python"}

	first := ExtractRelevant(text, keywords)
	require.NotEmpty(t, first)

	again := ExtractRelevant(strings.Join(first, " "), keywords)
	assert.Equal(t, first, again)
}

func TestQueryKeywordsAreLowered(t *testing.T) {
	q := NewQuery([]string{"Go", "RUST"})
	assert.Equal(t, []string{"go", "rust"}, q.Keywords())
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t,
		[]string{"Один.", "Два!", "Три?", "Четыре"},
		SplitSentences("  Один. Два!  Три?\nЧетыре  "))
	assert.Equal(t, []string{"v1.2 released"}, SplitSentences("v1.2 released"))
	assert.Nil(t, SplitSentences("   "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"привет", "мир_2", "3", "13"}, Tokenize("Привет, Мир_2! 3.13"))
}
