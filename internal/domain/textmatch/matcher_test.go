package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		keyword string
		want    bool
	}{
		{"exact", "python", "python", true},
		{"exact ignores case", "Python", "PYTHON", true},
		{"substring", "программирование", "программ", true},
		{"substring ignores case", "PyCharmPython", "python", true},
		{"keyword without ending", "разработк", "разработка", true},
		{"keyword plus ending", "новостей", "новост", true},
		{"typo in short word", "pythom", "python", true},
		{"cyrillic typo", "превет", "привет", true},
		{"two edits", "pytn", "python", true},
		{"unrelated", "banana", "python", false},
		{"unrelated long words", "разработчиками", "программа", false},
		{"keyword too long for typo check", "abcdefx", "abcdefg", false},
		{"word too long for typo check", "pytonxxxx", "python", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.word, tt.keyword))
		})
	}
}

func TestMatchesEqualityAndSubstringAlwaysHold(t *testing.T) {
	words := []string{"Telegram", "каналы", "golang", "Машинное", "x", "данных"}
	for _, w := range words {
		assert.True(t, Matches(w, w), w)
		assert.True(t, Matches("pre"+w+"post", w), w)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"привет", "превет", 1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}
