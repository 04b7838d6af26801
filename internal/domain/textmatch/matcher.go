package textmatch

import (
	"strings"
	"unicode/utf8"
)

const (
	// typo tolerance only applies to short tokens
	maxTypoKeywordLen = 6
	maxTypoWordLen    = 8
	maxTypoDistance   = 2
)

// inflectionEndings adjective and noun endings stripped or appended when
// comparing a word with a keyword
var inflectionEndings = []string{
	"а", "ы", "ю",
	"ов", "ей", "ам", "ах", "ом", "им", "ем", "ой", "ую", "ие", "их",
	"ая", "яя", "ое", "ее", "юю",
	"ами", "ого", "ому", "ему", "ими", "ыми",
}

// Matches reports whether word fuzzy-matches keyword. Checks run from cheap to
// expensive: equality, substring, inflection, edit distance.
func Matches(word, keyword string) bool {
	return matchLower(strings.ToLower(word), strings.ToLower(keyword))
}

func matchLower(word, keyword string) bool {
	if word == keyword {
		return true
	}
	if strings.Contains(word, keyword) {
		return true
	}

	for _, ending := range inflectionEndings {
		if word == keyword+ending {
			return true
		}
		if strings.HasSuffix(keyword, ending) && word == strings.TrimSuffix(keyword, ending) {
			return true
		}
	}

	if utf8.RuneCountInString(keyword) <= maxTypoKeywordLen && utf8.RuneCountInString(word) <= maxTypoWordLen {
		return Levenshtein(word, keyword) <= maxTypoDistance
	}
	return false
}

// Levenshtein edit distance between a and b over runes, using a single
// rolling row sized to the shorter string
func Levenshtein(a, b string) int {
	long, short := []rune(a), []rune(b)
	if len(long) < len(short) {
		long, short = short, long
	}
	if len(short) == 0 {
		return len(long)
	}

	row := make([]int, len(short)+1)
	for j := range row {
		row[j] = j
	}

	for i, lr := range long {
		diag := row[0]
		row[0] = i + 1
		for j, sr := range short {
			cost := 1
			if lr == sr {
				cost = 0
			}
			above := row[j+1]
			row[j+1] = min(above+1, row[j]+1, diag+cost)
			diag = above
		}
	}
	return row[len(short)]
}
