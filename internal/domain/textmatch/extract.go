package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLen relevant sentences shorter than this are dropped
const MinSentenceLen = 10

// Query a keyword set lower-cased once and reused across messages
type Query struct {
	keywords []string
}

// NewQuery prepares keywords for repeated extraction
func NewQuery(keywords []string) Query {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		lowered = append(lowered, strings.ToLower(kw))
	}
	return Query{keywords: lowered}
}

// Keywords the lower-cased keywords
func (q Query) Keywords() []string {
	return q.keywords
}

// Extract returns the relevant sentences of text in their original order,
// whitespace-normalized. Empty text or an empty query yields nothing.
func (q Query) Extract(text string) []string {
	if text == "" || len(q.keywords) == 0 {
		return nil
	}

	var relevant []string
	for _, sentence := range SplitSentences(text) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if !q.matchesAny(Tokenize(sentence)) {
			continue
		}
		clean := strings.Join(strings.Fields(sentence), " ")
		if utf8.RuneCountInString(clean) < MinSentenceLen {
			continue
		}
		relevant = append(relevant, clean)
	}
	return relevant
}

// first match wins
func (q Query) matchesAny(words []string) bool {
	for _, word := range words {
		for _, kw := range q.keywords {
			if matchLower(word, kw) {
				return true
			}
		}
	}
	return false
}

// ExtractRelevant is NewQuery(keywords).Extract(text)
func ExtractRelevant(text string, keywords []string) []string {
	return NewQuery(keywords).Extract(text)
}

// SplitSentences splits after '.', '!' or '?' followed by whitespace. The
// whitespace run itself is dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	var prev rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) && isTerminator(prev) {
			sentences = append(sentences, text[start:i])
			j := i
			for j < len(text) {
				next, n := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(next) {
					break
				}
				j += n
			}
			start, i, prev = j, j, 0
			continue
		}
		prev = r
		i += size
	}
	return append(sentences, text[start:])
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Tokenize returns lower-cased runs of letters, digits and underscores
func Tokenize(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
