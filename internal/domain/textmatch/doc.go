// Package textmatch decides which words and sentences of a channel message are
// relevant to a set of search keywords.
//
// Matching is tolerant to case, substrings, common Russian inflectional
// endings and small typos in short words. All lengths are counted in runes.
package textmatch
