package entity

import "time"

// NoLink is stored in SearchResult.Link when the channel has no public username
const NoLink = "—"

// DateLayout is the display format of SearchResult.Date
const DateLayout = "02.01.06 15:04"

// SearchResult a single matched channel message
type SearchResult struct {
	Channel   string `json:"channel"`
	MessageID int    `json:"message_id"`
	Date      string `json:"date"`
	Snippet   string `json:"snippet"`
	Link      string `json:"link"`
}

// HasLink reports whether the result points to a public message
func (r SearchResult) HasLink() bool {
	return r.Link != "" && r.Link != NoLink
}

// CacheEntry a stored result set. Timestamp is epoch seconds at write time.
type CacheEntry struct {
	Timestamp float64        `json:"timestamp"`
	Results   []SearchResult `json:"results"`
}

// WrittenAt returns the write time of the entry
func (e CacheEntry) WrittenAt() time.Time {
	sec := int64(e.Timestamp)
	nsec := int64((e.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
