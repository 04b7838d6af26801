package entity

import "time"

// SearchRequest a saved user query. CreatedAt doubles as the reference used in
// callback payloads.
type SearchRequest struct {
	ID        string   `json:"id"`
	UserID    int64    `json:"user_id"`
	Username  string   `json:"username"`
	Keywords  []string `json:"keywords"`
	Channels  []string `json:"channels"`
	CreatedAt string   `json:"created_at"`
}

// CreatedTime parses CreatedAt, zero time if malformed
func (r SearchRequest) CreatedTime() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, r.CreatedAt, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RequestStats per-user request statistics
type RequestStats struct {
	TotalRequests  int
	TotalKeywords  int
	TotalChannels  int
	UniqueChannels int
	LastRequest    time.Time
}

// AvgKeywords average keywords per request
func (s RequestStats) AvgKeywords() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.TotalKeywords) / float64(s.TotalRequests)
}

// AvgChannels average channels per request
func (s RequestStats) AvgChannels() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.TotalChannels) / float64(s.TotalRequests)
}
