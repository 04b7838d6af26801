package entity

import "time"

// Channel a resolved public channel
type Channel struct {
	// Name is the requested "@username" form
	Name       string
	Title      string
	Username   string
	ID         int64
	AccessHash int64
}

// DisplayName title if known, requested name otherwise
func (c Channel) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// ChannelMessage a message yielded by the channel reader, newest first
type ChannelMessage struct {
	ID   int
	Text string
	Date time.Time
}
