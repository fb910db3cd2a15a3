package analytics

import "time"

const (
	TopicLinkCreated  = "link.created"
	TopicLinkResolved = "link.resolved"
)

// LinkCreatedEvent is emitted after a link has been stored.
type LinkCreatedEvent struct {
	Identifier  string    `json:"identifier"`
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	Aliases     []string  `json:"aliases,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkResolvedEvent is emitted after a short code has been resolved.
type LinkResolvedEvent struct {
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
	Redirect   bool      `json:"redirect"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}
