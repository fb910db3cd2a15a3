package shortener

import (
	"net/url"

	"github.com/google/uuid"
)

// Code is the short code a link is stored and resolved under.
type Code string

// Key returns the store key for the code.
func (c Code) Key() []byte {
	return []byte(c)
}

// Link is a shortened URL record.
type Link struct {
	Identifier  uuid.UUID
	OriginalURL *url.URL
	ShortCode   Code
	Aliases     []string // nil when no aliases were supplied
}
