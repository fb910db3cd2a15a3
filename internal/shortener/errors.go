package shortener

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLink        = errors.New("invalid link")
	ErrStoreOpen          = errors.New("failed to open store")
	ErrStoreAccess        = errors.New("failed to access store")
	ErrLinkEncoding       = errors.New("failed to encode link")
	ErrLinkDecoding       = errors.New("failed to decode link")
	ErrLinkNotFound       = errors.New("link not found")
	ErrShortCodeExhausted = errors.New("short code attempts exhausted")
)

// NotFoundError reports a short code with no stored link.
type NotFoundError struct {
	Code Code
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("link not found: %s", e.Code)
}

// Is makes errors.Is(err, ErrLinkNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrLinkNotFound
}

// wrap tags cause with one of the sentinel kinds above.
func wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
