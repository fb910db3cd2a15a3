package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// CodeGenerator returns a new candidate short code on every call.
type CodeGenerator func() string

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 8

// NewNanoidGenerator returns a generator of URL-safe random codes of the given length.
func NewNanoidGenerator(length int) (CodeGenerator, error) {
	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("invalid code length %d: %w", length, err)
	}

	return CodeGenerator(gen), nil
}
