package shortener

import (
	"net/url"
	"strings"
)

// EncodeAlias percent-encodes every byte of alias outside the unreserved set
// (A-Z, a-z, 0-9, '-', '.', '_', '~'). Spaces become %20.
func EncodeAlias(alias string) string {
	// QueryEscape leaves only unreserved bytes as-is, apart from mapping ' ' to '+'.
	// A literal '+' is already escaped to %2B, so the replacement is unambiguous.
	return strings.ReplaceAll(url.QueryEscape(alias), "+", "%20")
}

// EncodeAliases encodes each alias, keeping order. A nil slice stays nil.
func EncodeAliases(aliases []string) []string {
	if aliases == nil {
		return nil
	}

	encoded := make([]string, len(aliases))
	for i, alias := range aliases {
		encoded[i] = EncodeAlias(alias)
	}

	return encoded
}
