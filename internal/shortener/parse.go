package shortener

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// defaultPorts lists the schemes that must carry a host, with their default port.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

var (
	errEmptyLink   = errors.New("empty link")
	errInvalidUTF8 = errors.New("link is not valid utf-8")
	errNoScheme    = errors.New("link has no scheme")
	errEmptyHost   = errors.New("link has an empty host")
)

// ParseLink parses and normalizes an absolute URL.
//   - Lowercases the scheme and host
//   - Removes the default port of well-known schemes
//   - Uses "/" as the path of a well-known scheme when the path is empty
//
// Any failure is reported as ErrInvalidLink.
func ParseLink(rawLink string) (*url.URL, error) {
	rawLink = strings.TrimSpace(rawLink)

	switch {
	case rawLink == "":
		return nil, wrap(ErrInvalidLink, errEmptyLink)
	case !utf8.ValidString(rawLink):
		return nil, wrap(ErrInvalidLink, errInvalidUTF8)
	}

	u, err := url.Parse(rawLink)
	if err != nil {
		return nil, wrap(ErrInvalidLink, err)
	}

	if u.Scheme == "" {
		return nil, wrap(ErrInvalidLink, errNoScheme)
	}

	u.Scheme = strings.ToLower(u.Scheme)

	port, special := defaultPorts[u.Scheme]
	if !special {
		return u, nil
	}

	if u.Opaque != "" || u.Hostname() == "" {
		return nil, wrap(ErrInvalidLink, errEmptyHost)
	}

	u.Host = strings.ToLower(u.Host)

	if u.Port() == port {
		u.Host = strings.TrimSuffix(u.Host, ":"+port)
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u, nil
}
