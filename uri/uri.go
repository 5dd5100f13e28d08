package uri

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Scheme is the URI scheme registered by RFC 7512.
const Scheme = "pkcs11"

// Pkcs11Uri is a parsed RFC 7512 URI. It is immutable after Parse.
type Pkcs11Uri struct {
	Path  PathAttributes
	Query QueryAttributes

	// input with whitespace stripped, kept for diagnostics
	raw string
}

// String returns the whitespace-normalized input text. It may carry a
// literal pin-value; use Sanitized for anything that gets logged.
func (u *Pkcs11Uri) String() string {
	return u.raw
}

// Sanitized returns the normalized text with pin-value redacted.
func (u *Pkcs11Uri) Sanitized() string {
	return Sanitize(u.raw)
}

var pinValueRe = regexp.MustCompile(`(pin-value=)[^&]*`)

// Sanitize redacts the pin-value attribute from URI text.
func Sanitize(text string) string {
	return pinValueRe.ReplaceAllString(text, "${1}***")
}

// Parse parses text as a PKCS#11 URI. Whitespace anywhere in the
// input is stripped first, so URIs may be wrapped across lines.
func Parse(text string) (*Pkcs11Uri, error) {
	normalized := stripSpace(text)

	u, err := url.Parse(normalized)
	if err != nil {
		return nil, errors.WithMessagef(ErrMalformedURI, "%v", err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return nil, errors.WithMessagef(ErrWrongScheme, "scheme %q", u.Scheme)
	}
	// "//" introduces an authority even when the host is empty
	if rest := normalized[len(u.Scheme)+1:]; strings.HasPrefix(rest, "//") {
		return nil, errors.WithMessagef(ErrUnexpectedAuthority, "authority %q", u.Host)
	}
	// an RFC 7512 URI is opaque: a single rootless path segment
	if u.Opaque == "" && u.Path != "" {
		return nil, errors.WithMessagef(ErrBadPath, "rooted path %q", u.Path)
	}
	if strings.Contains(u.Opaque, "/") {
		return nil, errors.WithMessagef(ErrBadPath, "%d segments", strings.Count(u.Opaque, "/")+1)
	}

	path, err := parseAttributes(u.Opaque, ";", pathAttributes)
	if err != nil {
		return nil, err
	}
	query, err := parseAttributes(u.RawQuery, "&", queryAttributes)
	if err != nil {
		return nil, err
	}

	return &Pkcs11Uri{
		Path:  *path,
		Query: *query,
		raw:   normalized,
	}, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
