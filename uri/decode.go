package uri

import (
	"net/url"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// decodeBytes percent-decodes value into raw bytes. The result does
// not need to be valid UTF-8; binary object IDs rely on that.
func decodeBytes(value string) ([]byte, error) {
	s, err := url.PathUnescape(value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return []byte(s), nil
}

// decodeString percent-decodes value and requires the result to be
// valid UTF-8.
func decodeString(value string) (string, error) {
	s, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !utf8.ValidString(s) {
		return "", errors.Errorf("percent-decoded value is not valid UTF-8: %q", value)
	}
	return s, nil
}

func decodeStringPtr(value string) (*string, error) {
	s, err := decodeString(value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
