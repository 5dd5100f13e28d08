package uri

import (
	"fmt"

	"github.com/pkg/errors"
)

// Parse errors are a pure function of the input text: the same input
// always fails the same way, so callers should never retry.
var (
	// ErrMalformedURI is returned when the input is not a valid URI
	// reference, or an attribute component carries no '='.
	ErrMalformedURI = errors.New("malformed PKCS#11 URI")

	// ErrWrongScheme is returned when the URI scheme is not "pkcs11".
	ErrWrongScheme = errors.New("URI scheme is not pkcs11")

	// ErrUnexpectedAuthority is returned when the URI carries an
	// authority component; RFC 7512 URIs never do.
	ErrUnexpectedAuthority = errors.New("PKCS#11 URI must not have an authority")

	// ErrBadPath is returned when the URI path is not a single
	// rootless segment.
	ErrBadPath = errors.New("PKCS#11 URI must have exactly one path segment")
)

// UnknownAttributeError is returned for an attribute name outside the
// RFC 7512 tables.
type UnknownAttributeError struct {
	Key string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute: %q", e.Key)
}

// DuplicateAttributeError is returned when an attribute appears more
// than once in a component list; RFC 7512 forbids repetition.
type DuplicateAttributeError struct {
	Key string
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("attribute repeated: %q", e.Key)
}

// InvalidValueError is returned when an attribute value does not parse;
// Value holds the raw text as it appeared in the URI.
type InvalidValueError struct {
	Key   string
	Value string

	err error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %q: %q", e.Key, e.Value)
}

// Unwrap returns the underlying conversion failure.
func (e *InvalidValueError) Unwrap() error {
	return e.err
}
