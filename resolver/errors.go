package resolver

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Resolution errors depend on live module state; the resolver never
// retries internally. Transient conditions surface verbatim and the
// caller decides whether to retry.
var (
	// ErrNoSlot is returned when no slot with a token present
	// satisfies the URI constraints.
	ErrNoSlot = errors.New("no slot matched the URI")

	// ErrAmbiguousSlot is returned when more than one slot matches.
	ErrAmbiguousSlot = errors.New("multiple slots matched the URI")

	// ErrNoObject is returned when the object search finds nothing.
	ErrNoObject = errors.New("no object matched the URI")

	// ErrAmbiguousObject is returned when the object search finds
	// more than one handle.
	ErrAmbiguousObject = errors.New("multiple objects matched the URI")

	// ErrLoginFailed is returned when the PIN cannot be resolved or
	// the module rejects it.
	ErrLoginFailed = errors.New("login failed")
)

// ModuleCallError reports a failed call on the PKCS#11 module.
type ModuleCallError struct {
	Op  string
	Err error
}

func (e *ModuleCallError) Error() string {
	return fmt.Sprintf("module call %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying module error.
func (e *ModuleCallError) Unwrap() error {
	return e.Err
}

func moduleCall(op string, err error) error {
	return &ModuleCallError{Op: op, Err: err}
}
