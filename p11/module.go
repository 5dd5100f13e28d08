package p11

import (
	"github.com/miekg/pkcs11"
)

// LibInfo reports the CK_INFO fields of a loaded library.
type LibInfo struct {
	Manufacturer string
	Description  string
	Major        uint8
	Minor        uint8
}

// SlotInfo reports the CK_SLOT_INFO fields a URI can match on.
type SlotInfo struct {
	Description  string
	Manufacturer string
}

// TokenInfo reports the CK_TOKEN_INFO fields a URI can match on.
// Serial is the raw reported value; callers compare it in its fixed
// 16-byte blank-padded form.
type TokenInfo struct {
	Manufacturer string
	Model        string
	Label        string
	Serial       string
}

// Module is the PKCS#11 capability surface consumed by the resolver.
// Every call blocks; the interface adds no concurrency or retries.
type Module interface {
	// Info returns library information.
	Info() (*LibInfo, error)

	// ListSlots returns the IDs of all slots, or of slots with a
	// token present when tokenPresent is true.
	ListSlots(tokenPresent bool) ([]uint, error)

	// SlotInfo returns information about the slot.
	SlotInfo(slotID uint) (*SlotInfo, error)

	// TokenInfo returns information about the token in the slot.
	TokenInfo(slotID uint) (*TokenInfo, error)

	// OpenSession opens a session on the slot with CKF_* flags.
	OpenSession(slotID uint, flags uint) (pkcs11.SessionHandle, error)

	// CloseSession closes the session.
	CloseSession(session pkcs11.SessionHandle) error

	// Login authenticates the session for the CKU_* user type.
	Login(session pkcs11.SessionHandle, userType uint, pin string) error

	// FindObjects returns the handles of objects matching the
	// attribute template, up to max.
	FindObjects(session pkcs11.SessionHandle, template []*pkcs11.Attribute, max int) ([]pkcs11.ObjectHandle, error)
}
