package p11

import (
	"strings"

	"github.com/effective-security/xlog"
	"github.com/miekg/pkcs11"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/p11uri", "p11")

// Lib is a loaded and initialized PKCS#11 library.
type Lib struct {
	Ctx *pkcs11.Ctx

	path string
}

// Ensure compiles
var _ Module = (*Lib)(nil)

// Load loads the PKCS#11 library at path and initializes it.
// Call Close to finalize and unload.
func Load(path string) (*Lib, error) {
	ctx := pkcs11.New(path)
	if ctx == nil {
		return nil, errors.Errorf("unable to load PKCS#11 library: %s", path)
	}
	err := ctx.Initialize()
	if err != nil && err != pkcs11.Error(pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED) {
		ctx.Destroy()
		return nil, errors.WithMessagef(err, "initialize: %s", path)
	}
	logger.KV(xlog.TRACE, "loaded", path)
	return &Lib{Ctx: ctx, path: path}, nil
}

// Path returns the location the library was loaded from.
func (l *Lib) Path() string {
	return l.path
}

// Close finalizes and unloads the library.
func (l *Lib) Close() error {
	err := l.Ctx.Finalize()
	l.Ctx.Destroy()
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Info returns library information
func (l *Lib) Info() (*LibInfo, error) {
	info, err := l.Ctx.GetInfo()
	if err != nil {
		return nil, errors.WithMessagef(err, "GetInfo: %s", l.path)
	}
	return &LibInfo{
		Manufacturer: strings.TrimSpace(info.ManufacturerID),
		Description:  strings.TrimSpace(info.LibraryDescription),
		Major:        info.LibraryVersion.Major,
		Minor:        info.LibraryVersion.Minor,
	}, nil
}

// ListSlots returns slot IDs
func (l *Lib) ListSlots(tokenPresent bool) ([]uint, error) {
	slots, err := l.Ctx.GetSlotList(tokenPresent)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.Tracef("slots=%d", len(slots))
	return slots, nil
}

// SlotInfo returns information about the slot
func (l *Lib) SlotInfo(slotID uint) (*SlotInfo, error) {
	si, err := l.Ctx.GetSlotInfo(slotID)
	if err != nil {
		return nil, errors.WithMessagef(err, "GetSlotInfo: %d", slotID)
	}
	return &SlotInfo{
		Description:  strings.TrimSpace(si.SlotDescription),
		Manufacturer: strings.TrimSpace(si.ManufacturerID),
	}, nil
}

// TokenInfo returns information about the token in the slot
func (l *Lib) TokenInfo(slotID uint) (*TokenInfo, error) {
	ti, err := l.Ctx.GetTokenInfo(slotID)
	if err != nil {
		return nil, errors.WithMessagef(err, "GetTokenInfo: %d", slotID)
	}
	return &TokenInfo{
		Manufacturer: strings.TrimSpace(ti.ManufacturerID),
		Model:        strings.TrimSpace(ti.Model),
		Label:        strings.TrimSpace(ti.Label),
		Serial:       ti.SerialNumber,
	}, nil
}

// OpenSession opens a session on the slot
func (l *Lib) OpenSession(slotID uint, flags uint) (pkcs11.SessionHandle, error) {
	session, err := l.Ctx.OpenSession(slotID, flags)
	if err != nil {
		return 0, errors.WithMessagef(err, "OpenSession on slot %d", slotID)
	}
	return session, nil
}

// CloseSession closes the session
func (l *Lib) CloseSession(session pkcs11.SessionHandle) error {
	if err := l.Ctx.CloseSession(session); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Login authenticates the session. Already-authenticated sessions are
// not an error.
func (l *Lib) Login(session pkcs11.SessionHandle, userType uint, pin string) error {
	err := l.Ctx.Login(session, userType, pin)
	if err != nil && err != pkcs11.Error(pkcs11.CKR_USER_ALREADY_LOGGED_IN) {
		return errors.WithStack(err)
	}
	return nil
}

// FindObjects runs the FindObjectsInit/FindObjects/FindObjectsFinal
// sequence and returns at most max handles.
func (l *Lib) FindObjects(session pkcs11.SessionHandle, template []*pkcs11.Attribute, max int) ([]pkcs11.ObjectHandle, error) {
	if err := l.Ctx.FindObjectsInit(session, template); err != nil {
		return nil, errors.WithMessagef(err, "FindObjectsInit")
	}
	handles, _, err := l.Ctx.FindObjects(session, max)
	if err != nil {
		_ = l.Ctx.FindObjectsFinal(session)
		return nil, errors.WithMessagef(err, "FindObjects")
	}
	if err := l.Ctx.FindObjectsFinal(session); err != nil {
		return nil, errors.WithMessagef(err, "FindObjectsFinal")
	}
	return handles, nil
}
