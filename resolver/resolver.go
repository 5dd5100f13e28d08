package resolver

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/p11uri/metricskey"
	"github.com/effective-security/p11uri/p11"
	"github.com/effective-security/p11uri/uri"
	"github.com/effective-security/xlog"
	"github.com/miekg/pkcs11"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/p11uri", "resolver")

// ckObjectClasses maps URI object classes to CKO_* values.
var ckObjectClasses = map[uri.ObjectClass]uint{
	uri.Certificate: pkcs11.CKO_CERTIFICATE,
	uri.Data:        pkcs11.CKO_DATA,
	uri.PrivateKey:  pkcs11.CKO_PRIVATE_KEY,
	uri.PublicKey:   pkcs11.CKO_PUBLIC_KEY,
	uri.SecretKey:   pkcs11.CKO_SECRET_KEY,
}

// maxObjects caps the object search. The strict single-match policy
// only needs to see whether a second handle exists.
const maxObjects = 10

// Result is a located object with the session it was found on. The
// caller owns the session and must call Close.
type Result struct {
	Module  p11.Module
	Session pkcs11.SessionHandle
	Object  pkcs11.ObjectHandle
}

// Close closes the session.
func (r *Result) Close() error {
	return r.Module.CloseSession(r.Session)
}

// Resolver locates the single object a parsed PKCS#11 URI addresses.
type Resolver struct {
	mod     p11.Module
	secrets Secrets
}

// New returns a Resolver over the given module.
func New(mod p11.Module) *Resolver {
	return &Resolver{
		mod:     mod,
		secrets: osSecrets{},
	}
}

// WithSecrets replaces the environment and file access used for
// pin-source resolution.
func (r *Resolver) WithSecrets(secrets Secrets) *Resolver {
	r.secrets = secrets
	return r
}

// Resolve runs the URI through slot selection, session and login, and
// object search. Exactly one slot and exactly one object must match;
// anything else fails. On a failure after the session was opened, the
// session is closed before returning.
func (r *Resolver) Resolve(u *uri.Pkcs11Uri) (*Result, error) {
	defer metricskey.PerfResolution.MeasureSince(time.Now(), "resolve")

	slotID, err := r.selectSlot(&u.Path)
	if err != nil {
		return nil, err
	}

	session, err := r.mod.OpenSession(slotID, pkcs11.CKF_SERIAL_SESSION|pkcs11.CKF_RW_SESSION)
	if err != nil {
		return nil, moduleCall("OpenSession", err)
	}

	object, err := r.findObject(session, u)
	if err != nil {
		if cerr := r.mod.CloseSession(session); cerr != nil {
			logger.Warningf("reason=CloseSession, slot=%d, err=[%v]", slotID, cerr)
		}
		return nil, err
	}

	logger.KV(xlog.DEBUG, "slot", slotID, "object", object, "uri", u.Sanitized())
	return &Result{
		Module:  r.mod,
		Session: session,
		Object:  object,
	}, nil
}

// selectSlot returns the single slot satisfying the URI constraints.
func (r *Resolver) selectSlot(p *uri.PathAttributes) (uint, error) {
	ok, err := r.matchLibrary(p)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.WithMessage(ErrNoSlot, "library does not match")
	}

	slots, err := r.mod.ListSlots(true)
	if err != nil {
		return 0, moduleCall("GetSlotList", err)
	}

	var matched []uint
	for _, slotID := range slots {
		ok, err := r.matchSlot(slotID, p)
		if err != nil {
			return 0, err
		}
		if ok {
			matched = append(matched, slotID)
		}
	}

	switch {
	case len(matched) == 0:
		return 0, errors.WithMessagef(ErrNoSlot, "%d slots with token present", len(slots))
	case len(matched) > 1:
		return 0, errors.WithMessagef(ErrAmbiguousSlot, "slots %v", matched)
	}
	return matched[0], nil
}

// matchLibrary applies the library-* constraints against CK_INFO.
func (r *Resolver) matchLibrary(p *uri.PathAttributes) (bool, error) {
	if p.LibraryDescription == nil && p.LibraryManufacturer == nil && p.LibraryVersion == nil {
		return true, nil
	}
	info, err := r.mod.Info()
	if err != nil {
		return false, moduleCall("GetInfo", err)
	}
	if p.LibraryDescription != nil && *p.LibraryDescription != info.Description {
		return false, nil
	}
	if p.LibraryManufacturer != nil && *p.LibraryManufacturer != info.Manufacturer {
		return false, nil
	}
	if p.LibraryVersion != nil &&
		(p.LibraryVersion.Major != info.Major || p.LibraryVersion.Minor != info.Minor) {
		return false, nil
	}
	return true, nil
}

// matchSlot applies the slot and token constraints from the URI path.
// A specified slot-id must equal the candidate slot.
func (r *Resolver) matchSlot(slotID uint, p *uri.PathAttributes) (bool, error) {
	if p.SlotID != nil && *p.SlotID != slotID {
		return false, nil
	}

	if p.SlotDescription != nil || p.SlotManufacturer != nil {
		si, err := r.mod.SlotInfo(slotID)
		if err != nil {
			return false, moduleCall("GetSlotInfo", err)
		}
		if p.SlotDescription != nil && *p.SlotDescription != si.Description {
			return false, nil
		}
		if p.SlotManufacturer != nil && *p.SlotManufacturer != si.Manufacturer {
			return false, nil
		}
	}

	if p.TokenManufacturer != nil || p.TokenModel != nil || p.TokenLabel != nil || p.TokenSerial != nil {
		ti, err := r.mod.TokenInfo(slotID)
		if err != nil {
			return false, moduleCall("GetTokenInfo", err)
		}
		if p.TokenManufacturer != nil && *p.TokenManufacturer != ti.Manufacturer {
			return false, nil
		}
		if p.TokenModel != nil && *p.TokenModel != ti.Model {
			return false, nil
		}
		if p.TokenLabel != nil && *p.TokenLabel != ti.Label {
			return false, nil
		}
		if p.TokenSerial != nil {
			// serials compare in fixed blank-padded form
			serial, err := uri.BlankPadSerial([]byte(ti.Serial))
			if err != nil || *p.TokenSerial != serial {
				return false, nil
			}
		}
	}

	return true, nil
}

// findObject logs in when the URI carries PIN material and searches
// for the single matching object.
func (r *Resolver) findObject(session pkcs11.SessionHandle, u *uri.Pkcs11Uri) (pkcs11.ObjectHandle, error) {
	pin, login, err := resolvePin(&u.Query, r.secrets)
	if err != nil {
		return 0, errors.Mark(err, ErrLoginFailed)
	}
	if login {
		if err := r.mod.Login(session, pkcs11.CKU_USER, pin); err != nil {
			return 0, errors.Mark(err, ErrLoginFailed)
		}
	}

	handles, err := r.mod.FindObjects(session, searchTemplate(&u.Path), maxObjects)
	if err != nil {
		return 0, moduleCall("FindObjects", err)
	}
	switch {
	case len(handles) == 0:
		return 0, errors.WithMessagef(ErrNoObject, "uri %q", u.Sanitized())
	case len(handles) > 1:
		return 0, errors.WithMessagef(ErrAmbiguousObject, "%d objects matched %q", len(handles), u.Sanitized())
	}
	return handles[0], nil
}

// searchTemplate builds the FindObjects template from whichever object
// attributes the URI carries. An empty template matches every object.
func searchTemplate(p *uri.PathAttributes) []*pkcs11.Attribute {
	var template []*pkcs11.Attribute
	if p.ObjectLabel != nil {
		template = append(template, pkcs11.NewAttribute(pkcs11.CKA_LABEL, *p.ObjectLabel))
	}
	if p.ObjectID != nil {
		template = append(template, pkcs11.NewAttribute(pkcs11.CKA_ID, p.ObjectID))
	}
	if p.ObjectClass != nil {
		template = append(template, pkcs11.NewAttribute(pkcs11.CKA_CLASS, ckObjectClasses[*p.ObjectClass]))
	}
	return template
}

// OpenModule loads the PKCS#11 library the URI names via module-path
// or module-name. The caller owns the returned library.
func OpenModule(q *uri.QueryAttributes, cfg *p11.ModuleConfig) (*p11.Lib, error) {
	switch {
	case q.ModulePath != nil:
		return p11.Load(*q.ModulePath)
	case q.ModuleName != nil:
		path, err := cfg.Locate(*q.ModuleName)
		if err != nil {
			return nil, err
		}
		return p11.Load(path)
	}
	return nil, errors.New("URI names no module: use module-path or module-name")
}
