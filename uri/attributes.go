package uri

import (
	"strings"

	"github.com/pkg/errors"
)

// PathAttributes are the attributes carried in the URI path component.
// A nil field means the attribute was absent.
type PathAttributes struct {
	LibraryDescription  *string
	LibraryManufacturer *string
	LibraryVersion      *Version
	SlotDescription     *string
	SlotID              *uint
	SlotManufacturer    *string
	TokenManufacturer   *string
	TokenModel          *string
	TokenLabel          *string
	TokenSerial         *Serial
	ObjectClass         *ObjectClass
	ObjectID            []byte
	ObjectLabel         *string
}

// QueryAttributes are the attributes carried in the URI query
// component. A nil field means the attribute was absent.
type QueryAttributes struct {
	PinSource  *string
	PinValue   *string
	ModuleName *string
	ModulePath *string
}

// pathAttributes maps RFC 7512 path attribute names to their typed
// setters. Plain runtime data: the parse loop below is the only logic.
var pathAttributes = map[string]func(*PathAttributes, string) error{
	"library-description": func(a *PathAttributes, v string) (err error) {
		a.LibraryDescription, err = decodeStringPtr(v)
		return err
	},
	"library-manufacturer": func(a *PathAttributes, v string) (err error) {
		a.LibraryManufacturer, err = decodeStringPtr(v)
		return err
	},
	"library-version": func(a *PathAttributes, v string) error {
		ver, err := parseVersion(v)
		if err != nil {
			return err
		}
		a.LibraryVersion = &ver
		return nil
	},
	"slot-description": func(a *PathAttributes, v string) (err error) {
		a.SlotDescription, err = decodeStringPtr(v)
		return err
	},
	"slot-id": func(a *PathAttributes, v string) error {
		id, err := parseSlotID(v)
		if err != nil {
			return err
		}
		a.SlotID = &id
		return nil
	},
	"slot-manufacturer": func(a *PathAttributes, v string) (err error) {
		a.SlotManufacturer, err = decodeStringPtr(v)
		return err
	},
	"manufacturer": func(a *PathAttributes, v string) (err error) {
		a.TokenManufacturer, err = decodeStringPtr(v)
		return err
	},
	"model": func(a *PathAttributes, v string) (err error) {
		a.TokenModel, err = decodeStringPtr(v)
		return err
	},
	"token": func(a *PathAttributes, v string) (err error) {
		a.TokenLabel, err = decodeStringPtr(v)
		return err
	},
	"serial": func(a *PathAttributes, v string) error {
		serial, err := parseSerial(v)
		if err != nil {
			return err
		}
		a.TokenSerial = &serial
		return nil
	},
	"type": func(a *PathAttributes, v string) error {
		class, err := parseObjectClass(v)
		if err != nil {
			return err
		}
		a.ObjectClass = &class
		return nil
	},
	"id": func(a *PathAttributes, v string) error {
		b, err := decodeBytes(v)
		if err != nil {
			return err
		}
		a.ObjectID = b
		return nil
	},
	"object": func(a *PathAttributes, v string) (err error) {
		a.ObjectLabel, err = decodeStringPtr(v)
		return err
	},
}

var queryAttributes = map[string]func(*QueryAttributes, string) error{
	"pin-source": func(a *QueryAttributes, v string) (err error) {
		a.PinSource, err = decodeStringPtr(v)
		return err
	},
	"pin-value": func(a *QueryAttributes, v string) (err error) {
		a.PinValue, err = decodeStringPtr(v)
		return err
	},
	"module-name": func(a *QueryAttributes, v string) (err error) {
		a.ModuleName, err = decodeStringPtr(v)
		return err
	},
	"module-path": func(a *QueryAttributes, v string) (err error) {
		a.ModulePath, err = decodeStringPtr(v)
		return err
	},
}

// parseAttributes splits input on delim into key=value components and
// applies the table entry for each key. An empty input carries zero
// attributes. Every component must carry '=', every key is allowed at
// most once.
func parseAttributes[T any](input, delim string, table map[string]func(*T, string) error) (*T, error) {
	attrs := new(T)
	if input == "" {
		return attrs, nil
	}

	seen := make(map[string]bool, 4)
	for _, component := range strings.Split(input, delim) {
		key, value, ok := strings.Cut(component, "=")
		if !ok {
			return nil, errors.WithMessagef(ErrMalformedURI, "attribute without '=': %q", component)
		}
		set, ok := table[key]
		if !ok {
			return nil, &UnknownAttributeError{Key: key}
		}
		if seen[key] {
			return nil, &DuplicateAttributeError{Key: key}
		}
		seen[key] = true

		if err := set(attrs, value); err != nil {
			return nil, &InvalidValueError{Key: key, Value: value, err: err}
		}
	}
	return attrs, nil
}
