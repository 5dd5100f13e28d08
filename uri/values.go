package uri

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is the "library-version" attribute in "M.N" form. A dotless
// value sets the major version only, with minor 0.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func parseVersion(value string) (Version, error) {
	major, minor, dotted := strings.Cut(value, ".")

	m, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, errors.Errorf("invalid version: %q", value)
	}
	ver := Version{Major: uint8(m)}
	if dotted {
		n, err := strconv.ParseUint(minor, 10, 8)
		if err != nil {
			return Version{}, errors.Errorf("invalid version: %q", value)
		}
		ver.Minor = uint8(n)
	}
	return ver, nil
}

// parseSlotID accepts decimal only; hex, signs and overflow all fail.
func parseSlotID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, strconv.IntSize)
	if err != nil {
		return 0, errors.Errorf("invalid slot-id: %q", value)
	}
	return uint(id), nil
}

// SerialLen is the fixed size of the CK_TOKEN_INFO serialNumber field.
const SerialLen = 16

// Serial is a token serial number in its fixed CK_TOKEN_INFO form:
// blank-padded to 16 bytes, never null-terminated.
type Serial [SerialLen]byte

func (s Serial) String() string {
	return strings.TrimRight(string(s[:]), " ")
}

// MarshalText returns the serial with the blank padding removed.
func (s Serial) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BlankPadSerial converts a reported serial number to its fixed
// blank-padded form. Fails when the input exceeds 16 bytes.
func BlankPadSerial(b []byte) (Serial, error) {
	var s Serial
	if len(b) > SerialLen {
		return s, errors.Errorf("serial number exceeds %d bytes: %q", SerialLen, b)
	}
	copy(s[:], b)
	for i := len(b); i < SerialLen; i++ {
		s[i] = ' '
	}
	return s, nil
}

func parseSerial(value string) (Serial, error) {
	b, err := decodeBytes(value)
	if err != nil {
		return Serial{}, err
	}
	return BlankPadSerial(b)
}

// ObjectClass identifies the PKCS#11 object class addressed by the
// "type" path attribute.
type ObjectClass int

// Object classes addressable via RFC 7512.
const (
	Certificate ObjectClass = iota
	Data
	PrivateKey
	PublicKey
	SecretKey
)

// ObjectClasses maps the RFC 7512 "type" tokens to object classes.
var ObjectClasses = map[string]ObjectClass{
	"cert":       Certificate,
	"data":       Data,
	"private":    PrivateKey,
	"public":     PublicKey,
	"secret-key": SecretKey,
}

// ObjectClassNames provides map of names
var ObjectClassNames = map[ObjectClass]string{
	Certificate: "cert",
	Data:        "data",
	PrivateKey:  "private",
	PublicKey:   "public",
	SecretKey:   "secret-key",
}

func (c ObjectClass) String() string {
	return ObjectClassNames[c]
}

func parseObjectClass(value string) (ObjectClass, error) {
	c, ok := ObjectClasses[value]
	if !ok {
		return 0, errors.Errorf("unknown object type: %q", value)
	}
	return c, nil
}
