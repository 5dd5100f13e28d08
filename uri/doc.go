// Package uri implements the RFC 7512 "pkcs11" URI scheme for locating
// keys, certificates and data objects on PKCS#11 cryptographic tokens.
//
// A parsed URI carries two attribute sets: path attributes narrowing
// down the library, slot, token and object, and query attributes
// carrying the PIN source and the module to load. Every attribute may
// appear at most once; unknown attributes are rejected rather than
// ignored, so a URI never silently addresses the wrong object.
//
// Parsed values are immutable and safe to share across goroutines.
package uri
