// Package resolver turns a parsed PKCS#11 URI into a live object
// handle: it enumerates slots with a token present, applies the URI's
// slot and token constraints, opens a session on the single matching
// slot, resolves and applies the PIN, and searches for the single
// matching object.
//
// The match policy is strict: zero or multiple matching slots or
// objects abort the resolution. A locator that silently picks one of
// several keys is how the wrong key gets used.
//
// Ownership of the opened session transfers to the caller only on full
// success; on any later failure the resolver closes the session before
// returning.
package resolver
