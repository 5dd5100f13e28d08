// Package p11 provides the PKCS#11 module surface consumed by the
// resolver: slot and token enumeration, sessions, login and object
// search over github.com/miekg/pkcs11.
//
// The Module interface is deliberately narrow. *Lib implements it over
// a loaded cryptographic library; tests substitute fakes. The package
// also locates libraries by name through ModuleConfig, so URIs can say
// module-name=softhsm2 instead of carrying a full path.
package p11
