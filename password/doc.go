// Package password implements argon2id password hashing in PHC string format
// for the default credential verifier.
//
// The Service never calls this package directly; it consumes the
// CredentialVerifier interface, so integrations with an existing user store
// can substitute any verification scheme.
package password
