package session

import "crypto/sha256"

// Record is the durable per-identity session state: the hash of the single
// currently valid refresh token and the time it was issued. Absence of a
// Record means "no active session", which is distinct from "refresh token
// present but expired or invalid".
type Record struct {
	Identity     string
	RefreshHash  [32]byte
	LastIssuedAt int64
}

// HashToken returns the SHA-256 digest of a refresh token value. The store
// compares digests; digest equality implies token byte-equality.
func HashToken(value string) [32]byte {
	return sha256.Sum256([]byte(value))
}
