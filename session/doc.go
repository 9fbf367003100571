// Package session provides Redis-backed persistence for the single active
// refresh-token record kept per identity.
//
// A [Record] holds the SHA-256 of the currently valid refresh token, never
// the token itself. Login overwrites the record unconditionally (last write
// wins, the single-active-session semantic); rotation goes through
// [Store.Rotate], a compare-and-swap Lua script that is atomic per identity,
// so two concurrent refresh calls presenting the same token can never both
// succeed.
//
// # Architecture boundaries
//
// This package owns Redis operations and the record model. It does NOT
// interpret JWTs or decide authentication policy; those responsibilities
// belong to the Service in the root package.
//
// # What this package must NOT do
//
//   - Import authcore or token (no upward imports).
//   - Store plaintext refresh tokens.
package session
