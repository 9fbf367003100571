// Package token issues and verifies the signed access/refresh token pair used
// by the authentication service.
//
// Access and refresh tokens are structurally identical JWTs; they differ only
// in TTL and in the purpose claim. [Codec.Verify] enforces the purpose tag so
// a token of one kind is never accepted where the other is expected.
//
// # Architecture boundaries
//
// This package owns claim layout, signing, and verification. It does NOT
// persist anything, talk to Redis, or decide authentication policy; those
// responsibilities belong to the Service in the root package.
//
// # What this package must NOT do
//
//   - Import authcore or session (no upward imports).
//   - Read signing key material from the environment; keys arrive via [Config].
package token
