// Package authcore implements the session token lifecycle for a media-sharing
// backend: issuing, verifying, and rotating a paired access/refresh credential
// per user identity, with replay detection on refresh-token rotation.
//
// The package is designed for concurrent server workloads: Service methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Service], [Builder], [Config],
// the error taxonomy, and the cookie helpers. Token signing lives in token/,
// Redis persistence in session/, argon2id hashing in password/; none of them
// import authcore back.
//
// # Error taxonomy
//
// Every Service failure satisfies errors.Is against exactly one of
// [ErrInvalidCredentials], [ErrUnauthorized], [ErrStoreUnavailable], or
// [ErrInternal]. No token/ or session/ error values cross the Service
// boundary.
//
// # Single active session
//
// Each identity holds at most one live refresh token. Login overwrites the
// prior record; refresh rotates it atomically; replaying a rotated token
// fails with [ErrRefreshReuse].
package authcore
