package authcore

import (
	"errors"
	"fmt"
)

// Root taxonomy. Service methods return errors that match exactly one of
// these via errors.Is.
var (
	// ErrInvalidCredentials is returned by Login when the identifier or
	// password does not check out.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a presented token is invalid, expired,
	// replayed, mismatched, or no session exists. The caller should deny and
	// require a fresh login.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable is returned when the persistence layer fails. The
	// caller should retry later; no existing session state was mutated.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrInternal is returned on signing key misconfiguration or unexpected
	// codec failure.
	ErrInternal = errors.New("internal auth failure")
)

// Finer-grained outcomes. Each wraps its taxonomy root so errors.Is against
// the root always holds.
var (
	// ErrTokenInvalid covers malformed, tampered, expired, or wrong-purpose
	// tokens.
	ErrTokenInvalid = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	// ErrSessionNotFound is returned when no session record exists for the
	// identity a refresh token names.
	ErrSessionNotFound = fmt.Errorf("%w: no active session", ErrUnauthorized)
	// ErrRefreshReuse is returned when an already-rotated refresh token is
	// replayed. The current session stays valid.
	ErrRefreshReuse = fmt.Errorf("%w: refresh token reuse detected", ErrUnauthorized)
)

// ErrUserNotFound is returned by [UserProvider] implementations when no user
// matches the identifier. Login reports it as [ErrInvalidCredentials].
var ErrUserNotFound = errors.New("user not found")

// ErrServiceNotReady is returned when a Service is used before Build
// completed.
var ErrServiceNotReady = errors.New("service not initialized")
