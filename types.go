package authcore

import "context"

// TokenPair is returned by [Service.Login] and [Service.Refresh]. Both
// fields are always populated together; no operation issues one token alone.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserRecord is the minimal account record the default verifier needs:
// a stable identity, the login identifier, and the password hash.
// Everything else about a user is owned by the surrounding application.
type UserRecord struct {
	ID           string
	Identifier   string
	PasswordHash string
}

// UserProvider is the credential-lookup interface callers implement to
// integrate authcore with their user database. Implementations return
// [ErrUserNotFound] when no user matches; any other error is treated as a
// backend failure.
type UserProvider interface {
	GetUserByIdentifier(ctx context.Context, identifier string) (UserRecord, error)
}

// CredentialVerifier resolves a login identifier and raw password to an
// identity. The Service consumes only this interface; [PasswordVerifier] is
// the provided default, and integrations with an external identity system
// can substitute their own.
//
// Implementations return [ErrInvalidCredentials] (or any error the Service
// should report as such) for a bad identifier or password, and wrap
// [ErrStoreUnavailable] when the lookup backend fails.
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, password string) (string, error)
}
