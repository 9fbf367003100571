package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipstash/authcore/password"
)

// PasswordVerifier is the default [CredentialVerifier]: it looks up the user
// through a [UserProvider] and checks the raw password against the stored
// argon2id hash.
type PasswordVerifier struct {
	provider UserProvider
	hasher   *password.Hasher
}

// NewPasswordVerifier wires a provider and hasher into a verifier.
func NewPasswordVerifier(provider UserProvider, hasher *password.Hasher) (*PasswordVerifier, error) {
	if provider == nil {
		return nil, errors.New("user provider required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher required")
	}
	return &PasswordVerifier{provider: provider, hasher: hasher}, nil
}

// Verify resolves identifier and raw password to an identity. An unknown
// identifier and a wrong password are indistinguishable to the caller; both
// come back as [ErrInvalidCredentials]. Provider backend failures wrap
// [ErrStoreUnavailable].
func (v *PasswordVerifier) Verify(ctx context.Context, identifier, raw string) (string, error) {
	user, err := v.provider.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := v.hasher.Verify(raw, user.PasswordHash)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	return user.ID, nil
}
