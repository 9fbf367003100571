package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

// FuzzVerify asserts that Verify never panics and never returns an error
// outside the typed failure set, no matter the input bytes.
func FuzzVerify(f *testing.F) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		f.Fatalf("ed25519 key generation failed: %v", err)
	}
	codec, err := NewCodec(Config{
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		f.Fatalf("codec construction failed: %v", err)
	}

	valid, err := codec.Issue("fuzz-user", PurposeRefresh, time.Now())
	if err != nil {
		f.Fatalf("issue failed: %v", err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0..")

	f.Fuzz(func(t *testing.T, value string) {
		claims, err := codec.Verify(value, PurposeRefresh)
		if err == nil {
			if claims == nil || claims.Identity() == "" {
				t.Fatal("successful verify returned empty claims")
			}
			return
		}
		if !errors.Is(err, ErrMalformed) &&
			!errors.Is(err, ErrSignatureInvalid) &&
			!errors.Is(err, ErrExpired) &&
			!errors.Is(err, ErrPurposeMismatch) {
			t.Fatalf("untyped verify error: %v", err)
		}
	})
}
