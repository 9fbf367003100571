package token

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose tags a token as either an access or a refresh credential.
// Verification rejects any token whose purpose does not match the expected
// one, even when the token is otherwise valid and unexpired.
type Purpose string

const (
	// PurposeAccess marks a short-lived, stateless request credential.
	PurposeAccess Purpose = "access"
	// PurposeRefresh marks a long-lived credential that must match the
	// server-side session record.
	PurposeRefresh Purpose = "refresh"
)

// SigningMethod selects the signature algorithm for issued tokens.
type SigningMethod string

const (
	// MethodEd25519 signs with Ed25519 (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with HMAC-SHA256.
	MethodHS256 SigningMethod = "hs256"
)

// Verification failures. Verify returns exactly one of these; callers
// classify them into their own taxonomy.
var (
	// ErrMalformed indicates a structurally invalid token.
	ErrMalformed = errors.New("token malformed")
	// ErrSignatureInvalid indicates a failed signature check.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrExpired indicates the token's validity window has passed or not begun.
	ErrExpired = errors.New("token expired")
	// ErrPurposeMismatch indicates a valid token presented for the wrong purpose.
	ErrPurposeMismatch = errors.New("token purpose mismatch")
)

// Config carries the signing key material and validity windows for a [Codec].
// Keys are injected explicitly; the codec never reads ambient state.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// Claims is the decoded payload of an issued token: identity (sub), validity
// window (iat/exp), purpose tag, and a unique token ID (jti).
type Claims struct {
	Purpose Purpose `json:"pur"`
	jwt.RegisteredClaims
}

// Identity returns the identity the token was issued for.
func (c *Claims) Identity() string {
	return c.Subject
}

// Codec signs and verifies the token pair. A Codec is immutable after
// construction and safe for concurrent use.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a ready [Codec].
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Codec{config: cfg}, nil
}

// TTL returns the validity window the codec applies to tokens of the given
// purpose.
func (c *Codec) TTL(purpose Purpose) time.Duration {
	if purpose == PurposeRefresh {
		return c.config.RefreshTTL
	}
	return c.config.AccessTTL
}

// Issue mints a signed token for identity with the given purpose. Claims are
// deterministic given identity, purpose, and now, except for the jti, which
// is a fresh UUID so two tokens minted within the same second are never
// byte-equal. Issue has no side effects.
func (c *Codec) Issue(identity string, purpose Purpose, now time.Time) (string, error) {
	if identity == "" {
		return "", errors.New("empty identity")
	}
	switch purpose {
	case PurposeAccess, PurposeRefresh:
	default:
		return "", errors.New("unknown token purpose")
	}

	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(purpose))),
			Issuer:    c.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(c.getMethod(), claims)

	signKey, err := c.getSignKey()
	if err != nil {
		return "", err
	}

	return tok.SignedString(signKey)
}

// Verify decodes value, checks its signature and validity window, and
// enforces that its purpose tag equals expected. On failure it returns one
// of [ErrMalformed], [ErrSignatureInvalid], [ErrExpired], or
// [ErrPurposeMismatch].
func (c *Codec) Verify(value string, expected Purpose) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.getMethod().Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(value, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.getVerifyKey()
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}
	if claims.Purpose != expected {
		return nil, ErrPurposeMismatch
	}

	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrMalformed
	}
}

func (c *Codec) getMethod() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (c *Codec) getSignKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(c.config.PrivateKey)
	}
}

func (c *Codec) getVerifyKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodHS256:
		return c.config.PrivateKey, nil
	default:
		return parseEdPublicKey(c.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
