package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/clipstash/authcore/password"
	"github.com/clipstash/authcore/session"
	"github.com/clipstash/authcore/token"
)

// Builder assembles a [Service] step by step. Not safe for concurrent use;
// build once and share the resulting Service instead.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	provider UserProvider
	verifier CredentialVerifier
	sink     AuditSink
	built    bool
}

// New creates a Builder seeded with defaults. Signing keys and a Redis
// client still have to be supplied before Build.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Key material is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKeys sets the key material without replacing the rest of the
// configuration. For ed25519 both keys are required; for hs256 pass the
// shared secret as private and nil as public.
func (b *Builder) WithSigningKeys(privateKey, publicKey []byte) *Builder {
	b.config.Token.PrivateKey = cloneBytes(privateKey)
	b.config.Token.PublicKey = cloneBytes(publicKey)
	return b
}

// WithRedis sets the Redis client backing the session store. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the account lookup used by the default password
// verifier. Ignored when [Builder.WithCredentialVerifier] is also called.
func (b *Builder) WithUserProvider(provider UserProvider) *Builder {
	b.provider = provider
	return b
}

// WithCredentialVerifier injects a custom credential check, replacing the
// default argon2id password verifier entirely.
func (b *Builder) WithCredentialVerifier(verifier CredentialVerifier) *Builder {
	b.verifier = verifier
	return b
}

// WithAuditSink enables audit dispatch into sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and constructs the Service. A Builder
// can build only once.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.verifier == nil && b.provider == nil {
		return nil, errors.New("a credential verifier or user provider is required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Config{
		AccessTTL:     b.config.Token.AccessTTL,
		RefreshTTL:    b.config.Token.RefreshTTL,
		SigningMethod: token.SigningMethod(b.config.Token.SigningMethod),
		PrivateKey:    b.config.Token.PrivateKey,
		PublicKey:     b.config.Token.PublicKey,
		Issuer:        b.config.Token.Issuer,
		Leeway:        b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	verifier := b.verifier
	if verifier == nil {
		hasher, err := password.NewHasher(password.Config{
			Memory:      b.config.Password.Memory,
			Time:        b.config.Password.Time,
			Parallelism: b.config.Password.Parallelism,
			SaltLength:  b.config.Password.SaltLength,
			KeyLength:   b.config.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
		verifier, err = NewPasswordVerifier(b.provider, hasher)
		if err != nil {
			return nil, err
		}
	}

	svc := &Service{
		config:   b.config,
		codec:    codec,
		sessions: session.NewStore(b.redis, b.config.Session.RedisPrefix),
		verifier: verifier,
		audit:    newAuditDispatcher(b.config.Audit, b.sink),
		metrics:  NewMetrics(b.config.Metrics),
	}

	b.built = true
	return svc, nil
}
