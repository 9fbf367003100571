package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/clipstash/authcore/session"
	"github.com/clipstash/authcore/token"
)

// Service orchestrates the token lifecycle: login, refresh rotation, logout,
// and stateless access-token authentication. Construct it through
// [Builder.Build]; a Service is immutable and safe for concurrent use
// afterwards.
type Service struct {
	config   Config
	codec    *token.Codec
	sessions *session.Store
	verifier CredentialVerifier
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher. Safe to call more than once.
func (s *Service) Close() {
	if s == nil {
		return
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped because the
// buffer was full.
func (s *Service) AuditDropped() uint64 {
	if s == nil {
		return 0
	}
	return s.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (s *Service) MetricsSnapshot() map[MetricID]uint64 {
	if s == nil {
		return map[MetricID]uint64{}
	}
	return s.metrics.Snapshot()
}

func (s *Service) metricInc(id MetricID) {
	if s == nil {
		return
	}
	s.metrics.Inc(id)
}

// Login verifies the credentials, mints a fresh access/refresh pair, and
// persists the refresh token as the identity's single active session,
// unconditionally overwriting any prior one. Exactly one store write on
// success; on any failure no token is returned and nothing is persisted.
//
// Failures: [ErrInvalidCredentials] for a bad identifier or password,
// [ErrStoreUnavailable] when the verifier backend or session store is down,
// [ErrInternal] on codec failure.
func (s *Service) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	if s == nil || s.verifier == nil {
		return nil, ErrServiceNotReady
	}
	if identifier == "" || password == "" {
		s.metricInc(MetricLoginFailure)
		s.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "empty_input",
			}
		})
		return nil, ErrInvalidCredentials
	}

	identity, err := s.verifier.Verify(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			s.metricInc(MetricStoreUnavailable)
			s.emitAudit(ctx, auditEventStoreUnavailable, false, "", ErrStoreUnavailable, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "credential_backend",
				}
			})
			return nil, ErrStoreUnavailable
		}
		s.metricInc(MetricLoginFailure)
		s.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
			}
		})
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	pair, err := s.issuePair(identity, now)
	if err != nil {
		s.metricInc(MetricLoginFailure)
		s.emitAudit(ctx, auditEventLoginFailure, false, identity, ErrInternal, func() map[string]string {
			return map[string]string{
				"reason": "issue_pair_failed",
			}
		})
		return nil, ErrInternal
	}

	rec := &session.Record{
		Identity:     identity,
		RefreshHash:  session.HashToken(pair.RefreshToken),
		LastIssuedAt: now.Unix(),
	}
	if err := s.sessions.Save(ctx, rec, s.config.Token.RefreshTTL); err != nil {
		s.metricInc(MetricStoreUnavailable)
		s.metricInc(MetricLoginFailure)
		s.emitAudit(ctx, auditEventStoreUnavailable, false, identity, ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "session_save_failed",
			}
		})
		return nil, ErrStoreUnavailable
	}

	s.metricInc(MetricSessionCreated)
	s.metricInc(MetricLoginSuccess)
	s.emitAudit(ctx, auditEventLoginSuccess, true, identity, nil, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
		}
	})

	return pair, nil
}

// Refresh exchanges a presented refresh token for a fresh access/refresh
// pair, rotating the stored record atomically. The presented token must be
// byte-equal to the stored one; an already-rotated token fails with
// [ErrRefreshReuse] while the current session stays valid. The old token is
// permanently invalid the instant rotation succeeds, even though its expiry
// has not passed.
//
// Failures: [ErrTokenInvalid] when the token does not verify as a refresh
// token, [ErrSessionNotFound] when no session exists, [ErrRefreshReuse] on
// replay, [ErrStoreUnavailable] when persistence is down (prior state left
// intact), [ErrInternal] on codec failure. All but StoreUnavailable and
// Internal satisfy errors.Is against [ErrUnauthorized].
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if s == nil || s.codec == nil {
		return nil, ErrServiceNotReady
	}

	claims, err := s.codec.Verify(presented, token.PurposeRefresh)
	if err != nil {
		s.metricInc(MetricRefreshFailure)
		s.emitAudit(ctx, auditEventRefreshInvalid, false, "", ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": verifyFailureReason(err),
			}
		})
		return nil, ErrTokenInvalid
	}
	identity := claims.Identity()

	now := time.Now()
	pair, err := s.issuePair(identity, now)
	if err != nil {
		s.metricInc(MetricRefreshFailure)
		s.emitAudit(ctx, auditEventRefreshInvalid, false, identity, ErrInternal, func() map[string]string {
			return map[string]string{
				"reason": "issue_pair_failed",
			}
		})
		return nil, ErrInternal
	}

	err = s.sessions.Rotate(
		ctx,
		identity,
		session.HashToken(presented),
		session.HashToken(pair.RefreshToken),
		now.Unix(),
		s.config.Token.RefreshTTL,
	)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRefreshMismatch):
			s.metricInc(MetricRefreshReuseDetected)
			s.metricInc(MetricRefreshFailure)
			s.emitAudit(ctx, auditEventRefreshReuseDetected, false, identity, ErrRefreshReuse, nil)
			return nil, ErrRefreshReuse
		case errors.Is(err, session.ErrNotFound):
			s.metricInc(MetricRefreshFailure)
			s.emitAudit(ctx, auditEventRefreshInvalid, false, identity, ErrSessionNotFound, func() map[string]string {
				return map[string]string{
					"reason": "session_not_found",
				}
			})
			return nil, ErrSessionNotFound
		default:
			s.metricInc(MetricStoreUnavailable)
			s.metricInc(MetricRefreshFailure)
			s.emitAudit(ctx, auditEventStoreUnavailable, false, identity, ErrStoreUnavailable, func() map[string]string {
				return map[string]string{
					"reason": "rotate_failed",
				}
			})
			return nil, ErrStoreUnavailable
		}
	}

	s.metricInc(MetricSessionRotated)
	s.metricInc(MetricRefreshSuccess)
	s.emitAudit(ctx, auditEventRefreshSuccess, true, identity, nil, nil)

	return pair, nil
}

// Logout clears the identity's session record. Idempotent: logging out an
// identity with no active session succeeds. Only a persistence failure is
// reported, as [ErrStoreUnavailable].
func (s *Service) Logout(ctx context.Context, identity string) error {
	if s == nil || s.sessions == nil {
		return ErrServiceNotReady
	}

	if err := s.sessions.Delete(ctx, identity); err != nil {
		s.metricInc(MetricStoreUnavailable)
		s.emitAudit(ctx, auditEventStoreUnavailable, false, identity, ErrStoreUnavailable, func() map[string]string {
			return map[string]string{
				"reason": "session_delete_failed",
			}
		})
		return ErrStoreUnavailable
	}

	s.metricInc(MetricLogout)
	s.emitAudit(ctx, auditEventLogout, true, identity, nil, nil)
	return nil
}

// Authenticate verifies an access token and returns the identity it was
// issued for. Stateless: no store round-trip. A refresh token is never
// accepted here, regardless of validity.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (string, error) {
	if s == nil || s.codec == nil {
		return "", ErrServiceNotReady
	}

	claims, err := s.codec.Verify(accessToken, token.PurposeAccess)
	if err != nil {
		return "", ErrTokenInvalid
	}

	return claims.Identity(), nil
}

func (s *Service) issuePair(identity string, now time.Time) (*TokenPair, error) {
	access, err := s.codec.Issue(identity, token.PurposeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(identity, token.PurposeRefresh, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, token.ErrPurposeMismatch):
		return "purpose_mismatch"
	default:
		return "malformed"
	}
}
