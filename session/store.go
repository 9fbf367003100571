package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no record exists for the identity.
var ErrNotFound = errors.New("session record not found")

// ErrRefreshMismatch is returned by Rotate when the presented token hash does
// not equal the stored one (an already-rotated token was replayed).
var ErrRefreshMismatch = errors.New("refresh token mismatch")

// ErrRedisUnavailable wraps transport-level Redis failures so callers can
// distinguish "deny" from "retry later".
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	fieldRefreshHash  = "rh"
	fieldLastIssuedAt = "lia"
)

const (
	rotateStatusNotFound int64 = 0
	rotateStatusMismatch int64 = 1
	rotateStatusRotated  int64 = 2
)

// rotateRefreshScript performs the read-compare-swap of a refresh rotation in
// a single atomic step. It mutates the record only on an exact hash match;
// a mismatch leaves the current session untouched so the legitimate holder
// of the rotated token is not locked out by a replay attempt.
const rotateRefreshScript = `
local stored = redis.call("HGET", KEYS[1], "rh")
if not stored then
  return {0}
end
if stored ~= ARGV[1] then
  return {1}
end
redis.call("HSET", KEYS[1], "rh", ARGV[2], "lia", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return {2}
`

var rotateRefreshLua = redis.NewScript(rotateRefreshScript)

// Store is a Redis-backed session record store. One record per identity;
// records expire with the refresh-token TTL.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets
// the Redis key namespace.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(identity string) string {
	return s.prefix + ":" + identity
}

// Save persists rec with the given TTL, unconditionally overwriting any
// prior record for the identity. Last write wins; no merge semantics.
//
//	Performance: 2 Redis commands in one transaction (HSET + PEXPIRE).
func (s *Store) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	key := s.key(rec.Identity)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldRefreshHash, string(rec.RefreshHash[:]),
			fieldLastIssuedAt, rec.LastIssuedAt,
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves the record for identity, or [ErrNotFound] when no session is
// active.
//
//	Performance: 1 Redis HGETALL.
func (s *Store) Get(ctx context.Context, identity string) (*Record, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(identity)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	hash, ok := fields[fieldRefreshHash]
	if !ok || len(hash) != 32 {
		return nil, fmt.Errorf("corrupt session record for %q", identity)
	}

	rec := &Record{Identity: identity}
	copy(rec.RefreshHash[:], hash)
	if raw, ok := fields[fieldLastIssuedAt]; ok {
		rec.LastIssuedAt, _ = strconv.ParseInt(raw, 10, 64)
	}

	return rec, nil
}

// Delete removes the record for identity. Deleting an absent record is not
// an error; Delete is idempotent.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, identity string) error {
	if err := s.redis.Del(ctx, s.key(identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Rotate atomically swaps the stored refresh hash from providedHash to
// nextHash and resets the record TTL. It returns [ErrNotFound] when no
// record exists and [ErrRefreshMismatch] when providedHash does not equal
// the stored hash; in both cases nothing is mutated. The compare and the
// swap execute as one Redis script, so concurrent rotations for the same
// identity serialize and exactly one presenting the current token wins.
func (s *Store) Rotate(
	ctx context.Context,
	identity string,
	providedHash [32]byte,
	nextHash [32]byte,
	lastIssuedAt int64,
	ttl time.Duration,
) error {
	res, err := rotateRefreshLua.Run(ctx, s.redis,
		[]string{s.key(identity)},
		string(providedHash[:]),
		string(nextHash[:]),
		lastIssuedAt,
		ttl.Milliseconds(),
	).Slice()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(res) == 0 {
		return fmt.Errorf("%w: empty rotate script reply", ErrRedisUnavailable)
	}

	status, ok := res[0].(int64)
	if !ok {
		return fmt.Errorf("%w: unexpected rotate script reply %T", ErrRedisUnavailable, res[0])
	}

	switch status {
	case rotateStatusRotated:
		return nil
	case rotateStatusNotFound:
		return ErrNotFound
	case rotateStatusMismatch:
		return ErrRefreshMismatch
	default:
		return fmt.Errorf("%w: unknown rotate status %d", ErrRedisUnavailable, status)
	}
}
