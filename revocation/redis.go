package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps Redis transport failures so callers can treat the
// registry backend as a single failure domain.
var ErrUnavailable = errors.New("revocation backend unavailable")

// Redis is a Registry backed by a Redis keyspace. Each revoked token ID is
// a key whose TTL matches the token's remaining lifetime, so eviction is
// delegated to Redis expiry and Sweep is a no-op.
type Redis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedis returns a registry writing under prefix (defaults to "gk:rvk").
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "gk:rvk"
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) key(tokenID string) string {
	return r.prefix + ":" + tokenID
}

// Revoke implements Registry.
func (r *Redis) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// The token already fails expiry validation on its own.
		return nil
	}

	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsRevoked implements Registry.
func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}

// Sweep implements Registry. Redis evicts expired keys itself.
func (r *Redis) Sweep(time.Time) int {
	return 0
}
