package auth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/sport-analytics/internal/domain"
)

const cacheKeyPrefix = "guard:verified:"

// CachedVerifier remembers successful verifications in Redis for a short TTL. Failures are never
// cached, and any Redis error falls through to the wrapped verifier.
type CachedVerifier struct {
	next   Verifier
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedVerifier wraps next.
func NewCachedVerifier(next Verifier, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedVerifier{next: next, client: client, ttl: ttl, logger: logger}
}

// Verify serves from cache when possible.
func (v *CachedVerifier) Verify(ctx context.Context, token string) (*domain.VerifiedUser, error) {
	key := cacheKey(token)

	raw, err := v.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user domain.VerifiedUser
		if jsonErr := json.Unmarshal(raw, &user); jsonErr == nil && user.ID != "" {
			return &user, nil
		}
		v.logger.Warn("discarding unreadable verification cache entry")
	case errors.Is(err, redis.Nil):
	default:
		v.logger.Warn("verification cache read failed", zap.Error(err))
	}

	user, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return user, nil
	}
	if err := v.client.Set(ctx, key, data, v.ttl).Err(); err != nil {
		v.logger.Warn("verification cache write failed", zap.Error(err))
	}
	return user, nil
}

// cacheKey hashes the token so raw credentials never reach Redis.
func cacheKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
