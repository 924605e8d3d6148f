package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sport-analytics/internal/domain"
	"github.com/spec-kit/sport-analytics/internal/identity"
)

func newCacheHarness(t *testing.T, next Verifier) (*CachedVerifier, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCachedVerifier(next, rdb, 30*time.Second, zap.NewNop()), mr
}

func TestCachedVerifier_CachesSuccess(t *testing.T) {
	inner := acceptAs("42")
	cache, mr := newCacheHarness(t, inner)

	for i := 0; i < 3; i++ {
		user, err := cache.Verify(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("42"), user.ID)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], cacheKeyPrefix))
	assert.NotContains(t, keys[0], "abc123")
	assert.Equal(t, 30*time.Second, mr.TTL(keys[0]))

	mr.FastForward(31 * time.Second)
	_, err := cache.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedVerifier_NeverCachesFailure(t *testing.T) {
	inner := rejectWith(&identity.HTTPError{StatusCode: 401})
	cache, mr := newCacheHarness(t, inner)

	for i := 0; i < 2; i++ {
		_, err := cache.Verify(context.Background(), "stale")
		assert.True(t, identity.IsStatus(err, 401))
	}
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Empty(t, mr.Keys())
}

func TestCachedVerifier_DistinctTokens(t *testing.T) {
	cache, mr := newCacheHarness(t, acceptAs("42"))

	_, err := cache.Verify(context.Background(), "token-a")
	require.NoError(t, err)
	_, err = cache.Verify(context.Background(), "token-b")
	require.NoError(t, err)

	assert.Len(t, mr.Keys(), 2)
	assert.NotEqual(t, cacheKey("token-a"), cacheKey("token-b"))
}

func TestCachedVerifier_RedisFailureFallsThrough(t *testing.T) {
	inner := acceptAs("42")
	cache, mr := newCacheHarness(t, inner)
	mr.SetError("ERR cache unavailable")

	user, err := cache.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("42"), user.ID)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedVerifier_CorruptEntryIgnored(t *testing.T) {
	inner := acceptAs("42")
	cache, mr := newCacheHarness(t, inner)
	require.NoError(t, mr.Set(cacheKey("abc123"), "{not json"))

	user, err := cache.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("42"), user.ID)
	assert.Equal(t, int32(1), inner.calls.Load())

	raw, err := mr.Get(cacheKey("abc123"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"42"}`, raw)
}

func TestCachedVerifier_InGuard(t *testing.T) {
	inner := acceptAs("42")
	cache, _ := newCacheHarness(t, inner)
	g := newTestGuard(cache)

	for i := 0; i < 2; i++ {
		d, err := g.Evaluate(context.Background(), withToken("/dashboard", "abc123"))
		require.NoError(t, err)
		assert.Equal(t, ActionPassThroughWithCookies, d.Action)
		assert.Equal(t, []Cookie{{Name: "x-user-id", Value: "42"}}, d.SetCookies)
	}
	assert.Equal(t, int32(1), inner.calls.Load())
}
