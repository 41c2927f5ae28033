package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRevoke(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "tok-1", time.Hour))

	revoked, err = s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisStoreNoOps(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "", time.Hour))
	require.NoError(t, s.Revoke(ctx, "tok-1", 0))
	assert.Empty(t, mr.Keys())
}

func TestRedisStoreEntryExpires(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "tok-1", time.Minute))

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Minute + time.Second)

	revoked, err = s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreBackendDown(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	mr.Close()

	_, err := s.IsRevoked(ctx, "tok-1")
	assert.Error(t, err)
}
