// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/adminportal/internal/users/auth"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRevocationStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := auth.NewRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("auth:revoked_token:jti-1"))
	assert.Equal(t, time.Hour, mr.TTL("auth:revoked_token:jti-1"))

	mr.FastForward(time.Hour)

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "the entry lives exactly as long as the token")
}

func TestRedisRevocationStore_ExpiredTokenIsNoOp(t *testing.T) {
	mr, client := newTestRedis(t)
	store := auth.NewRevocationStore(client)

	require.NoError(t, store.Revoke(context.Background(), "jti-2", 0))
	require.NoError(t, store.Revoke(context.Background(), "jti-3", -time.Minute))
	assert.Empty(t, mr.Keys())
}

func TestRedisRevocationStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store := auth.NewRevocationStore(client)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(context.Background(), "jti-1", time.Minute))
}
