// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/adminportal/internal/platform/constants"
)

// RedisRevocationStore implements [RevocationStore] using Redis keys that
// expire together with the token they revoke.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRevocationStore creates a new Redis-backed [RevocationStore].
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func revokedKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

/*
Revoke stores tokenID for ttl.

Parameters:
  - ctx: context.Context
  - tokenID: the token's jti claim
  - ttl: remaining lifetime of the token

Returns:
  - error: Execution errors
*/
func (store *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := store.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoke_token_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (store *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := store.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revoked_token_lookup_failed: %w", err)
	}
	return count > 0, nil
}
