// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/adminportal/internal/users/account"
)

// # Repository Interfaces

// CredentialStore is the slice of the user repository that login and
// session resolution need. [account.PostgresUserRepository] satisfies it.
type CredentialStore interface {
	FindByID(ctx context.Context, id int64) (*account.Identity, error)

	// FindByLogin matches the login handle exactly (case-sensitive).
	FindByLogin(ctx context.Context, login string) (*account.Identity, error)

	TouchLastAccess(ctx context.Context, id int64, at time.Time) error
}

// RevocationStore remembers session tokens invalidated before their expiry.
type RevocationStore interface {
	// Revoke marks tokenID as revoked for ttl. A non-positive ttl is a no-op
	// since the token is already dead.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PasswordVerifier is the password primitive used by login.
type PasswordVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
