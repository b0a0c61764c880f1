// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"

	"github.com/taibuivan/adminportal/pkg/pagination"
)

// # Repository Contracts

// UserRepository is the credential store.
//
// Lookups that match no row return an error wrapping [dberr.ErrNotFound].
type UserRepository interface {
	/*
		FindByID retrieves a user by primary key.
	*/
	FindByID(ctx context.Context, id int64) (*Identity, error)

	/*
		FindByLogin retrieves a user by exact, case-sensitive login.
	*/
	FindByLogin(ctx context.Context, login string) (*Identity, error)

	/*
		List returns the users matching filter and the total match count.

		Parameters:
		  - page: nil returns every matching row
	*/
	List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Identity, int, error)

	// Create inserts identity and fills in its ID.
	Create(ctx context.Context, identity *Identity) error

	// Update writes every mutable column of identity.
	Update(ctx context.Context, identity *Identity) error

	Delete(ctx context.Context, id int64) error

	// TouchLastAccess stamps DTULTIMOACESSO after a successful login.
	TouchLastAccess(ctx context.Context, id int64, at time.Time) error

	/*
		EmailTaken reports whether another user already has email.

		Parameters:
		  - excludeID: row ignored by the check (0 on create)
	*/
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	// LoginTaken is the login counterpart of EmailTaken.
	LoginTaken(ctx context.Context, login string, excludeID int64) (bool, error)
}
