// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package menu

import (
	"context"

	"github.com/taibuivan/adminportal/pkg/pagination"
)

// # Repository Contracts

// Repository persists menu entries.
//
// Lookups and writes that match no row return an error wrapping
// [dberr.ErrNotFound].
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Entry, error)

	// List returns entries in id order and the total match count. A nil
	// page returns every match.
	List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Entry, int, error)

	// Create inserts entry and fills in its ID.
	Create(ctx context.Context, entry *Entry) error

	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id int64) error
}
