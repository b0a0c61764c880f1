// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accounttest provides an in-memory credential store for tests.
package accounttest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/users/account"
	"github.com/taibuivan/adminportal/pkg/pagination"
)

// MemoryRepository is a map-backed [account.UserRepository].
//
// Returned identities are copies, so callers cannot mutate stored rows.
type MemoryRepository struct {
	mu     sync.Mutex
	rows   map[int64]account.Identity
	nextID int64

	// FailWith, when set, is returned by every method.
	FailWith error
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]account.Identity), nextID: 1}
}

// Seed inserts identity as-is, assigning an ID when it has none.
func (repository *MemoryRepository) Seed(identity account.Identity) *account.Identity {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if identity.ID == 0 {
		identity.ID = repository.nextID
	}
	if identity.ID >= repository.nextID {
		repository.nextID = identity.ID + 1
	}
	repository.rows[identity.ID] = identity
	return &identity
}

// Snapshot returns the stored row for id.
func (repository *MemoryRepository) Snapshot(id int64) (account.Identity, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row, ok := repository.rows[id]
	return row, ok
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*account.Identity, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	row, ok := repository.rows[id]
	if !ok {
		return nil, dberr.Wrap(dberr.ErrNotFound, "memory_find_by_id")
	}
	return &row, nil
}

func (repository *MemoryRepository) FindByLogin(_ context.Context, login string) (*account.Identity, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return nil, repository.FailWith
	}
	for _, row := range repository.rows {
		if row.Login == login {
			return &row, nil
		}
	}
	return nil, dberr.Wrap(dberr.ErrNotFound, "memory_find_by_login")
}

func (repository *MemoryRepository) List(_ context.Context, filter account.ListFilter, page *pagination.Params) ([]*account.Identity, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return nil, 0, repository.FailWith
	}

	query := strings.ToLower(filter.Query)
	matches := make([]*account.Identity, 0, len(repository.rows))

	for _, row := range repository.rows {
		if filter.Active != nil && row.Active != *filter.Active {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Name), query) &&
			!strings.Contains(strings.ToLower(row.Login), query) &&
			!strings.Contains(strings.ToLower(row.Email), query) {
			continue
		}
		matches = append(matches, &row)
	}

	slices.SortFunc(matches, func(a, b *account.Identity) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})

	total := len(matches)
	if page != nil {
		start := min(page.Offset(), total)
		end := min(start+page.Limit, total)
		matches = matches[start:end]
	}
	return matches, total, nil
}

func (repository *MemoryRepository) Create(_ context.Context, identity *account.Identity) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return repository.FailWith
	}
	identity.ID = repository.nextID
	repository.nextID++
	repository.rows[identity.ID] = *identity
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, identity *account.Identity) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return repository.FailWith
	}
	if _, ok := repository.rows[identity.ID]; !ok {
		return dberr.Wrap(dberr.ErrNotFound, "memory_update")
	}
	repository.rows[identity.ID] = *identity
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return repository.FailWith
	}
	if _, ok := repository.rows[id]; !ok {
		return dberr.Wrap(dberr.ErrNotFound, "memory_delete")
	}
	delete(repository.rows, id)
	return nil
}

func (repository *MemoryRepository) TouchLastAccess(_ context.Context, id int64, at time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return repository.FailWith
	}
	row, ok := repository.rows[id]
	if !ok {
		return dberr.Wrap(dberr.ErrNotFound, "memory_touch")
	}
	row.LastAccessAt = &at
	repository.rows[id] = row
	return nil
}

func (repository *MemoryRepository) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	return repository.taken(func(row account.Identity) bool { return row.Email == email }, excludeID)
}

func (repository *MemoryRepository) LoginTaken(_ context.Context, login string, excludeID int64) (bool, error) {
	return repository.taken(func(row account.Identity) bool { return row.Login == login }, excludeID)
}

func (repository *MemoryRepository) taken(match func(account.Identity) bool, excludeID int64) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.FailWith != nil {
		return false, repository.FailWith
	}
	for id, row := range repository.rows {
		if id != excludeID && match(row) {
			return true, nil
		}
	}
	return false, nil
}
