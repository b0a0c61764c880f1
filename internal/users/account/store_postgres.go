// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/adminportal/internal/platform/database/schema"
	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/platform/postgres"
	"github.com/taibuivan/adminportal/pkg/pagination"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates the PostgreSQL credential store.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var (
	userColumns = strings.Join(schema.Usuarios.Columns(), ", ")
	userSelect  = fmt.Sprintf("SELECT %s FROM %s", userColumns, schema.Usuarios.Table)
)

func scanIdentity(row pgx.Row, extra ...any) (*Identity, error) {
	identity := &Identity{}
	dest := []any{
		&identity.ID,
		&identity.Active,
		&identity.Name,
		&identity.Email,
		&identity.Login,
		&identity.PasswordHash,
		&identity.Phone,
		&identity.Image,
		&identity.ProfileID,
		&identity.DepartmentID,
		&identity.CreatedBy,
		&identity.CreatedAt,
		&identity.ModifiedBy,
		&identity.ModifiedAt,
		&identity.LastAccessAt,
		&identity.PasswordChangedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return identity, nil
}

// # Lookups

func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*Identity, error) {
	query := fmt.Sprintf("%s WHERE %s = $1", userSelect, schema.Usuarios.ID)

	identity, err := scanIdentity(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_id")
	}
	return identity, nil
}

func (repository *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (*Identity, error) {
	query := fmt.Sprintf("%s WHERE %s = $1", userSelect, schema.Usuarios.Login)

	identity, err := scanIdentity(repository.db.QueryRow(ctx, query, login))
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_login")
	}
	return identity, nil
}

/*
List returns users ordered by name, with the total match count computed by
a COUNT(*) OVER() window so a page needs a single round trip. A page past
the end falls back to a plain count.
*/
func (repository *PostgresUserRepository) List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Identity, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString("TRUE")

	if filter.Query != "" {
		args = append(args, postgres.ContainsPattern(filter.Query))
		fmt.Fprintf(&where, " AND (%s ILIKE $%d %s OR %s ILIKE $%d %s OR %s ILIKE $%d %s)",
			schema.Usuarios.Name, len(args), postgres.LikeEscape,
			schema.Usuarios.Login, len(args), postgres.LikeEscape,
			schema.Usuarios.Email, len(args), postgres.LikeEscape,
		)
	}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		fmt.Fprintf(&where, " AND %s = $%d", schema.Usuarios.Active, len(args))
	}

	filterArgs := len(args)

	var queryBuilder strings.Builder
	fmt.Fprintf(&queryBuilder, "SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s ORDER BY %s, %s",
		userColumns, schema.Usuarios.Table, where.String(), schema.Usuarios.Name, schema.Usuarios.ID)

	if page != nil {
		args = append(args, page.Limit, page.Offset())
		fmt.Fprintf(&queryBuilder, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "user_list")
	}
	defer rows.Close()

	identities := make([]*Identity, 0)
	total := 0

	for rows.Next() {
		identity, err := scanIdentity(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "user_list_scan")
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "user_list_rows")
	}

	// Past the last page the window count has no row to ride on.
	if len(identities) == 0 && page != nil && page.Offset() > 0 {
		total, err = postgres.Count(ctx, repository.db, schema.Usuarios.Table, where.String(), args[:filterArgs]...)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "user_count")
		}
	}

	return identities, total, nil
}

// # Mutations

func (repository *PostgresUserRepository) Create(ctx context.Context, identity *Identity) error {
	writable := schema.Usuarios.Writable()
	placeholders := make([]string, len(writable))
	for i := range writable {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		schema.Usuarios.Table,
		strings.Join(writable, ", "),
		strings.Join(placeholders, ", "),
		schema.Usuarios.ID,
	)

	err := repository.db.QueryRow(ctx, query,
		identity.Active,
		identity.Name,
		identity.Email,
		identity.Login,
		identity.PasswordHash,
		identity.Phone,
		identity.Image,
		identity.ProfileID,
		identity.DepartmentID,
		identity.CreatedBy,
		identity.CreatedAt,
		identity.ModifiedBy,
		identity.ModifiedAt,
		identity.LastAccessAt,
		identity.PasswordChangedAt,
	).Scan(&identity.ID)

	return dberr.Wrap(err, "user_create")
}

/*
Update overwrites the mutable columns of one row in a single statement.
Concurrent updates of the same row are last-write-wins.
*/
func (repository *PostgresUserRepository) Update(ctx context.Context, identity *Identity) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
		    %s = $9, %s = $10, %s = $11, %s = $12, %s = $13
		WHERE %s = $1`,
		schema.Usuarios.Table,
		schema.Usuarios.Active, schema.Usuarios.Name, schema.Usuarios.Email,
		schema.Usuarios.Login, schema.Usuarios.PasswordHash, schema.Usuarios.Phone,
		schema.Usuarios.Image, schema.Usuarios.ProfileID, schema.Usuarios.DepartmentID,
		schema.Usuarios.ModifiedBy, schema.Usuarios.ModifiedAt, schema.Usuarios.PasswordChangedAt,
		schema.Usuarios.ID,
	)

	tag, err := repository.db.Exec(ctx, query,
		identity.ID,
		identity.Active,
		identity.Name,
		identity.Email,
		identity.Login,
		identity.PasswordHash,
		identity.Phone,
		identity.Image,
		identity.ProfileID,
		identity.DepartmentID,
		identity.ModifiedBy,
		identity.ModifiedAt,
		identity.PasswordChangedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "user_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(dberr.ErrNotFound, "user_update")
	}
	return nil
}

func (repository *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Usuarios.Table, schema.Usuarios.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "user_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(dberr.ErrNotFound, "user_delete")
	}
	return nil
}

func (repository *PostgresUserRepository) TouchLastAccess(ctx context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1",
		schema.Usuarios.Table, schema.Usuarios.LastAccessAt, schema.Usuarios.ID)

	_, err := repository.db.Exec(ctx, query, id, at)
	return dberr.Wrap(err, "user_touch_last_access")
}

// # Uniqueness

func (repository *PostgresUserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return repository.taken(ctx, schema.Usuarios.Email, email, excludeID)
}

func (repository *PostgresUserRepository) LoginTaken(ctx context.Context, login string, excludeID int64) (bool, error) {
	return repository.taken(ctx, schema.Usuarios.Login, login, excludeID)
}

func (repository *PostgresUserRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)",
		schema.Usuarios.Table, column, schema.Usuarios.ID)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "user_unique_check_"+column)
	}
	return exists, nil
}
