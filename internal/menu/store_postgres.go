// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/adminportal/internal/platform/database/schema"
	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/platform/postgres"
	"github.com/taibuivan/adminportal/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates the PostgreSQL menu store.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var entryColumns = strings.Join(schema.MenuExtra.Columns(), ", ")

func scanEntry(row pgx.Row, extra ...any) (*Entry, error) {
	entry := &Entry{}
	dest := []any{
		&entry.ID,
		&entry.Title,
		&entry.Icon,
		&entry.URL,
		&entry.UserType,
		&entry.EducationLevel,
		&entry.UserContext,
		&entry.Color,
		&entry.Visible,
		&entry.Target,
		&entry.CreatedBy,
		&entry.CreatedAt,
		&entry.ModifiedBy,
		&entry.ModifiedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return entry, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		entryColumns, schema.MenuExtra.Table, schema.MenuExtra.ID)

	entry, err := scanEntry(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "menu_find_by_id")
	}
	return entry, nil
}

func (repository *PostgresRepository) List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Entry, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString("TRUE")

	if filter.Query != "" {
		args = append(args, postgres.ContainsPattern(filter.Query))
		fmt.Fprintf(&where, " AND (%s ILIKE $%d %s OR %s ILIKE $%d %s)",
			schema.MenuExtra.Title, len(args), postgres.LikeEscape,
			schema.MenuExtra.URL, len(args), postgres.LikeEscape)
	}

	if filter.Visible != "" {
		args = append(args, filter.Visible)
		fmt.Fprintf(&where, " AND %s = $%d", schema.MenuExtra.Visible, len(args))
	}

	filterArgs := len(args)

	var queryBuilder strings.Builder
	fmt.Fprintf(&queryBuilder, "SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s ORDER BY %s",
		entryColumns, schema.MenuExtra.Table, where.String(), schema.MenuExtra.ID)

	if page != nil {
		args = append(args, page.Limit, page.Offset())
		fmt.Fprintf(&queryBuilder, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "menu_list")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	total := 0

	for rows.Next() {
		entry, err := scanEntry(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "menu_list_scan")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "menu_list_rows")
	}

	if len(entries) == 0 && page != nil && page.Offset() > 0 {
		total, err = postgres.Count(ctx, repository.db, schema.MenuExtra.Table, where.String(), args[:filterArgs]...)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "menu_count")
		}
	}

	return entries, total, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, entry *Entry) error {
	writable := schema.MenuExtra.Writable()
	placeholders := make([]string, len(writable))
	for i := range writable {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		schema.MenuExtra.Table,
		strings.Join(writable, ", "),
		strings.Join(placeholders, ", "),
		schema.MenuExtra.ID,
	)

	err := repository.db.QueryRow(ctx, query,
		entry.Title,
		entry.Icon,
		entry.URL,
		entry.UserType,
		entry.EducationLevel,
		entry.UserContext,
		entry.Color,
		entry.Visible,
		entry.Target,
		entry.CreatedBy,
		entry.CreatedAt,
		entry.ModifiedBy,
		entry.ModifiedAt,
	).Scan(&entry.ID)

	return dberr.Wrap(err, "menu_create")
}

// Update writes every mutable column. Created-by/at are never touched.
func (repository *PostgresRepository) Update(ctx context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
		    %s = $9, %s = $10, %s = $11, %s = $12
		WHERE %s = $1`,
		schema.MenuExtra.Table,
		schema.MenuExtra.Title, schema.MenuExtra.Icon, schema.MenuExtra.URL,
		schema.MenuExtra.UserType, schema.MenuExtra.EducationLevel, schema.MenuExtra.UserContext,
		schema.MenuExtra.Color, schema.MenuExtra.Visible, schema.MenuExtra.Target,
		schema.MenuExtra.ModifiedBy, schema.MenuExtra.ModifiedAt,
		schema.MenuExtra.ID,
	)

	tag, err := repository.db.Exec(ctx, query,
		entry.ID,
		entry.Title,
		entry.Icon,
		entry.URL,
		entry.UserType,
		entry.EducationLevel,
		entry.UserContext,
		entry.Color,
		entry.Visible,
		entry.Target,
		entry.ModifiedBy,
		entry.ModifiedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "menu_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(dberr.ErrNotFound, "menu_update")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.MenuExtra.Table, schema.MenuExtra.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "menu_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(dberr.ErrNotFound, "menu_delete")
	}
	return nil
}
