// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates PostgreSQL errors into application errors.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/validate"
)

// ErrNotFound marks a query or mutation that matched no row.
// Services translate it into their own 404 message.
var ErrNotFound = errors.New("dberr: row not found")

// Wrap classifies a database error.
//
//   - pgx.ErrNoRows becomes [ErrNotFound].
//   - A unique violation becomes a 422 keyed to the constrained column.
//   - Anything else becomes a 500 carrying the action for the logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		field := ConstraintField(pgErr.ConstraintName)
		if field == "" {
			return apperr.ValidationError(validate.MsgTaken).WithCause(err)
		}
		return apperr.FieldInvalid(field, validate.MsgTaken).WithCause(err)
	}

	if apperr.IsAppError(err) {
		return err
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err wraps [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ConstraintField extracts the wire field name from a unique constraint
// named "<table>_<column>_key" (the PostgreSQL default).
func ConstraintField(constraint string) string {
	base, ok := strings.CutSuffix(constraint, "_key")
	if !ok {
		return ""
	}
	idx := strings.LastIndex(base, "_")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToUpper(base[idx+1:])
}
