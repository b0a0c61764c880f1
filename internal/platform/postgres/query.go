// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"
	"strings"
)

// LikeEscape is the ESCAPE clause matching [ContainsPattern].
const LikeEscape = `ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern wraps term for a substring (I)LIKE match. Wildcards typed
// by the user match literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Count runs SELECT COUNT(*) FROM table WHERE where.
//
// List queries use COUNT(*) OVER() for the total, which yields no row when
// OFFSET is past the last match; this recovers the total in that case.
func Count(ctx context.Context, db DB, table, where string, args ...any) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where)
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
