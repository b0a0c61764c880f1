// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/adminportal/internal/platform/postgres"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"agenda", "%agenda%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\temp`, `%c:\\temp%`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, postgres.ContainsPattern(tt.term), tt.term)
	}
}

func TestCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appmenuextra WHERE TRUE AND visivel = \$1`).
		WithArgs("S").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(7))

	total, err := postgres.Count(context.Background(), mock, "appmenuextra", "TRUE AND visivel = $1", "S")
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
