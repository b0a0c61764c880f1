// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/adminportal/internal/api"
	"github.com/taibuivan/adminportal/internal/menu"
	"github.com/taibuivan/adminportal/internal/platform/config"
	"github.com/taibuivan/adminportal/internal/platform/database/schema"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/users/account"
	"github.com/taibuivan/adminportal/internal/users/account/accounttest"
	"github.com/taibuivan/adminportal/internal/users/auth"
)

type portal struct {
	handler http.Handler
	menuDB  pgxmock.PgxPoolIface
}

func newPortal(t *testing.T, deps api.HealthDependencies) *portal {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	codec, err := sec.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), "adminportal-test", 24*time.Hour)
	require.NoError(t, err)

	hasher := sec.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("segredo1")
	require.NoError(t, err)

	users := accounttest.NewMemoryRepository()
	users.Seed(account.Identity{
		Active:       true,
		Name:         "Administrador",
		Email:        "admin@escola.com.br",
		Login:        "admin",
		PasswordHash: hash,
		ProfileID:    1,
		DepartmentID: 1,
		CreatedBy:    "setup",
		CreatedAt:    time.Now(),
	})

	authService := auth.NewService(users, auth.NewRevocationStore(client), hasher, codec, logger)
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "test",
		AllowedOrigins: []string{"https://portal.escola.com.br"},
	}

	server := api.NewServer(cfg, logger, authService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, auth.CookieConfig{}),
		Users:     account.NewHandler(account.NewService(users, hasher, logger)),
		Menu:      menu.NewHandler(menu.NewService(menu.NewRepository(mock), logger)),
	})

	return &portal{handler: server.Handler(), menuDB: mock}
}

/*
TestServer_ProtectedRoutesRequireSession calls every protected resource
without a cookie or bearer header.
*/
func TestServer_ProtectedRoutesRequireSession(t *testing.T) {
	p := newPortal(t, api.HealthDependencies{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/1"},
		{http.MethodPost, "/api/users"},
		{http.MethodDelete, "/api/users/1"},
		{http.MethodGet, "/api/appmenuextra"},
		{http.MethodPut, "/api/appmenuextra/1"},
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/users/logout"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			apitest.New().
				Handler(p.handler).
				Method(route.method).
				URL(route.path).
				Expect(t).
				Status(http.StatusUnauthorized).
				Assert(jsonpath.Equal("$.code", "TOKEN_MISSING")).
				Assert(jsonpath.NotPresent("$.data")).
				End()
		})
	}

	require.NoError(t, p.menuDB.ExpectationsWereMet())
}

func TestServer_LoginOpensSession(t *testing.T) {
	p := newPortal(t, api.HealthDependencies{})

	result := apitest.New().
		Handler(p.handler).
		Post("/api/users/login").
		JSON(`{"login":"admin","senha":"segredo1"}`).
		Expect(t).
		Status(http.StatusOK).
		CookiePresent("token").
		End()

	var token string
	for _, cookie := range result.Response.Cookies() {
		if cookie.Name == "token" {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)

	apitest.New().
		Handler(p.handler).
		Get("/api/users").
		Cookie("token", token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].LOGIN", "admin")).
		End()

	columns := append(schema.MenuExtra.Columns(), "total_count")
	p.menuDB.ExpectQuery(`FROM appmenuextra WHERE TRUE ORDER BY idmenu$`).
		WillReturnRows(p.menuDB.NewRows(columns))

	apitest.New().
		Handler(p.handler).
		Get("/api/appmenuextra").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()

	require.NoError(t, p.menuDB.ExpectationsWereMet())
}

func TestServer_CORSPreflight(t *testing.T) {
	p := newPortal(t, api.HealthDependencies{})

	apitest.New().
		Handler(p.handler).
		Method(http.MethodOptions).
		URL("/api/users").
		Header("Origin", "https://portal.escola.com.br").
		Expect(t).
		Status(http.StatusNoContent).
		Header("Access-Control-Allow-Origin", "https://portal.escola.com.br").
		Header("Access-Control-Allow-Credentials", "true").
		End()

	apitest.New().
		Handler(p.handler).
		Method(http.MethodOptions).
		URL("/api/users").
		Header("Origin", "https://evil.example").
		Expect(t).
		Status(http.StatusNoContent).
		HeaderNotPresent("Access-Control-Allow-Origin").
		End()
}

func TestServer_Health(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	p := newPortal(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: down})

	apitest.New().
		Handler(p.handler).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"status":"ok"}`).
		End()

	apitest.New().
		Handler(p.handler).
		Get("/ready").
		Expect(t).
		Status(http.StatusServiceUnavailable).
		Assert(jsonpath.Equal("$.status", "degraded")).
		Assert(jsonpath.Equal("$.checks[0].ok", true)).
		Assert(jsonpath.Equal("$.checks[1].name", "redis")).
		Assert(jsonpath.Equal("$.checks[1].ok", false)).
		End()

	ready := newPortal(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy})
	apitest.New().
		Handler(ready.handler).
		Get("/ready").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ready")).
		Assert(jsonpath.Len("$.checks", 2)).
		End()
}
