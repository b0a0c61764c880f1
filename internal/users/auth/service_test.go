// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/users/account"
	"github.com/taibuivan/adminportal/internal/users/account/accounttest"
	"github.com/taibuivan/adminportal/internal/users/auth"
)

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

// countingHasher counts Verify calls.
type countingHasher struct {
	sec.BcryptHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(plain, hash string) bool {
	h.verifies.Add(1)
	return h.BcryptHasher.Verify(plain, hash)
}

// touchFailing fails every last-access stamp.
type touchFailing struct {
	*accounttest.MemoryRepository
}

func (touchFailing) TouchLastAccess(context.Context, int64, time.Time) error {
	return errors.New("connection reset")
}

type fixture struct {
	service    *auth.Service
	repository *accounttest.MemoryRepository
	hasher     *countingHasher
	clock      *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	_, client := newTestRedis(t)

	codec, err := sec.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), "adminportal-test", 24*time.Hour)
	require.NoError(t, err)

	f := &fixture{
		repository: accounttest.NewMemoryRepository(),
		hasher:     &countingHasher{BcryptHasher: sec.NewBcryptHasher(bcrypt.MinCost)},
	}
	now := t0
	f.clock = &now

	f.service = auth.NewService(
		f.repository,
		auth.NewRevocationStore(client),
		f.hasher,
		codec,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	).WithClock(func() time.Time { return *f.clock })

	return f
}

func (f *fixture) seed(t *testing.T, login, password string, active bool) *account.Identity {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	return f.repository.Seed(account.Identity{
		Active:       active,
		Name:         strings.ToUpper(login[:1]) + login[1:],
		Email:        login + "@escola.com.br",
		Login:        login,
		PasswordHash: hash,
		ProfileID:    1,
		DepartmentID: 1,
		CreatedBy:    "setup",
		CreatedAt:    t0,
	})
}

func assertCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	assert.Equal(t, status, ae.HTTPStatus)
	assert.Equal(t, code, ae.Code)
}

/*
TestService_LoginThenAuthenticate checks that an issued token resolves to
the identity that logged in.
*/
func TestService_LoginThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	arli := f.seed(t, "arli", "segredo1", true)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, arli.ID, result.Identity.ID)
	assert.Equal(t, t0.Add(24*time.Hour), result.Token.ExpiresAt)

	stored, _ := f.repository.Snapshot(arli.ID)
	require.NotNil(t, stored.LastAccessAt)
	assert.Equal(t, t0, *stored.LastAccessAt)

	*f.clock = t0.Add(23 * time.Hour)

	identity, err := f.service.Authenticate(context.Background(), result.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, arli.ID, identity.ID)

	principal, err := f.service.ResolvePrincipal(context.Background(), result.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, sec.Principal{ID: arli.ID, Login: "arli", Name: "Arli"}, *principal)
}

func TestService_Login_Failures(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)
	f.seed(t, "bruna", "segredo2", false)

	tests := []struct {
		name   string
		input  auth.LoginInput
		status int
		code   string
	}{
		{"unknown_login", auth.LoginInput{Login: "ninguem", Password: "segredo1"}, http.StatusNotFound, apperr.CodeUserNotFound},
		{"wrong_password", auth.LoginInput{Login: "arli", Password: "errada"}, http.StatusUnauthorized, apperr.CodeInvalidCredentials},
		{"login_is_case_sensitive", auth.LoginInput{Login: "ARLI", Password: "segredo1"}, http.StatusNotFound, apperr.CodeUserNotFound},
		{"inactive_user", auth.LoginInput{Login: "bruna", Password: "segredo2"}, http.StatusUnauthorized, apperr.CodeInvalidCredentials},
		{"missing_password", auth.LoginInput{Login: "arli"}, http.StatusUnprocessableEntity, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Login(context.Background(), tt.input)
			assert.Nil(t, result)
			assertCode(t, err, tt.status, tt.code)
		})
	}
}

func TestService_Login_SameMessageForBothFailures(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	_, unknown := f.service.Login(context.Background(), auth.LoginInput{Login: "ninguem", Password: "x"})
	_, wrong := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "x"})

	assert.Equal(t, "Usuário ou senha incorretos", unknown.Error())
	assert.Equal(t, unknown.Error(), wrong.Error())
}

/*
TestService_Login_UnknownHandleStillVerifies checks that an unknown login
costs one password verification, like a wrong password does.
*/
func TestService_Login_UnknownHandleStillVerifies(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	_, _ = f.service.Login(context.Background(), auth.LoginInput{Login: "ninguem", Password: "segredo1"})
	assert.Equal(t, int32(1), f.hasher.verifies.Load())

	_, _ = f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "errada"})
	assert.Equal(t, int32(2), f.hasher.verifies.Load())
}

func TestService_Login_LastAccessFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	_, client := newTestRedis(t)
	codec, err := sec.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), "adminportal-test", 24*time.Hour)
	require.NoError(t, err)

	service := auth.NewService(touchFailing{f.repository}, auth.NewRevocationStore(client), f.hasher, codec,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token.Value)
	assert.Nil(t, result.Identity.LastAccessAt)
}

/*
TestService_Authenticate_Expired checks that a token at or past its expiry
is reported as expired and never as invalid.
*/
func TestService_Authenticate_Expired(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	for _, offset := range []time.Duration{24 * time.Hour, 25 * time.Hour, 365 * 24 * time.Hour} {
		*f.clock = t0.Add(offset)

		_, err := f.service.Authenticate(context.Background(), result.Token.Value)
		assertCode(t, err, http.StatusUnauthorized, apperr.CodeTokenExpired)
		assert.ErrorIs(t, err, sec.ErrTokenExpired)
	}
}

/*
TestService_Authenticate_SignatureBitFlip alters each byte of the signature.
*/
func TestService_Authenticate_SignatureBitFlip(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	parts := strings.Split(result.Token.Value, ".")
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range signature {
		tampered := append([]byte(nil), signature...)
		tampered[i] ^= 0x01
		token := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := f.service.Authenticate(context.Background(), token)
		assertCode(t, err, http.StatusUnauthorized, apperr.CodeTokenInvalid)
	}
}

func TestService_Authenticate_IdentityGone(t *testing.T) {
	f := newFixture(t)
	arli := f.seed(t, "arli", "segredo1", true)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	require.NoError(t, f.repository.Delete(context.Background(), arli.ID))

	_, err = f.service.Authenticate(context.Background(), result.Token.Value)
	assertCode(t, err, http.StatusUnauthorized, apperr.CodeIdentityNotFound)
}

func TestService_Authenticate_Deactivated(t *testing.T) {
	f := newFixture(t)
	arli := f.seed(t, "arli", "segredo1", true)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	stored, _ := f.repository.Snapshot(arli.ID)
	stored.Active = false
	f.repository.Seed(stored)

	_, err = f.service.Authenticate(context.Background(), result.Token.Value)
	assertCode(t, err, http.StatusUnauthorized, apperr.CodeIdentityNotFound)
}

func TestService_Logout(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "arli", "segredo1", true)

	first, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	*f.clock = t0.Add(time.Second)
	second, err := f.service.Login(context.Background(), auth.LoginInput{Login: "arli", Password: "segredo1"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), first.Token.Value))

	_, err = f.service.Authenticate(context.Background(), first.Token.Value)
	assertCode(t, err, http.StatusUnauthorized, apperr.CodeTokenRevoked)

	_, err = f.service.Authenticate(context.Background(), second.Token.Value)
	assert.NoError(t, err, "other sessions stay valid")
}

func TestService_Logout_IgnoresDeadTokens(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.service.Logout(context.Background(), ""))
	assert.NoError(t, f.service.Logout(context.Background(), "not.a.jwt"))
}

func TestService_Me(t *testing.T) {
	f := newFixture(t)
	arli := f.seed(t, "arli", "segredo1", true)

	identity, err := f.service.Me(context.Background(), &sec.Principal{ID: arli.ID, Login: "arli"})
	require.NoError(t, err)
	assert.Equal(t, "arli@escola.com.br", identity.Email)

	_, err = f.service.Me(context.Background(), &sec.Principal{ID: 999})
	assertCode(t, err, http.StatusUnauthorized, apperr.CodeIdentityNotFound)
}
