// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/payload"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/users/account"
	"github.com/taibuivan/adminportal/internal/users/account/accounttest"
)

var (
	t0    = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	admin = &sec.Principal{ID: 1, Login: "admin", Name: "Administrador"}
	clerk = &sec.Principal{ID: 2, Login: "secretaria", Name: "Secretaria"}
)

func newService(t *testing.T) (*account.Service, *accounttest.MemoryRepository, *time.Time) {
	t.Helper()

	repository := accounttest.NewMemoryRepository()
	now := t0
	service := account.NewService(repository, sec.NewBcryptHasher(bcrypt.MinCost), slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithClock(func() time.Time { return now })

	return service, repository, &now
}

func validInput() account.Input {
	return account.Input{
		Name:         payload.Value("Arli Souza"),
		Email:        payload.Value("arli@escola.com.br"),
		Login:        payload.Value("arli"),
		Password:     payload.Value("segredo1"),
		ProfileID:    payload.Value(int64(2)),
		DepartmentID: payload.Value(int64(5)),
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	require.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
	return apperr.FieldMap(ae.Details)
}

/*
TestService_Create verifies stamping, defaults and hashing.
*/
func TestService_Create(t *testing.T) {
	service, repository, _ := newService(t)

	identity, err := service.Create(context.Background(), admin, validInput())
	require.NoError(t, err)

	assert.NotZero(t, identity.ID)
	assert.True(t, identity.Active)
	assert.Equal(t, "admin", identity.CreatedBy)
	assert.Equal(t, t0, identity.CreatedAt)
	assert.Nil(t, identity.ModifiedBy)
	require.NotNil(t, identity.PasswordChangedAt)

	stored, ok := repository.Snapshot(identity.ID)
	require.True(t, ok)
	assert.NotEqual(t, "segredo1", stored.PasswordHash)
	assert.True(t, sec.NewBcryptHasher(bcrypt.MinCost).Verify("segredo1", stored.PasswordHash))
}

func TestService_Create_Validation(t *testing.T) {
	service, _, _ := newService(t)

	tests := []struct {
		name   string
		mutate func(*account.Input)
		field  string
	}{
		{"missing_name", func(in *account.Input) { in.Name = payload.Field[string]{} }, "NOME"},
		{"blank_login", func(in *account.Input) { in.Login = payload.Value("  ") }, "LOGIN"},
		{"bad_email", func(in *account.Input) { in.Email = payload.Value("arli") }, "EMAIL"},
		{"short_password", func(in *account.Input) { in.Password = payload.Value("12345") }, "SENHA"},
		{"null_profile", func(in *account.Input) { in.ProfileID = payload.Field[int64]{Present: true, Null: true} }, "IDPERFIL"},
		{"zero_department", func(in *account.Input) { in.DepartmentID = payload.Value(int64(0)) }, "IDDEPART"},
		{"long_login", func(in *account.Input) { in.Login = payload.Value("a123456789b123456789c123456789d123456789e123456789f") }, "LOGIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), admin, input)
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

/*
TestService_Create_DuplicateEmail rejects an email used by another row.
*/
func TestService_Create_DuplicateEmail(t *testing.T) {
	service, repository, _ := newService(t)
	repository.Seed(account.Identity{Login: "outro", Email: "arli@escola.com.br", Name: "Outro"})

	_, err := service.Create(context.Background(), admin, validInput())

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "EMAIL")
	assert.NotContains(t, fields, "LOGIN")
}

/*
TestService_Update_OwnEmail keeps the unchanged unique value valid.
*/
func TestService_Update_OwnEmail(t *testing.T) {
	service, repository, _ := newService(t)
	seeded := repository.Seed(account.Identity{
		ID: 7, Active: true, Name: "Arli", Login: "arli", Email: "arli@escola.com.br",
		ProfileID: 1, DepartmentID: 1, CreatedBy: "admin", CreatedAt: t0,
	})

	updated, err := service.Update(context.Background(), clerk, seeded.ID, account.Input{
		Email: payload.Value("arli@escola.com.br"),
		Login: payload.Value("arli"),
	})
	require.NoError(t, err)
	assert.Equal(t, "arli@escola.com.br", updated.Email)
}

func TestService_Update_EmailOfAnotherUser(t *testing.T) {
	service, repository, _ := newService(t)
	repository.Seed(account.Identity{ID: 1, Login: "bia", Email: "bia@escola.com.br"})
	repository.Seed(account.Identity{ID: 2, Login: "caio", Email: "caio@escola.com.br"})

	_, err := service.Update(context.Background(), admin, 2, account.Input{Email: payload.Value("bia@escola.com.br")})
	assert.Contains(t, fieldErrors(t, err), "EMAIL")
}

/*
TestService_Update_Partial verifies absent fields are untouched and the
modification stamp is always written.
*/
func TestService_Update_Partial(t *testing.T) {
	service, repository, now := newService(t)
	phone := "11 99999-0000"
	seeded := repository.Seed(account.Identity{
		Active: true, Name: "Arli", Login: "arli", Email: "arli@escola.com.br", Phone: &phone,
		PasswordHash: "hash", ProfileID: 1, DepartmentID: 3, CreatedBy: "admin", CreatedAt: t0,
	})

	*now = t0.Add(time.Hour)
	updated, err := service.Update(context.Background(), clerk, seeded.ID, account.Input{
		Name: payload.Value("Arli Souza"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Arli Souza", updated.Name)
	assert.Equal(t, "arli@escola.com.br", updated.Email)
	assert.Equal(t, &phone, updated.Phone)
	assert.Equal(t, int64(3), updated.DepartmentID)
	assert.Equal(t, "hash", updated.PasswordHash)
	assert.Nil(t, updated.PasswordChangedAt)
	assert.Equal(t, "admin", updated.CreatedBy)

	require.NotNil(t, updated.ModifiedBy)
	assert.Equal(t, "secretaria", *updated.ModifiedBy)
	assert.Equal(t, t0.Add(time.Hour), *updated.ModifiedAt)

	t.Run("empty_body_still_stamps", func(t *testing.T) {
		*now = t0.Add(2 * time.Hour)
		again, err := service.Update(context.Background(), admin, seeded.ID, account.Input{})
		require.NoError(t, err)
		assert.Equal(t, "admin", *again.ModifiedBy)
		assert.Equal(t, t0.Add(2*time.Hour), *again.ModifiedAt)
	})

	t.Run("null_clears_nullable_only", func(t *testing.T) {
		again, err := service.Update(context.Background(), admin, seeded.ID, account.Input{
			Phone: payload.Field[string]{Present: true, Null: true},
		})
		require.NoError(t, err)
		assert.Nil(t, again.Phone)

		_, err = service.Update(context.Background(), admin, seeded.ID, account.Input{
			Name: payload.Field[string]{Present: true, Null: true},
		})
		assert.Contains(t, fieldErrors(t, err), "NOME")
	})
}

func TestService_Update_PasswordRotation(t *testing.T) {
	service, repository, now := newService(t)
	seeded := repository.Seed(account.Identity{Login: "arli", Email: "a@b.co", PasswordHash: "old"})

	*now = t0.Add(48 * time.Hour)
	updated, err := service.Update(context.Background(), admin, seeded.ID, account.Input{
		Password: payload.Value("nova-senha"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, "old", updated.PasswordHash)
	require.NotNil(t, updated.PasswordChangedAt)
	assert.Equal(t, t0.Add(48*time.Hour), *updated.PasswordChangedAt)
}

func TestService_NotFound(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	_, err := service.Get(ctx, 99)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, "Usuário não encontrado", err.Error())

	_, err = service.Update(ctx, admin, 99, account.Input{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	err = service.Delete(ctx, 99)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
