// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements portal login and session resolution.

It verifies credentials against the user table, issues the signed session
token carried by the "token" cookie, and turns that token back into the
acting identity on every protected request.

Architecture:

  - Service: Login, Authenticate, Logout and Me.
  - CredentialStore: read access to gusuarios (see the account package).
  - RevocationStore: token ids invalidated by logout, kept in Redis.
  - Handler: cookie handling and the /users/login, /users/logout and /me routes.

Tokens are stateless; the revocation set is the only way to end a session
before its expiry.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/platform/validate"
	"github.com/taibuivan/adminportal/internal/users/account"
)

// # Contracts & Types

// LoginInput holds the credentials of a login attempt.
type LoginInput struct {
	Login    string
	Password string
}

// LoginResult is a successfully opened session.
type LoginResult struct {
	Identity *account.Identity
	Token    sec.IssuedToken
}

// Service implements the authentication use cases.
type Service struct {
	credentials CredentialStore
	revocations RevocationStore
	passwords   PasswordVerifier
	codec       *sec.TokenCodec
	logger      *slog.Logger
	now         func() time.Time

	dummyHash func() string
}

// NewService constructs a new auth [Service].
func NewService(
	credentials CredentialStore,
	revocations RevocationStore,
	passwords PasswordVerifier,
	codec *sec.TokenCodec,
	logger *slog.Logger,
) *Service {
	return &Service{
		credentials: credentials,
		revocations: revocations,
		passwords:   passwords,
		codec:       codec,
		logger:      logger,
		now:         time.Now,
		dummyHash: sync.OnceValue(func() string {
			hash, _ := passwords.Hash(dummyPassword)
			return hash
		}),
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Authentication Flow

/*
Login verifies credentials and issues a session token.

Steps:
 1. Look up the identity by exact login handle. Unknown handles fail with
    [ErrLoginNotFound] after a dummy hash comparison.
 2. Inactive identities and wrong passwords fail with [ErrInvalidCredentials].
 3. Issue the token and stamp DTULTIMOACESSO. A stamping failure is logged
    and does not fail the login.

Returns:
  - *LoginResult: identity and signed token
  - err: 422 for missing fields, 404 / 401 as above, or storage faults
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	v := &validate.Validator{}
	v.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	identity, err := service.credentials.FindByLogin(ctx, input.Login)
	if err != nil {
		if !dberr.IsNotFound(err) {
			return nil, err
		}
		service.passwords.Verify(input.Password, service.dummyHash())
		service.logFailure(ctx, input.Login, "unknown_login")
		return nil, ErrLoginNotFound
	}

	if !service.passwords.Verify(input.Password, identity.PasswordHash) {
		service.logFailure(ctx, input.Login, "wrong_password")
		return nil, ErrInvalidCredentials
	}
	if !identity.Active {
		service.logFailure(ctx, input.Login, "inactive")
		return nil, ErrInvalidCredentials
	}

	now := service.now()

	token, err := service.codec.Issue(identity.ID, now)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.credentials.TouchLastAccess(ctx, identity.ID, now); err != nil {
		service.logger.WarnContext(ctx, "last_access_stamp_failed",
			slog.Int64("user_id", identity.ID),
			slog.Any("error", err),
		)
	} else {
		identity.LastAccessAt = &now
	}

	service.logger.InfoContext(ctx, "login_succeeded", slog.Int64("user_id", identity.ID))

	return &LoginResult{Identity: identity, Token: token}, nil
}

func (service *Service) logFailure(ctx context.Context, login, reason string) {
	service.logger.InfoContext(ctx, "login_failed",
		slog.String("login", login),
		slog.String("reason", reason),
	)
}

/*
Authenticate resolves a session token to the identity it was issued for.

Failure kinds, in evaluation order: [ErrTokenInvalid], [ErrTokenExpired],
[ErrTokenRevoked], [ErrIdentityNotFound]. A deactivated identity counts as
not found.
*/
func (service *Service) Authenticate(ctx context.Context, token string) (*account.Identity, error) {
	claims, err := service.codec.Decode(token, service.now())
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, ErrTokenExpired.WithCause(err)
		}
		return nil, ErrTokenInvalid.WithCause(err)
	}

	revoked, err := service.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	subject, err := claims.SubjectID()
	if err != nil {
		return nil, ErrTokenInvalid.WithCause(err)
	}

	identity, err := service.credentials.FindByID(ctx, subject)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithCause(err)
		}
		return nil, err
	}
	if !identity.Active {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}

// ResolvePrincipal implements the session guard's resolver contract.
func (service *Service) ResolvePrincipal(ctx context.Context, token string) (*sec.Principal, error) {
	identity, err := service.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	principal := identity.Principal()
	return &principal, nil
}

/*
Logout revokes token for the rest of its lifetime.

Tokens that no longer decode are already unusable, so they are ignored.
*/
func (service *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	now := service.now()

	claims, err := service.codec.Decode(token, now)
	if err != nil {
		return nil
	}

	if err := service.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(now)); err != nil {
		return apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "session_revoked", slog.String("subject", claims.Subject))
	return nil
}

// Me returns the current state of the acting identity.
func (service *Service) Me(ctx context.Context, principal *sec.Principal) (*account.Identity, error) {
	identity, err := service.credentials.FindByID(ctx, principal.ID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithCause(err)
		}
		return nil, err
	}
	return identity, nil
}
