// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/constants"
	"github.com/taibuivan/adminportal/internal/platform/ctxutil"
	"github.com/taibuivan/adminportal/internal/platform/respond"
	"github.com/taibuivan/adminportal/internal/platform/sec"
)

// PrincipalResolver turns a raw session token into the acting identity.
//
// Implementations return an [*apperr.AppError] with status 401 for token
// failures. Any other error is treated as a server fault.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*sec.Principal, error)
}

// ErrTokenMissing is returned when neither the header nor the cookie carries a token.
var ErrTokenMissing = apperr.UnauthorizedCode(apperr.CodeTokenMissing, "Token não encontrado")

// SessionToken extracts the session token from the request.
//
// The "Authorization: Bearer" header wins over the session cookie. It
// returns "" when neither is present.
func SessionToken(request *http.Request) string {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, constants.BearerScheme) {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}

	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireSession rejects requests without a valid session.
//
// # Flow
//  1. Extract the token ([SessionToken]); none means 401 TOKEN_MISSING.
//  2. Resolve it through the [PrincipalResolver].
//  3. Store the [sec.Principal] in the context and tag the request logger.
func RequireSession(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := SessionToken(request)
			if token == "" {
				respond.Error(writer, request, ErrTokenMissing)
				return
			}

			ctx := request.Context()

			principal, err := resolver.ResolvePrincipal(ctx, token)
			if err != nil {
				if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusUnauthorized {
					ctxutil.GetLogger(ctx).InfoContext(ctx, "session_rejected",
						slog.String("code", ae.Code),
					)
				}
				respond.Error(writer, request, err)
				return
			}

			if slot, ok := ctx.Value(sessionSlotKey{}).(*sessionSlot); ok {
				slot.userID = principal.ID
			}

			ctx = ctxutil.WithPrincipal(ctx, *principal)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", principal.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
