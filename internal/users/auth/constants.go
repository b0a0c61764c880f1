// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/adminportal/internal/platform/apperr"

// # Client Messages

const (
	msgBadCredentials  = "Usuário ou senha incorretos"
	msgLoginSucceeded  = "Login realizado com sucesso"
	msgLogoutSucceeded = "Logout realizado com sucesso"
)

// # Failure Kinds

// Login failures. Both carry the same message; only the status and code
// differ.
var (
	ErrLoginNotFound      = apperr.NotFoundCode(apperr.CodeUserNotFound, msgBadCredentials)
	ErrInvalidCredentials = apperr.UnauthorizedCode(apperr.CodeInvalidCredentials, msgBadCredentials)
)

// Session failures, all 401.
var (
	ErrTokenInvalid     = apperr.UnauthorizedCode(apperr.CodeTokenInvalid, "Token inválido")
	ErrTokenExpired     = apperr.UnauthorizedCode(apperr.CodeTokenExpired, "Token expirado")
	ErrTokenRevoked     = apperr.UnauthorizedCode(apperr.CodeTokenRevoked, "Token revogado")
	ErrIdentityNotFound = apperr.UnauthorizedCode(apperr.CodeIdentityNotFound, "Usuário não encontrado")
)

// Login body fields.
const (
	FieldLogin    = "login"
	FieldPassword = "senha"
)

// dummyPassword is hashed once and compared against when a login handle does
// not exist, so both failure paths cost one bcrypt verification.
const dummyPassword = "adminportal-timing-equalizer"
