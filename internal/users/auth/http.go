// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/adminportal/internal/platform/constants"
	"github.com/taibuivan/adminportal/internal/platform/middleware"
	requestutil "github.com/taibuivan/adminportal/internal/platform/request"
	"github.com/taibuivan/adminportal/internal/platform/respond"
	"github.com/taibuivan/adminportal/internal/users/account"
)

// # Definitions & Constructors

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
	Domain string

	// ReturnToken also places the token in the login body for bearer clients.
	ReturnToken bool
}

// Handler implements the login, logout and /me endpoints.
type Handler struct {
	authService *Service
	cookies     CookieConfig
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookies CookieConfig) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// RegisterPublicRoutes mounts the routes reachable without a session.
//
// # Endpoints
//   - POST /users/login
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/users/login", handler.login)
}

// RegisterSessionRoutes mounts the routes that run behind the session guard.
//
// # Endpoints
//   - GET  /me
//   - POST /users/logout
func (handler *Handler) RegisterSessionRoutes(router chi.Router) {
	router.Get("/me", handler.me)
	router.Post("/users/logout", handler.logout)
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    *account.Identity `json:"usuario"`
	Token   string            `json:"token,omitempty"`
}

/*
POST /api/users/login.

Request:
  - Body: {"login", "senha"}

Response:
  - 200: {message, usuario}; sets the HttpOnly session cookie
  - 404: unknown login
  - 401: wrong password or inactive user
  - 422: missing fields
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, result.Token.Value, result.Token.ExpiresAt)

	body := loginResponse{Message: msgLoginSucceeded, User: result.Identity}
	if handler.cookies.ReturnToken {
		body.Token = result.Token.Value
	}
	respond.OK(writer, body)
}

/*
POST /api/users/logout.

Revokes the presented token and clears the cookie.

Response:
  - 200: {message}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.authService.Logout(request.Context(), middleware.SessionToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookie(writer)
	respond.Message(writer, msgLogoutSucceeded)
}

/*
GET /api/me.

Response:
  - 200: Identity of the session owner
  - 401: session failures
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Me(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// # Cookies

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Domain:   handler.cookies.Domain,
		Expires:  expiresAt,
		MaxAge:   int(constants.SessionTTL / time.Second),
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		Domain:   handler.cookies.Domain,
		MaxAge:   -1,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
