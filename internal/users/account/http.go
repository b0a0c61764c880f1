// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/adminportal/internal/platform/constants"
	"github.com/taibuivan/adminportal/internal/platform/payload"
	requestutil "github.com/taibuivan/adminportal/internal/platform/request"
	"github.com/taibuivan/adminportal/internal/platform/respond"
	"github.com/taibuivan/adminportal/internal/platform/validate"
	"github.com/taibuivan/adminportal/pkg/pagination"
)

// Handler implements the HTTP layer for /api/users.
//
// Every route expects the session guard to have run.
type Handler struct {
	service *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user CRUD endpoints on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
}

/*
GET /api/users.

Query:
  - q: substring of NOME, LOGIN or EMAIL
  - ativo: S/N
  - page, limit: switch to the paginated {data, meta} envelope

Response:
  - 200: []Identity
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := ListFilter{Query: query.Get("q")}

	switch strings.ToUpper(query.Get("ativo")) {
	case "S", "1", "TRUE":
		active := true
		filter.Active = &active
	case "N", "0", "FALSE":
		active := false
		filter.Active = &active
	}

	page, paginated := pagination.FromRequest(request)

	identities, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if paginated {
		respond.Paginated(writer, identities, pagination.NewMeta(*page, total))
		return
	}
	respond.OK(writer, identities)
}

/*
GET /api/users/{id}.

Response:
  - 200: Identity
  - 404: Usuário não encontrado
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", ErrUserNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
POST /api/users.

Response:
  - 201: Identity
  - 422: field errors keyed by upper-case field name
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, identity)
}

/*
PUT /api/users/{id}.

Only the fields present in the body change.

Response:
  - 200: Identity
  - 404: Usuário não encontrado
  - 422: field errors
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.IntID(request, "id", ErrUserNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Update(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// DELETE /api/users/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", ErrUserNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Usuário deletado com sucesso")
}

func decodeInput(writer http.ResponseWriter, request *http.Request) (Input, error) {
	body := http.MaxBytesReader(writer, request.Body, constants.MaxRequestBodyBytes)

	obj, err := payload.Decode(body, Fields)
	if err != nil {
		return Input{}, err
	}

	v := &validate.Validator{}
	input := InputFromPayload(obj, v)
	return input, v.Err()
}
