// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package menu

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

// Handler implements the HTTP layer for /api/appmenuextra.
type Handler struct {
	service *Service
}

// NewHandler constructs a new menu [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the menu entry endpoints on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
}

/*
GET /api/appmenuextra.

Query:
  - q: substring of TITULO or URL
  - visivel: S/N
  - page, limit: switch to the paginated envelope
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := ListFilter{Query: query.Get("q")}

	switch strings.ToUpper(strings.TrimSpace(query.Get("visivel"))) {
	case Visible:
		filter.Visible = Visible
	case Hidden:
		filter.Visible = Hidden
	}

	page, paginated := pagination.FromRequest(request)

	entries, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if paginated {
		respond.Paginated(writer, entries, pagination.NewMeta(*page, total))
		return
	}
	respond.OK(writer, entries)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", ErrEntryNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
POST /api/appmenuextra.

Response:
  - 201: Entry
  - 422: TITULO, URL and VISIVEL are required
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

	entry, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

// PUT /api/appmenuextra/{id}. Only the fields present in the body change.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.IntID(request, "id", ErrEntryNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Update(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", ErrEntryNotFound)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Menu Extra excluído com sucesso")
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
