// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the session context lookup
behind small helpers so handlers stay uniform.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/constants"
	"github.com/taibuivan/adminportal/internal/platform/ctxutil"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/platform/validate"
)

/*
DecodeJSON decodes a size-limited request body into target.

Returns validate.ErrInvalidJSON if the body is not a single valid JSON value.
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, constants.MaxRequestBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IntID parses a positive integer URL parameter.

A non-numeric id can never match a row, so it is reported as notFound.
*/
func IntID(request *http.Request, name string, notFound *apperr.AppError) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

/*
RequiredPrincipal returns the acting identity set by the session guard.

Returns apperr TOKEN_MISSING if the route was mounted without the guard.
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.UnauthorizedCode(apperr.CodeTokenMissing, "Token não encontrado")
	}
	return principal, nil
}
