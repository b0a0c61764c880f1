// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package menu

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/dberr"
	"github.com/taibuivan/adminportal/internal/platform/payload"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/platform/validate"
	"github.com/taibuivan/adminportal/pkg/pagination"
	"github.com/taibuivan/adminportal/pkg/pointer"
)

// Column widths of appmenuextra.
const (
	maxTitleLen    = 255
	maxIconLen     = 100
	maxURLLen      = 500
	maxAudienceLen = 50
	maxColorLen    = 30
	maxTargetLen   = 20
)

// ErrEntryNotFound is returned for unknown menu entry ids.
var ErrEntryNotFound = apperr.NotFound("Menu Extra não encontrado")

// Service implements the menu entry operations.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a menu [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for audit stamps.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// List returns the entries matching filter.
func (service *Service) List(ctx context.Context, filter ListFilter, page *pagination.Params) ([]*Entry, int, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return service.repository.List(ctx, filter, page)
}

// Get returns one entry.
func (service *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	entry, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return entry, nil
}

/*
Create validates input and inserts a new entry stamped with actor.

Required: TITULO, URL, VISIVEL ("S" or "N"). Optional text fields may be null.
*/
func (service *Service) Create(ctx context.Context, actor *sec.Principal, input Input) (*Entry, error) {
	v := &validate.Validator{}
	v.Custom(FieldTitle, !input.Title.Set(), validate.MsgRequired).
		Custom(FieldURL, !input.URL.Set(), validate.MsgRequired).
		Custom(FieldVisible, !input.Visible.Set(), validate.MsgRequired)
	checkFields(v, input)

	if err := v.Err(); err != nil {
		return nil, err
	}

	entry := &Entry{
		Title:          strings.TrimSpace(input.Title.Value),
		Icon:           input.Icon.Ptr(),
		URL:            strings.TrimSpace(input.URL.Value),
		UserType:       input.UserType.Ptr(),
		EducationLevel: input.EducationLevel.Ptr(),
		UserContext:    input.UserContext.Ptr(),
		Color:          input.Color.Ptr(),
		Visible:        input.Visible.Value,
		Target:         input.Target.Ptr(),
		CreatedBy:      actor.Actor(),
		CreatedAt:      service.now(),
	}

	if err := service.repository.Create(ctx, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "menu_entry_created",
		slog.Int64("menu_id", entry.ID),
		slog.String("actor", actor.Actor()),
	)
	return entry, nil
}

/*
Update merges the present fields of input into entry id.

Absent fields keep their stored value; a present null clears an optional
field. USUARIOALT/DATAALT are stamped on every call.
*/
func (service *Service) Update(ctx context.Context, actor *sec.Principal, id int64, input Input) (*Entry, error) {
	entry, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	v := &validate.Validator{}
	v.Custom(FieldTitle, input.Title.Null, validate.MsgRequired).
		Custom(FieldURL, input.URL.Null, validate.MsgRequired).
		Custom(FieldVisible, input.Visible.Null, validate.MsgRequired)
	checkFields(v, input)

	if err := v.Err(); err != nil {
		return nil, err
	}

	if input.Title.Set() {
		entry.Title = strings.TrimSpace(input.Title.Value)
	}
	if input.URL.Set() {
		entry.URL = strings.TrimSpace(input.URL.Value)
	}
	if input.Visible.Set() {
		entry.Visible = input.Visible.Value
	}
	mergeOptional(&entry.Icon, input.Icon)
	mergeOptional(&entry.UserType, input.UserType)
	mergeOptional(&entry.EducationLevel, input.EducationLevel)
	mergeOptional(&entry.UserContext, input.UserContext)
	mergeOptional(&entry.Color, input.Color)
	mergeOptional(&entry.Target, input.Target)

	entry.ModifiedBy = pointer.To(actor.Actor())
	entry.ModifiedAt = pointer.To(service.now())

	if err := service.repository.Update(ctx, entry); err != nil {
		return nil, notFound(err)
	}

	service.logger.InfoContext(ctx, "menu_entry_updated",
		slog.Int64("menu_id", entry.ID),
		slog.String("actor", actor.Actor()),
	)
	return entry, nil
}

// Delete removes entry id.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	service.logger.WarnContext(ctx, "menu_entry_deleted", slog.Int64("menu_id", id))
	return nil
}

// # Validation

func checkFields(v *validate.Validator, input Input) {
	if input.Title.Set() {
		v.Required(FieldTitle, input.Title.Value).MaxLen(FieldTitle, input.Title.Value, maxTitleLen)
	}
	if input.URL.Set() {
		v.Required(FieldURL, input.URL.Value).MaxLen(FieldURL, input.URL.Value, maxURLLen)
	}
	if input.Visible.Set() {
		v.OneOf(FieldVisible, input.Visible.Value, Visible, Hidden)
	}

	optional := []struct {
		field string
		value payload.Field[string]
		max   int
	}{
		{FieldIcon, input.Icon, maxIconLen},
		{FieldUserType, input.UserType, maxAudienceLen},
		{FieldEducationLevel, input.EducationLevel, maxAudienceLen},
		{FieldUserContext, input.UserContext, maxAudienceLen},
		{FieldColor, input.Color, maxColorLen},
		{FieldTarget, input.Target, maxTargetLen},
	}
	for _, o := range optional {
		if o.value.Set() {
			v.MaxLen(o.field, o.value.Value, o.max)
		}
	}
}

// mergeOptional applies a nullable field: absent keeps, null clears, set replaces.
func mergeOptional(dst **string, field payload.Field[string]) {
	if field.Present {
		*dst = field.Ptr()
	}
}

func notFound(err error) error {
	if dberr.IsNotFound(err) {
		return ErrEntryNotFound.WithCause(err)
	}
	return err
}
