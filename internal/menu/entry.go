// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package menu manages the extra navigation entries shown by the portal
(table appmenuextra).

Each entry is a link with audience attributes (user type, education level,
context), a color tag and a visibility flag. Entries are written through
the same payload normalization as users, so the dashboard may send keys in
any case.
*/
package menu

import (
	"time"

	"github.com/taibuivan/adminportal/internal/platform/payload"
	"github.com/taibuivan/adminportal/internal/platform/validate"
)

// Visibility flag values.
const (
	Visible = "S"
	Hidden  = "N"
)

// # Domain Entities

// Entry is one appmenuextra row.
type Entry struct {
	ID             int64      `json:"IDMENU"`
	Title          string     `json:"TITULO"`
	Icon           *string    `json:"ICONE"`
	URL            string     `json:"URL"`
	UserType       *string    `json:"TIPOUSUARIO"`
	EducationLevel *string    `json:"NIVELENSINO"`
	UserContext    *string    `json:"CONTEXTOUSUARIO"`
	Color          *string    `json:"COR"`
	Visible        string     `json:"VISIVEL"`
	Target         *string    `json:"TARGET"`
	CreatedBy      string     `json:"USUARIOCAD"`
	CreatedAt      time.Time  `json:"DATACAD"`
	ModifiedBy     *string    `json:"USUARIOALT"`
	ModifiedAt     *time.Time `json:"DATAALT"`
}

// # Wire Fields

// Canonical field names accepted on create and update.
const (
	FieldTitle          = "TITULO"
	FieldIcon           = "ICONE"
	FieldURL            = "URL"
	FieldUserType       = "TIPOUSUARIO"
	FieldEducationLevel = "NIVELENSINO"
	FieldUserContext    = "CONTEXTOUSUARIO"
	FieldColor          = "COR"
	FieldVisible        = "VISIVEL"
	FieldTarget         = "TARGET"
)

// Fields is the payload table for menu entry bodies.
var Fields = payload.FieldTable{
	Writable: []string{
		FieldTitle, FieldIcon, FieldURL, FieldUserType, FieldEducationLevel,
		FieldUserContext, FieldColor, FieldVisible, FieldTarget,
	},
	Managed: []string{"IDMENU", "USUARIOCAD", "DATACAD", "USUARIOALT", "DATAALT"},
	Aliases: map[string]string{"ID": "IDMENU"},
}

// Input is a decoded menu entry body.
type Input struct {
	Title          payload.Field[string]
	Icon           payload.Field[string]
	URL            payload.Field[string]
	UserType       payload.Field[string]
	EducationLevel payload.Field[string]
	UserContext    payload.Field[string]
	Color          payload.Field[string]
	Visible        payload.Field[string]
	Target         payload.Field[string]
}

// InputFromPayload reads every entry field from obj. Type errors go to v.
func InputFromPayload(obj payload.Object, v *validate.Validator) Input {
	return Input{
		Title:          obj.String(FieldTitle, v),
		Icon:           obj.String(FieldIcon, v),
		URL:            obj.String(FieldURL, v),
		UserType:       obj.String(FieldUserType, v),
		EducationLevel: obj.String(FieldEducationLevel, v),
		UserContext:    obj.String(FieldUserContext, v),
		Color:          obj.String(FieldColor, v),
		Visible:        obj.String(FieldVisible, v),
		Target:         obj.String(FieldTarget, v),
	}
}

// ListFilter narrows GET /api/appmenuextra.
type ListFilter struct {
	// Query matches title or URL, case-insensitively.
	Query string

	// Visible is "S", "N" or empty for both.
	Visible string
}
