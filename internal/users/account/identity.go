// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages portal users (table gusuarios).

It holds the Identity entity shared with the auth package, the credential
store used by login, and the CRUD service behind /api/users.

# Wire Format

Identities are serialized with the upper-case column names the dashboard
expects (IDUSUARIO, NOME, EMAIL, ...). The password hash is never written
to any response.
*/
package account

import (
	"time"

	"github.com/taibuivan/adminportal/internal/platform/payload"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/platform/validate"
)

// # Domain Entities

// Identity is a portal user.
type Identity struct {
	ID                int64      `json:"IDUSUARIO"`
	Active            bool       `json:"ATIVO"`
	Name              string     `json:"NOME"`
	Email             string     `json:"EMAIL"`
	Login             string     `json:"LOGIN"`
	PasswordHash      string     `json:"-"`
	Phone             *string    `json:"TELEFONE"`
	Image             *string    `json:"IMAGEM"`
	ProfileID         int64      `json:"IDPERFIL"`
	DepartmentID      int64      `json:"IDDEPART"`
	CreatedBy         string     `json:"USUARIOCAD"`
	CreatedAt         time.Time  `json:"DATACAD"`
	ModifiedBy        *string    `json:"USUARIOALT"`
	ModifiedAt        *time.Time `json:"DATAALT"`
	LastAccessAt      *time.Time `json:"DTULTIMOACESSO"`
	PasswordChangedAt *time.Time `json:"SENHAULTIMAALT"`
}

// Principal returns the request identity derived from this user.
func (identity *Identity) Principal() sec.Principal {
	return sec.Principal{
		ID:    identity.ID,
		Login: identity.Login,
		Name:  identity.Name,
	}
}

// # Wire Fields

// Canonical field names accepted on create and update.
const (
	FieldActive       = "ATIVO"
	FieldName         = "NOME"
	FieldEmail        = "EMAIL"
	FieldLogin        = "LOGIN"
	FieldPassword     = "SENHA"
	FieldPhone        = "TELEFONE"
	FieldImage        = "IMAGEM"
	FieldProfileID    = "IDPERFIL"
	FieldDepartmentID = "IDDEPART"
)

// Fields is the payload table for user bodies.
//
// Ids and audit stamps echoed back by the dashboard edit form are accepted
// and dropped; the server owns them.
var Fields = payload.FieldTable{
	Writable: []string{
		FieldActive, FieldName, FieldEmail, FieldLogin, FieldPassword,
		FieldPhone, FieldImage, FieldProfileID, FieldDepartmentID,
	},
	Managed: []string{
		"IDUSUARIO", "USUARIOCAD", "DATACAD", "USUARIOALT", "DATAALT",
		"DTULTIMOACESSO", "SENHAULTIMAALT",
	},
	Aliases: map[string]string{
		"ID":           "IDUSUARIO",
		"ULTIMOACESSO": "DTULTIMOACESSO",
	},
}

// Input is a decoded user body. Absent fields have Present == false.
type Input struct {
	Active       payload.Field[bool]
	Name         payload.Field[string]
	Email        payload.Field[string]
	Login        payload.Field[string]
	Password     payload.Field[string]
	Phone        payload.Field[string]
	Image        payload.Field[string]
	ProfileID    payload.Field[int64]
	DepartmentID payload.Field[int64]
}

// InputFromPayload reads every user field from obj. Type errors go to v.
func InputFromPayload(obj payload.Object, v *validate.Validator) Input {
	return Input{
		Active:       obj.Bool(FieldActive, v),
		Name:         obj.String(FieldName, v),
		Email:        obj.String(FieldEmail, v),
		Login:        obj.String(FieldLogin, v),
		Password:     obj.String(FieldPassword, v),
		Phone:        obj.String(FieldPhone, v),
		Image:        obj.String(FieldImage, v),
		ProfileID:    obj.Int(FieldProfileID, v),
		DepartmentID: obj.Int(FieldDepartmentID, v),
	}
}

// ListFilter narrows GET /api/users.
type ListFilter struct {
	// Query matches name, login or email, case-insensitively.
	Query  string
	Active *bool
}
