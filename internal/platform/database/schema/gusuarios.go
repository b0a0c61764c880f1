// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes table and column names used in SQL queries.
package schema

// UsuariosTable describes the gusuarios table.
type UsuariosTable struct {
	Table             string
	ID                string
	Active            string
	Name              string
	Email             string
	Login             string
	PasswordHash      string
	Phone             string
	Image             string
	ProfileID         string
	DepartmentID      string
	CreatedBy         string
	CreatedAt         string
	ModifiedBy        string
	ModifiedAt        string
	LastAccessAt      string
	PasswordChangedAt string
}

// Usuarios is the schema definition for gusuarios.
var Usuarios = UsuariosTable{
	Table:             "gusuarios",
	ID:                "idusuario",
	Active:            "ativo",
	Name:              "nome",
	Email:             "email",
	Login:             "login",
	PasswordHash:      "senhahash",
	Phone:             "telefone",
	Image:             "imagem",
	ProfileID:         "idperfil",
	DepartmentID:      "iddepart",
	CreatedBy:         "usuariocad",
	CreatedAt:         "datacad",
	ModifiedBy:        "usuarioalt",
	ModifiedAt:        "dataalt",
	LastAccessAt:      "dtultimoacesso",
	PasswordChangedAt: "senhaultimaalt",
}

// Columns returns every column in scan order.
func (t UsuariosTable) Columns() []string {
	return []string{
		t.ID, t.Active, t.Name, t.Email, t.Login, t.PasswordHash, t.Phone, t.Image,
		t.ProfileID, t.DepartmentID, t.CreatedBy, t.CreatedAt, t.ModifiedBy,
		t.ModifiedAt, t.LastAccessAt, t.PasswordChangedAt,
	}
}

// Writable returns the columns set by INSERT, in argument order.
func (t UsuariosTable) Writable() []string {
	return []string{
		t.Active, t.Name, t.Email, t.Login, t.PasswordHash, t.Phone, t.Image,
		t.ProfileID, t.DepartmentID, t.CreatedBy, t.CreatedAt, t.ModifiedBy,
		t.ModifiedAt, t.LastAccessAt, t.PasswordChangedAt,
	}
}
