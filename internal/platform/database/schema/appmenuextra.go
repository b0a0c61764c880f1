// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MenuExtraTable describes the appmenuextra table.
type MenuExtraTable struct {
	Table          string
	ID             string
	Title          string
	Icon           string
	URL            string
	UserType       string
	EducationLevel string
	UserContext    string
	Color          string
	Visible        string
	Target         string
	CreatedBy      string
	CreatedAt      string
	ModifiedBy     string
	ModifiedAt     string
}

// MenuExtra is the schema definition for appmenuextra.
var MenuExtra = MenuExtraTable{
	Table:          "appmenuextra",
	ID:             "idmenu",
	Title:          "titulo",
	Icon:           "icone",
	URL:            "url",
	UserType:       "tipousuario",
	EducationLevel: "nivelensino",
	UserContext:    "contextousuario",
	Color:          "cor",
	Visible:        "visivel",
	Target:         "target",
	CreatedBy:      "usuariocad",
	CreatedAt:      "datacad",
	ModifiedBy:     "usuarioalt",
	ModifiedAt:     "dataalt",
}

// Columns returns every column in scan order.
func (t MenuExtraTable) Columns() []string {
	return append([]string{t.ID}, t.Writable()...)
}

// Writable returns the columns set by INSERT and UPDATE, in argument order.
func (t MenuExtraTable) Writable() []string {
	return []string{
		t.Title, t.Icon, t.URL, t.UserType, t.EducationLevel, t.UserContext,
		t.Color, t.Visible, t.Target, t.CreatedBy, t.CreatedAt, t.ModifiedBy,
		t.ModifiedAt,
	}
}
