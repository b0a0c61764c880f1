// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payload_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/payload"
	"github.com/taibuivan/adminportal/internal/platform/validate"
)

var table = payload.FieldTable{
	Writable: []string{"TITULO", "URL", "VISIVEL", "ORDEM"},
	Managed:  []string{"IDMENU", "DATACAD"},
	Aliases:  map[string]string{"ID": "IDMENU"},
}

func decode(t *testing.T, body string) payload.Object {
	t.Helper()
	obj, err := payload.Decode(strings.NewReader(body), table)
	require.NoError(t, err)
	return obj
}

/*
TestDecode_CaseInsensitiveKeys verifies that any casing maps to one field.
*/
func TestDecode_CaseInsensitiveKeys(t *testing.T) {
	for _, body := range []string{
		`{"TITULO":"Notas","URL":"/notas"}`,
		`{"titulo":"Notas","url":"/notas"}`,
		`{"Titulo":"Notas","uRl":"/notas"}`,
	} {
		v := &validate.Validator{}
		obj := decode(t, body)

		assert.Equal(t, "Notas", obj.String("TITULO", v).Value, body)
		assert.Equal(t, "/notas", obj.String("URL", v).Value, body)
		assert.False(t, v.HasErrors())
	}
}

func TestDecode_ManagedFieldsDropped(t *testing.T) {
	obj := decode(t, `{"id":9,"IDMENU":9,"datacad":"2024-01-01","titulo":"X"}`)

	assert.False(t, obj.Has("IDMENU"))
	assert.False(t, obj.Has("DATACAD"))
	assert.Equal(t, 1, obj.Len())
}

/*
TestDecode_Rejections covers unknown keys, collisions and non-object bodies.
*/
func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"unknown_key", `{"titulo":"a","SENHA":"x"}`, "SENHA"},
		{"case_collision", `{"titulo":"a","TITULO":"b"}`, "TITULO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payload.Decode(strings.NewReader(tt.body), table)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 422, ae.HTTPStatus)
			assert.Contains(t, apperr.FieldMap(ae.Details), tt.wantField)
		})
	}

	for _, body := range []string{``, `[]`, `null`, `{"titulo":`, `{"TITULO":"a"} garbage`, `{"TITULO":"a"}}`, `{} {}`} {
		_, err := payload.Decode(strings.NewReader(body), table)
		assert.ErrorIs(t, err, validate.ErrInvalidJSON, body)
	}
}

/*
TestObject_TriState verifies absent, null and set values.
*/
func TestObject_TriState(t *testing.T) {
	v := &validate.Validator{}
	obj := decode(t, `{"titulo":null,"url":"/x"}`)

	titulo := obj.String("TITULO", v)
	assert.True(t, titulo.Present)
	assert.True(t, titulo.Null)
	assert.Nil(t, titulo.Ptr())

	visivel := obj.Bool("VISIVEL", v)
	assert.False(t, visivel.Present)

	url := obj.String("URL", v)
	require.NotNil(t, url.Ptr())
	assert.Equal(t, "/x", *url.Ptr())
}

func TestObject_FormEncodings(t *testing.T) {
	tests := []struct {
		body     string
		wantInt  payload.Field[int64]
		wantBool payload.Field[bool]
		errors   int
	}{
		{`{"ordem":3,"visivel":true}`, payload.Field[int64]{Present: true, Value: 3}, payload.Field[bool]{Present: true, Value: true}, 0},
		{`{"ordem":"12","visivel":"N"}`, payload.Field[int64]{Present: true, Value: 12}, payload.Field[bool]{Present: true}, 0},
		{`{"ordem":"","visivel":""}`, payload.Field[int64]{Present: true, Null: true}, payload.Field[bool]{Present: true, Null: true}, 0},
		{`{"ordem":1.5,"visivel":"talvez"}`, payload.Field[int64]{Present: true}, payload.Field[bool]{Present: true}, 2},
		{`{"ordem":"abc","visivel":1}`, payload.Field[int64]{Present: true}, payload.Field[bool]{Present: true, Value: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			v := &validate.Validator{}
			obj := decode(t, tt.body)

			assert.Equal(t, tt.wantInt, obj.Int("ORDEM", v))
			assert.Equal(t, tt.wantBool, obj.Bool("VISIVEL", v))

			if tt.errors == 0 {
				assert.NoError(t, v.Err())
				return
			}
			assert.Len(t, apperr.As(v.Err()).Details, tt.errors)
		})
	}
}

func TestObject_StringTypeError(t *testing.T) {
	v := &validate.Validator{}
	obj := decode(t, `{"titulo":42}`)

	obj.String("TITULO", v)
	assert.True(t, v.Failed("TITULO"))
}
