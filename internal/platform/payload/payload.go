// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package payload maps loosely-cased JSON request bodies onto a fixed set of
canonical field names.

The dashboard sends record keys in whatever case its forms use ("email",
"EMAIL", "Email"). Every key is upper-cased once, here, and resolved through
a per-entity [FieldTable]:

  - writable fields are kept for the service to validate,
  - server-managed fields (ids, audit stamps) are accepted and dropped,
  - anything else is rejected with a 422 keyed to the offending field.

Typed accessors on [Object] then report each field as absent, null or set.
*/
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/adminportal/internal/platform/validate"
	"github.com/taibuivan/adminportal/pkg/pointer"
)

const (
	msgUnknownField   = "Campo desconhecido"
	msgDuplicateField = "Campo duplicado"
)

// FieldTable describes the accepted keys of one entity.
//
// All names are canonical upper-case. Aliases map an extra wire name to a
// writable or managed field.
type FieldTable struct {
	Writable []string
	Managed  []string
	Aliases  map[string]string
}

func (table FieldTable) resolve(name string) (canonical string, managed, ok bool) {
	if target, found := table.Aliases[name]; found {
		name = target
	}
	if slices.Contains(table.Writable, name) {
		return name, false, true
	}
	if slices.Contains(table.Managed, name) {
		return name, true, true
	}
	return "", false, false
}

// Object is a decoded body keyed by canonical field name.
type Object struct {
	values map[string]json.RawMessage
}

// Has reports whether key was sent (null included).
func (o Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Len returns the number of writable fields sent.
func (o Object) Len() int {
	return len(o.values)
}

// Decode reads a JSON object from r and normalizes its keys through table.
//
// The body must hold exactly one object. Unknown keys and keys that collapse
// onto the same canonical field are reported together as one validation error.
func Decode(r io.Reader, table FieldTable) (Object, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]json.RawMessage
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		return Object{}, validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return Object{}, validate.ErrInvalidJSON
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	upper := cases.Upper(language.Und)
	seen := make(map[string]bool, len(raw))
	values := make(map[string]json.RawMessage, len(raw))
	v := &validate.Validator{}

	for _, key := range keys {
		name := upper.String(strings.TrimSpace(key))

		canonical, managed, ok := table.resolve(name)
		if !ok {
			v.Add(name, msgUnknownField)
			continue
		}

		if seen[canonical] {
			if !v.Failed(canonical) {
				v.Add(canonical, msgDuplicateField)
			}
			continue
		}
		seen[canonical] = true

		if !managed {
			values[canonical] = raw[key]
		}
	}

	if err := v.Err(); err != nil {
		return Object{}, err
	}
	return Object{values: values}, nil
}

// # Typed Access

// Field is a tri-state view of one key: absent, explicitly null, or set.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Value returns a present, non-null field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Set reports whether the field carries a non-null value.
func (f Field[T]) Set() bool {
	return f.Present && !f.Null
}

// Ptr returns nil for absent or null fields and a pointer to Value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Set() {
		return nil
	}
	return pointer.To(f.Value)
}

var nullLiteral = []byte("null")

func (o Object) lookup(key string) (json.RawMessage, Field[struct{}]) {
	raw, ok := o.values[key]
	if !ok {
		return nil, Field[struct{}]{}
	}
	if bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return nil, Field[struct{}]{Present: true, Null: true}
	}
	return raw, Field[struct{}]{Present: true}
}

// String reads key as a JSON string. Type errors are added to v.
func (o Object) String(key string, v *validate.Validator) Field[string] {
	raw, state := o.lookup(key)
	if raw == nil {
		return Field[string]{Present: state.Present, Null: state.Null}
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		v.Add(key, "O campo deve ser um texto")
		return Field[string]{Present: true}
	}
	return Field[string]{Present: true, Value: value}
}

// Int reads key as an integer. Numeric strings are accepted and an empty
// string counts as null, matching what HTML form inputs submit.
func (o Object) Int(key string, v *validate.Validator) Field[int64] {
	raw, state := o.lookup(key)
	if raw == nil {
		return Field[int64]{Present: state.Present, Null: state.Null}
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		var text string
		if json.Unmarshal(raw, &text) != nil {
			v.Add(key, "O campo deve ser um número inteiro")
			return Field[int64]{Present: true}
		}
		if text = strings.TrimSpace(text); text == "" {
			return Field[int64]{Present: true, Null: true}
		}
		number = json.Number(text)
	}

	value, err := number.Int64()
	if err != nil {
		v.Add(key, "O campo deve ser um número inteiro")
		return Field[int64]{Present: true}
	}
	return Field[int64]{Present: true, Value: value}
}

// Bool reads key as a flag. Besides JSON booleans it accepts "S"/"N",
// "true"/"false" and 1/0 in either number or string form.
func (o Object) Bool(key string, v *validate.Validator) Field[bool] {
	raw, state := o.lookup(key)
	if raw == nil {
		return Field[bool]{Present: state.Present, Null: state.Null}
	}

	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return Field[bool]{Present: true, Value: flag}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(bytes.TrimSpace(raw))
	}

	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "":
		return Field[bool]{Present: true, Null: true}
	case "S", "1", "TRUE":
		return Field[bool]{Present: true, Value: true}
	case "N", "0", "FALSE":
		return Field[bool]{Present: true, Value: false}
	}

	v.Add(key, "O campo deve ser verdadeiro ou falso")
	return Field[bool]{Present: true}
}
