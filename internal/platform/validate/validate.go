// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Validators run in the service layer, after [payload.Decode] has mapped wire
// keys to canonical field names. Messages are in Portuguese because the
// dashboard shows them next to the offending input.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
)

// Messages shared with callers that build field errors by hand.
const (
	MsgRequired = "O campo é obrigatório"
	MsgTaken    = "O valor informado já está em uso"
	MsgFailed   = "Os dados fornecidos são inválidos"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("JSON inválido")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.Add(field, MsgRequired)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, fmt.Sprintf("O campo não pode ter mais de %d caracteres", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.Add(field, fmt.Sprintf("O campo deve ter pelo menos %d caracteres", min))
	}
	return v
}

// Positive fails unless value > 0.
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.Add(field, "O campo deve ser um número positivo")
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
//
// Display-name forms like "Ana <ana@x.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, "O campo deve ser um endereço de e-mail válido")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.Add(field, fmt.Sprintf("O valor deve ser um de: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("EMAIL", taken, validate.MsgTaken)
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.Add(field, message)
	}
	return v
}

// Add records a failure for field.
func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// Failed reports whether field already has at least one failure.
func (v *Validator) Failed(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns a 422 [apperr.AppError] if any rule failed, or nil.
//
// This is the only output method. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(MsgFailed, v.errs...)
}
