// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Request Identity

// Principal is the authenticated identity attached to a request.
//
// It is created by the session guard once per request and never mutated.
// Record services receive it explicitly as the acting user for
// created-by / modified-by stamps.
type Principal struct {
	ID    int64
	Login string
	Name  string
}

// Actor returns the value written to created-by / modified-by columns.
func (p *Principal) Actor() string {
	if p == nil {
		return ""
	}
	return p.Login
}
