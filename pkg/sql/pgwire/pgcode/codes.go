// Copyright 2019 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pgcode defines the PostgreSQL error codes reported by the
// spatial functions.
package pgcode

// Code is a wrapper around a string to ensure that pgcodes don't get
// interchanged with regular strings.
type Code struct {
	code string
}

// MakeCode converts a string into a Code.
func MakeCode(s string) Code {
	return Code{code: s}
}

// String returns the underlying pg code string.
func (c Code) String() string {
	return c.code
}

// PG error codes from: http://www.postgresql.org/docs/9.5/static/errcodes-appendix.html.
var (
	// Section: Class 22 - Data Exception
	NumericValueOutOfRange = MakeCode("22003")
	InvalidParameterValue  = MakeCode("22023")
	// Section: Class 42 - Syntax Error or Access Rule Violation
	Syntax            = MakeCode("42601")
	DatatypeMismatch  = MakeCode("42804")
	UndefinedColumn   = MakeCode("42703")
	UndefinedFunction = MakeCode("42883")
	// Section: Class XX - Internal Error
	Internal = MakeCode("XX000")
	// Uncategorized is used for errors that flow out to a client
	// when there's no code known yet.
	Uncategorized = MakeCode("XXUUU")
)
