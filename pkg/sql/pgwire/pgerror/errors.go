// Copyright 2019 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pgerror attaches PostgreSQL error codes and statement positions
// to errors built with github.com/cockroachdb/errors.
package pgerror

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
)

// New creates an error with a code.
func New(code pgcode.Code, msg string) error {
	err := errors.NewWithDepth(1, msg)
	err = WithCandidateCode(err, code)
	return err
}

// Newf creates an Error with a format string.
func Newf(code pgcode.Code, format string, args ...interface{}) error {
	err := errors.NewWithDepthf(1, format, args...)
	err = WithCandidateCode(err, code)
	return err
}

// WithCandidateCode decorates the error with a candidate postgres
// error code. It is called "candidate" because the code is only used
// by GetPGCode() below if there is no code in the cause.
func WithCandidateCode(err error, code pgcode.Code) error {
	if err == nil {
		return nil
	}
	return &withCandidateCode{cause: err, code: code}
}

// GetPGCode retrieves the error code for an error. The innermost
// code wins. Assertion failures are reported as internal errors.
func GetPGCode(err error) pgcode.Code {
	code := pgcode.Uncategorized
	for c := err; c != nil; c = errors.UnwrapOnce(c) {
		if w, ok := c.(*withCandidateCode); ok {
			code = w.code
		}
	}
	if code == pgcode.Uncategorized && errors.IsAssertionFailure(err) {
		code = pgcode.Internal
	}
	return code
}

type withCandidateCode struct {
	cause error
	code  pgcode.Code
}

var _ error = (*withCandidateCode)(nil)
var _ errors.SafeFormatter = (*withCandidateCode)(nil)

func (w *withCandidateCode) Error() string                 { return w.cause.Error() }
func (w *withCandidateCode) Cause() error                  { return w.cause }
func (w *withCandidateCode) Unwrap() error                 { return w.cause }
func (w *withCandidateCode) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

func (w *withCandidateCode) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("candidate pg code: %s", redact.SafeString(w.code.String()))
	}
	return w.cause
}

// WithPosition decorates the error with the byte offset in the input
// expression at which the error was detected.
func WithPosition(err error, pos int) error {
	if err == nil {
		return nil
	}
	return &withPosition{cause: err, pos: pos}
}

// GetPosition returns the outermost position attached to the error.
func GetPosition(err error) (int, bool) {
	for c := err; c != nil; c = errors.UnwrapOnce(c) {
		if w, ok := c.(*withPosition); ok {
			return w.pos, true
		}
	}
	return 0, false
}

type withPosition struct {
	cause error
	pos   int
}

var _ error = (*withPosition)(nil)
var _ errors.SafeFormatter = (*withPosition)(nil)

func (w *withPosition) Error() string                 { return w.cause.Error() }
func (w *withPosition) Cause() error                  { return w.cause }
func (w *withPosition) Unwrap() error                 { return w.cause }
func (w *withPosition) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

func (w *withPosition) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("position: %d", w.pos)
	}
	return w.cause
}
