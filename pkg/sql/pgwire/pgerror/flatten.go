// Copyright 2019 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pgerror

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
)

// Error is the flattened form of an error, as reported to a client.
type Error struct {
	Code     string
	Message  string
	Hint     string
	Detail   string
	Position int
	// HasPosition is false if no position was attached to the error.
	HasPosition bool
}

// InternalErrorPrefix is prepended to internal errors.
const InternalErrorPrefix = "internal error: "

// Flatten turns any error into a pgerror with fields populated.
// Returns a nil ptr if err was nil to start with.
func Flatten(err error) *Error {
	if err == nil {
		return nil
	}
	resErr := &Error{
		Code:    GetPGCode(err).String(),
		Message: err.Error(),
		Hint:    strings.Join(errors.GetAllHints(err), "\n"),
		Detail:  strings.Join(errors.GetAllDetails(err), "\n"),
	}
	resErr.Position, resErr.HasPosition = GetPosition(err)
	if resErr.Code == pgcode.Internal.String() && !strings.HasPrefix(resErr.Message, InternalErrorPrefix) {
		resErr.Message = InternalErrorPrefix + resErr.Message
	}
	return resErr
}

// FullError returns a string with the message, code, position, hint and
// detail of the error, in the layout of psql's verbose error output.
func FullError(err error) string {
	pgErr := Flatten(err)
	if pgErr == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ERROR: %s\nSQLSTATE: %s", pgErr.Message, pgErr.Code)
	if pgErr.HasPosition {
		fmt.Fprintf(&b, "\nPOSITION: %d", pgErr.Position)
	}
	if pgErr.Detail != "" {
		fmt.Fprintf(&b, "\nDETAIL: %s", pgErr.Detail)
	}
	if pgErr.Hint != "" {
		fmt.Fprintf(&b, "\nHINT: %s", pgErr.Hint)
	}
	return b.String()
}
