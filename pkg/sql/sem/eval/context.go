// Copyright 2022 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package eval binds scalar expressions to the builtin functions that
// implement them.
package eval

import (
	"context"

	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/cockroachdb/stgeo/pkg/settings"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// GeometryCodec reads and writes geometry text. *geo.WKTCodec implements it.
type GeometryCodec interface {
	ParseGeometry(str string) (geo.Geometry, error)
	AppendWKT(buf []byte, g geo.Geometry) ([]byte, error)
}

var _ GeometryCodec = (*geo.WKTCodec)(nil)

// Context defines the context in which expressions are bound and evaluated.
type Context struct {
	// Context is used for logging during binding.
	Context context.Context
	// Settings holds the current values of the settings.
	Settings *settings.Values
	// Codec is used by the builtins to read and write geometry text.
	Codec GeometryCodec
	// ColumnTypes are the types of the columns of the input rows. They
	// resolve the types of @N references.
	ColumnTypes []*types.T
}

// MakeTestingEvalContext returns a Context with default settings and a
// fresh codec, for use in tests.
func MakeTestingEvalContext(columnTypes ...*types.T) Context {
	sv := settings.MakeValues()
	return Context{
		Context:     context.Background(),
		Settings:    sv,
		Codec:       geo.NewWKTCodec(sv, nil /* metrics */),
		ColumnTypes: columnTypes,
	}
}

// Ctx returns the context.Context, defaulting to context.Background.
func (ec *Context) Ctx() context.Context {
	if ec.Context == nil {
		return context.Background()
	}
	return ec.Context
}
