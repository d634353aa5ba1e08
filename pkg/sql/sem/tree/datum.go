// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// Datum represents a SQL value. Datums are constant typed expressions.
type Datum interface {
	TypedExpr

	// datum seals the interface, so that a type switch can tell values
	// apart from expressions that still have to be evaluated.
	datum()
}

// Datums is a slice of Datum values.
type Datums []Datum

// Format implements the NodeFormatter interface.
func (d *Datums) Format(ctx *FmtCtx) {
	ctx.WriteByte('(')
	for i, v := range *d {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(v)
	}
	ctx.WriteByte(')')
}

// DString is the string Datum.
type DString string

var _ Datum = (*DString)(nil)

// NewDString is a helper routine to create a *DString initialized from its
// argument.
func NewDString(d string) *DString {
	r := DString(d)
	return &r
}

// MustBeDString attempts to retrieve a DString from an Expr, panicking if the
// assertion fails.
func MustBeDString(e Expr) DString {
	i, ok := e.(*DString)
	if !ok {
		panic(errors.AssertionFailedf("expected *DString, found %T", e))
	}
	return *i
}

// ResolvedType implements the TypedExpr interface.
func (*DString) ResolvedType() *types.T { return types.String }

// IsConstant implements the TypedExpr interface.
func (*DString) IsConstant() bool { return true }

// Eval implements the TypedExpr interface.
func (d *DString) Eval(Datums) (Datum, error) { return d, nil }

func (*DString) datum() {}

// Format implements the NodeFormatter interface.
func (d *DString) Format(ctx *FmtCtx) {
	encodeSQLString(&ctx.Builder, string(*d))
}

func (d *DString) String() string { return AsString(d) }

// DFloat is the float Datum.
type DFloat float64

var _ Datum = (*DFloat)(nil)

// NewDFloat is a helper routine to create a *DFloat initialized from its
// argument.
func NewDFloat(d DFloat) *DFloat {
	return &d
}

// MustBeDFloat attempts to retrieve a DFloat from an Expr, panicking if the
// assertion fails.
func MustBeDFloat(e Expr) DFloat {
	i, ok := e.(*DFloat)
	if !ok {
		panic(errors.AssertionFailedf("expected *DFloat, found %T", e))
	}
	return *i
}

// ResolvedType implements the TypedExpr interface.
func (*DFloat) ResolvedType() *types.T { return types.Float }

// IsConstant implements the TypedExpr interface.
func (*DFloat) IsConstant() bool { return true }

// Eval implements the TypedExpr interface.
func (d *DFloat) Eval(Datums) (Datum, error) { return d, nil }

func (*DFloat) datum() {}

// IsNaN returns whether the value is NaN.
func (d *DFloat) IsNaN() bool { return math.IsNaN(float64(*d)) }

// Format implements the NodeFormatter interface. Integral values keep a
// trailing ".0" so that they read back as floats.
func (d *DFloat) Format(ctx *FmtCtx) {
	f := float64(*d)
	switch {
	case math.IsNaN(f):
		ctx.WriteString("NaN")
	case math.IsInf(f, 1):
		ctx.WriteString("+Inf")
	case math.IsInf(f, -1):
		ctx.WriteString("-Inf")
	default:
		var buf [32]byte
		b := strconv.AppendFloat(buf[:0], f, 'g', -1, 64)
		ctx.Write(b)
		if !containsAny(b, ".eE") {
			ctx.WriteString(".0")
		}
	}
}

func (d *DFloat) String() string { return AsString(d) }

func containsAny(b []byte, chars string) bool {
	for _, c := range b {
		for i := 0; i < len(chars); i++ {
			if c == chars[i] {
				return true
			}
		}
	}
	return false
}

type dNull struct{}

// DNull is the NULL Datum.
var DNull Datum = dNull{}

// ResolvedType implements the TypedExpr interface.
func (dNull) ResolvedType() *types.T { return types.Unknown }

// IsConstant implements the TypedExpr interface.
func (dNull) IsConstant() bool { return true }

// Eval implements the TypedExpr interface.
func (d dNull) Eval(Datums) (Datum, error) { return d, nil }

func (dNull) datum() {}

// Format implements the NodeFormatter interface.
func (dNull) Format(ctx *FmtCtx) { ctx.WriteString("NULL") }

func (d dNull) String() string { return AsString(d) }

// AsDString attempts to retrieve a DString from an Expr, returning a
// DString and a flag signifying whether the assertion was successful.
func AsDString(e Expr) (DString, bool) {
	if d, ok := e.(*DString); ok {
		return *d, true
	}
	return "", false
}

// AsDFloat attempts to retrieve a DFloat from an Expr, returning a DFloat
// and a flag signifying whether the assertion was successful.
func AsDFloat(e Expr) (DFloat, bool) {
	if d, ok := e.(*DFloat); ok {
		return *d, true
	}
	return 0, false
}
