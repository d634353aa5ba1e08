// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// IndexedVar is a VariableExpr that can be used as a leaf in expressions; it
// represents a dynamic value. It refers to the value at position Idx of the
// current row, and is rendered as @<Idx+1>.
type IndexedVar struct {
	Idx int
	// Typ is nil until the variable is type checked.
	Typ *types.T
}

var _ TypedExpr = &IndexedVar{}

// NewTypedOrdinalReference returns a new IndexedVar with the given index
// value and type.
func NewTypedOrdinalReference(r int, typ *types.T) *IndexedVar {
	return &IndexedVar{Idx: r, Typ: typ}
}

// ResolvedType implements the TypedExpr interface.
func (v *IndexedVar) ResolvedType() *types.T {
	if v.Typ == nil {
		panic(errors.AssertionFailedf("indexed var @%d must be type checked first", v.Idx+1))
	}
	return v.Typ
}

// IsConstant implements the TypedExpr interface.
func (*IndexedVar) IsConstant() bool { return false }

// Eval implements the TypedExpr interface.
func (v *IndexedVar) Eval(row Datums) (Datum, error) {
	if v.Idx < 0 || v.Idx >= len(row) {
		return nil, errors.AssertionFailedf("indexed var @%d out of range for row of width %d", v.Idx+1, len(row))
	}
	return row[v.Idx], nil
}

// Format implements the NodeFormatter interface.
func (v *IndexedVar) Format(ctx *FmtCtx) {
	ctx.WriteByte('@')
	ctx.WriteString(strconv.Itoa(v.Idx + 1))
}

func (v *IndexedVar) String() string { return AsString(v) }
