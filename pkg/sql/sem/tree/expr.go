// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// Expr represents an expression.
type Expr interface {
	NodeFormatter
	String() string
}

// TypedExpr represents a well-typed expression.
type TypedExpr interface {
	Expr
	// ResolvedType provides the type of the TypedExpr, which is the type of
	// Datum that the TypedExpr will return when evaluated.
	ResolvedType() *types.T
	// IsConstant returns whether the expression evaluates to the same Datum
	// for every row. Such an expression is evaluated at most once.
	IsConstant() bool
	// Eval evaluates the expression against the current row. The returned
	// Datum may be owned by the expression and is only valid until the next
	// call to Eval on the same expression.
	Eval(row Datums) (Datum, error)
}

// Exprs represents a list of value expressions. It's not a valid expression
// because it's not parenthesized.
type Exprs []Expr

// Format implements the NodeFormatter interface.
func (l *Exprs) Format(ctx *FmtCtx) {
	for i, n := range *l {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(n)
	}
}

// TypedExprs represents a list of well-typed value expressions.
type TypedExprs []TypedExpr

// Format implements the NodeFormatter interface.
func (l *TypedExprs) Format(ctx *FmtCtx) {
	for i, n := range *l {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(n)
	}
}

// FuncCall is a function application as written in the input, before its
// name is resolved and its arguments are type checked.
type FuncCall struct {
	Name  string
	Exprs Exprs
	// Pos is the byte offset of the function name in the input.
	Pos int
	// ArgPos holds the byte offset of each argument in the input.
	ArgPos []int
}

var _ Expr = &FuncCall{}

// Format implements the NodeFormatter interface.
func (node *FuncCall) Format(ctx *FmtCtx) {
	ctx.WriteString(node.Name)
	ctx.WriteByte('(')
	ctx.FormatNode(&node.Exprs)
	ctx.WriteByte(')')
}

func (node *FuncCall) String() string { return AsString(node) }
