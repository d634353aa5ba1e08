// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// EvalFn computes the result of a function from the values of its
// arguments. None of the arguments is DNull.
type EvalFn func(args Datums) (Datum, error)

// invocationKind distinguishes the two ways a FuncExpr is evaluated. It is
// chosen once, when the FuncExpr is built.
type invocationKind uint8

const (
	// rowBoundInvocation evaluates the function on every call to Eval, using
	// the argument values of the current row.
	rowBoundInvocation invocationKind = iota
	// constantInvocation evaluates the function at most once. Its result,
	// or its error, is returned for every row.
	constantInvocation
)

// FuncExpr is a resolved function invocation.
//
// A FuncExpr whose arguments are all constant is a constant invocation: it
// is evaluated on first use and the result is cached for its lifetime. Any
// other FuncExpr is row-bound. In both cases, if an argument evaluates to
// DNull the function is not called and the overload's null result is
// returned instead.
//
// A FuncExpr is not safe for concurrent use: the argument buffer, the cached
// result and any output buffer owned by the function are mutated in place.
type FuncExpr struct {
	Name  string
	Exprs TypedExprs

	typ        *types.T
	nullResult Datum
	fn         EvalFn
	kind       invocationKind

	// args is reused across calls to Eval.
	args Datums

	// Only set for constant invocations.
	evaluated bool
	result    Datum
	err       error
}

var _ TypedExpr = &FuncExpr{}

// NewFuncExpr returns a resolved function invocation. fn is called with the
// argument values; nullResult is returned without calling fn if any argument
// is DNull. If allowFolding is set and every argument is constant, the
// invocation is constant.
func NewFuncExpr(
	name string, exprs TypedExprs, typ *types.T, nullResult Datum, fn EvalFn, allowFolding bool,
) *FuncExpr {
	kind := rowBoundInvocation
	if allowFolding && allConstant(exprs) {
		kind = constantInvocation
	}
	return &FuncExpr{
		Name:       name,
		Exprs:      exprs,
		typ:        typ,
		nullResult: nullResult,
		fn:         fn,
		kind:       kind,
		args:       make(Datums, len(exprs)),
	}
}

func allConstant(exprs TypedExprs) bool {
	for _, e := range exprs {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// ResolvedType implements the TypedExpr interface.
func (node *FuncExpr) ResolvedType() *types.T { return node.typ }

// IsConstant implements the TypedExpr interface.
func (node *FuncExpr) IsConstant() bool { return node.kind == constantInvocation }

// Eval implements the TypedExpr interface.
func (node *FuncExpr) Eval(row Datums) (Datum, error) {
	switch node.kind {
	case constantInvocation:
		if !node.evaluated {
			node.result, node.err = node.invoke(nil /* row */)
			node.evaluated = true
		}
		return node.result, node.err
	default:
		return node.invoke(row)
	}
}

func (node *FuncExpr) invoke(row Datums) (Datum, error) {
	for i, e := range node.Exprs {
		d, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		if d == DNull {
			return node.nullResult, nil
		}
		node.args[i] = d
	}
	return node.fn(node.args)
}

// Format implements the NodeFormatter interface. It never evaluates the
// function.
func (node *FuncExpr) Format(ctx *FmtCtx) {
	ctx.WriteString(node.Name)
	ctx.WriteByte('(')
	ctx.FormatNode(&node.Exprs)
	ctx.WriteByte(')')
}

func (node *FuncExpr) String() string { return AsString(node) }
