// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/settings"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
	"github.com/cockroachdb/stgeo/pkg/util/log"
)

// ConstantFoldingEnabled controls whether function invocations with only
// constant arguments are evaluated once and cached. When disabled every
// invocation is evaluated once per row.
var ConstantFoldingEnabled = settings.RegisterBoolSetting(
	"sql.spatial.constant_folding.enabled",
	"evaluate function calls with constant arguments once per plan instead of once per row",
	true,
)

// TypeCheck resolves the functions referenced by expr, type checks their
// arguments and binds each call to its overload. The result can be
// evaluated with Eval once per row.
func TypeCheck(ctx *Context, expr tree.Expr) (tree.TypedExpr, error) {
	switch t := expr.(type) {
	case tree.Datum:
		return t, nil

	case *tree.IndexedVar:
		if t.Idx < 0 || t.Idx >= len(ctx.ColumnTypes) {
			return nil, pgerror.Newf(pgcode.UndefinedColumn,
				"column reference @%d not allowed, there are only %d columns", t.Idx+1, len(ctx.ColumnTypes))
		}
		return tree.NewTypedOrdinalReference(t.Idx, ctx.ColumnTypes[t.Idx]), nil

	case *tree.FuncCall:
		return typeCheckFuncCall(ctx, t)

	default:
		return nil, errors.AssertionFailedf("unhandled expression type %T", expr)
	}
}

func typeCheckFuncCall(ctx *Context, call *tree.FuncCall) (tree.TypedExpr, error) {
	name := strings.ToLower(call.Name)
	def, ok := FunDefs[name]
	if !ok {
		return nil, pgerror.WithPosition(
			pgerror.Newf(pgcode.UndefinedFunction, "unknown function: %s()", name),
			call.Pos,
		)
	}

	args := make(tree.TypedExprs, len(call.Exprs))
	argTypes := make([]*types.T, len(call.Exprs))
	for i, e := range call.Exprs {
		typed, err := TypeCheck(ctx, e)
		if err != nil {
			return nil, err
		}
		args[i] = typed
		argTypes[i] = typed.ResolvedType()
	}

	var ov *Overload
	for i := range def.Definition {
		if def.Definition[i].Types.Match(argTypes) {
			ov = &def.Definition[i]
			break
		}
	}
	if ov == nil {
		typeNames := make([]string, len(argTypes))
		for i, typ := range argTypes {
			typeNames[i] = typ.String()
		}
		err := pgerror.Newf(pgcode.UndefinedFunction, "unknown signature: %s(%s)",
			name, strings.Join(typeNames, ", "))
		candidates := make([]string, len(def.Definition))
		for i := range def.Definition {
			candidates[i] = def.Definition[i].Signature(name)
		}
		err = errors.WithHintf(err, "candidates are:\n%s", strings.Join(candidates, "\n"))
		return nil, pgerror.WithPosition(err, call.Pos)
	}

	argPos := call.ArgPos
	if len(argPos) != len(args) {
		argPos = make([]int, len(args))
		for i := range argPos {
			argPos[i] = call.Pos
		}
	}
	fn, err := ov.Build(ctx, args, argPos)
	if err != nil {
		return nil, err
	}

	folding := ConstantFoldingEnabled.Get(ctx.Settings)
	f := tree.NewFuncExpr(name, args, ov.ReturnType, ov.NullResult, fn, folding)
	if log.V(2) {
		kind := "row-bound"
		if f.IsConstant() {
			kind = "constant"
		}
		log.VEventf(ctx.Ctx(), 2, "bound %s as %s invocation", f, kind)
	}
	return f, nil
}

// ConstantArgs evaluates args if they are all constant. It reports false if
// any argument is not constant, in which case no argument is evaluated.
func ConstantArgs(args tree.TypedExprs) (tree.Datums, bool, error) {
	for _, a := range args {
		if !a.IsConstant() {
			return nil, false, nil
		}
	}
	datums := make(tree.Datums, len(args))
	for i, a := range args {
		d, err := a.Eval(nil /* row */)
		if err != nil {
			return nil, true, err
		}
		datums[i] = d
	}
	return datums, true, nil
}
