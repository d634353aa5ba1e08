// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package parser

import (
	"testing"

	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/stretchr/testify/require"
)

func TestParseExpr(t *testing.T) {
	testData := []struct {
		sql      string
		expected string
	}{
		{`'POINT (1 2)'`, `'POINT (1 2)'`},
		{`'it''s'`, `'it''s'`},
		{`''`, `''`},
		{`1`, `1.0`},
		{`-2.5`, `-2.5`},
		{`+3e2`, `300.0`},
		{`NULL`, `NULL`},
		{`null`, `NULL`},
		{`@1`, `@1`},
		{`f()`, `f()`},
		{`ST_Distance('POINT (0 0)', @2)`, `ST_Distance('POINT (0 0)', @2)`},
		{` st_makepoint ( 1 , -2 ) `, `st_makepoint(1.0, -2.0)`},
		{`f(g(h(NULL)))`, `f(g(h(NULL)))`},
	}
	for _, d := range testData {
		t.Run(d.sql, func(t *testing.T) {
			expr, err := ParseExpr(d.sql)
			require.NoError(t, err)
			require.Equal(t, d.expected, expr.String())
		})
	}
}

func TestParseExprPositions(t *testing.T) {
	expr, err := ParseExpr(`st_distance('POINT (0 0)',  @1)`)
	require.NoError(t, err)
	call, ok := expr.(*tree.FuncCall)
	require.True(t, ok)
	require.Equal(t, 0, call.Pos)
	require.Equal(t, []int{12, 28}, call.ArgPos)
	require.Equal(t, 0, call.Exprs[1].(*tree.IndexedVar).Idx)

	expr, err = ParseExpr(`  f(1)`)
	require.NoError(t, err)
	require.Equal(t, 2, expr.(*tree.FuncCall).Pos)
}

func TestParseExprs(t *testing.T) {
	exprs, err := ParseExprs(`'a', 1.5, NULL`)
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	require.Equal(t, tree.DString("a"), tree.MustBeDString(exprs[0]))
	require.Equal(t, tree.DFloat(1.5), tree.MustBeDFloat(exprs[1]))
	require.Equal(t, tree.DNull, exprs[2])
}

func TestParseExprError(t *testing.T) {
	testData := []struct {
		sql string
		pos int
		msg string
	}{
		{``, 0, `empty expression`},
		{`'abc`, 0, `lexical error: unterminated string`},
		{`f(1`, 3, `syntax error: expected ")", found end of input`},
		{`f 1`, 2, `syntax error: expected "(", found numeric literal`},
		{`f(1,)`, 4, `syntax error: expected expression, found ")"`},
		{`1 2`, 2, `syntax error: expected end of input, found numeric literal`},
		{`@`, 0, `lexical error: expected column number after @`},
		{`@0`, 0, `invalid column reference @0`},
		{`f(#)`, 2, `lexical error: unexpected character '#'`},
		{`1.2.3`, 0, `lexical error: invalid number "1.2.3"`},
	}
	for _, d := range testData {
		t.Run(d.sql, func(t *testing.T) {
			_, err := ParseExpr(d.sql)
			require.Error(t, err)
			require.Equal(t, pgcode.Syntax, pgerror.GetPGCode(err))
			pos, ok := pgerror.GetPosition(err)
			require.True(t, ok)
			require.Equal(t, d.pos, pos)
			require.Equal(t, d.msg, err.Error())
		})
	}
}

func TestParseExprTooDeep(t *testing.T) {
	sql := ""
	for i := 0; i <= maxDepth; i++ {
		sql += "f("
	}
	_, err := ParseExpr(sql)
	require.ErrorContains(t, err, "expression nested too deeply")
}
