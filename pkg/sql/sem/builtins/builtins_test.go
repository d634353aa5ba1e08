// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package builtins

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/cockroachdb/stgeo/pkg/geo/geomfn"
	"github.com/cockroachdb/stgeo/pkg/sql/parser"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/eval"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
	"github.com/cockroachdb/stgeo/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func bind(t *testing.T, ctx *eval.Context, sql string) (tree.TypedExpr, error) {
	t.Helper()
	expr, err := parser.ParseExpr(sql)
	require.NoError(t, err)
	return eval.TypeCheck(ctx, expr)
}

func mustBind(t *testing.T, ctx *eval.Context, sql string) tree.TypedExpr {
	t.Helper()
	e, err := bind(t, ctx, sql)
	require.NoError(t, err)
	return e
}

func parses(ctx *eval.Context) float64 {
	return testutil.ToFloat64(ctx.Codec.(*geo.WKTCodec).Metrics().Parses)
}

func TestAllBuiltinNames(t *testing.T) {
	require.Equal(t, []string{"st_distance", "st_geomfromtext", "st_makepoint"}, AllBuiltinNames)
	require.Equal(t, AllBuiltinNames, eval.AllFunctionNames())
	for _, name := range AllBuiltinNames {
		def := eval.FunDefs[name]
		require.Equal(t, name, def.Name)
		require.Equal(t, categorySpatial, def.Category)
		require.Len(t, def.Definition, 1)
		require.NotEmpty(t, def.Definition[0].Info)
	}

	sigs := map[string]string{
		"st_geomfromtext": "st_geomfromtext(str: string) -> string",
		"st_makepoint":    "st_makepoint(longitude: float, latitude: float) -> string",
		"st_distance":     "st_distance(geometry_a: string, geometry_b: string) -> float",
	}
	for name, sig := range sigs {
		require.Equal(t, sig, eval.FunDefs[name].Definition[0].Signature(name))
	}
}

func TestConstantInvocationParsesOnce(t *testing.T) {
	defer log.Scope(t).Close(t)

	ctx := eval.MakeTestingEvalContext()
	e := mustBind(t, &ctx, `st_distance('POINT (0 0)', 'POINT (3 4)')`)
	require.True(t, e.IsConstant())
	for i := 0; i < 100; i++ {
		d, err := e.Eval(nil /* row */)
		require.NoError(t, err)
		require.Equal(t, tree.DFloat(5), tree.MustBeDFloat(d))
	}
	require.Equal(t, float64(2), parses(&ctx))
}

func TestRowBoundInvocationParsesPerRow(t *testing.T) {
	ctx := eval.MakeTestingEvalContext()
	eval.ConstantFoldingEnabled.Override(ctx.Settings, false)
	e := mustBind(t, &ctx, `st_distance('POINT (0 0)', 'POINT (3 4)')`)
	require.False(t, e.IsConstant())
	for i := 0; i < 100; i++ {
		d, err := e.Eval(nil /* row */)
		require.NoError(t, err)
		require.Equal(t, tree.DFloat(5), tree.MustBeDFloat(d))
	}
	require.Equal(t, float64(200), parses(&ctx))
}

func TestMakePointRangeErrors(t *testing.T) {
	testCases := []struct {
		sql string
		pos int
		msg string
	}{
		{`st_makepoint(181.0, 0.0)`, 13, "longitude must be in [-180.0..180.0] range"},
		{`st_makepoint(-180.5, 0.0)`, 13, "longitude must be in [-180.0..180.0] range"},
		{`st_makepoint(0.0, -91.0)`, 18, "latitude must be in [-90.0..90.0] range"},
		{`st_makepoint(0.0,  90.01)`, 19, "latitude must be in [-90.0..90.0] range"},
	}
	for _, tc := range testCases {
		t.Run(tc.sql, func(t *testing.T) {
			ctx := eval.MakeTestingEvalContext()
			_, err := bind(t, &ctx, tc.sql)
			require.Error(t, err)
			require.True(t, errors.Is(err, geomfn.ErrCoordinateOutOfRange))
			require.Equal(t, pgcode.NumericValueOutOfRange, pgerror.GetPGCode(err))
			require.Equal(t, tc.msg, err.Error())
			pos, ok := pgerror.GetPosition(err)
			require.True(t, ok)
			require.Equal(t, tc.pos, pos)
		})
	}

	// The same checks apply when folding is disabled.
	ctx := eval.MakeTestingEvalContext()
	eval.ConstantFoldingEnabled.Override(ctx.Settings, false)
	_, err := bind(t, &ctx, `st_makepoint(181.0, 0.0)`)
	require.True(t, errors.Is(err, geomfn.ErrCoordinateOutOfRange))
}

func TestMakePointBoundaries(t *testing.T) {
	ctx := eval.MakeTestingEvalContext()
	for sql, expected := range map[string]string{
		`st_makepoint(180.0, 90.0)`:   "POINT (180 90)",
		`st_makepoint(-180.0, -90.0)`: "POINT (-180 -90)",
		`st_makepoint(0.5, -0.25)`:    "POINT (0.5 -0.25)",
	} {
		e := mustBind(t, &ctx, sql)
		d, err := e.Eval(nil /* row */)
		require.NoError(t, err)
		require.Equal(t, tree.DString(expected), tree.MustBeDString(d))
	}
}

func TestMakePointRowValidation(t *testing.T) {
	ctx := eval.MakeTestingEvalContext(types.Float, types.Float)
	e := mustBind(t, &ctx, `st_makepoint(@1, @2)`)
	require.False(t, e.IsConstant())

	d, err := e.Eval(tree.Datums{tree.NewDFloat(10), tree.NewDFloat(20)})
	require.NoError(t, err)
	require.Equal(t, tree.DString("POINT (10 20)"), tree.MustBeDString(d))

	_, err = e.Eval(tree.Datums{tree.NewDFloat(181), tree.NewDFloat(0)})
	require.True(t, errors.Is(err, geomfn.ErrCoordinateOutOfRange))
	pos, _ := pgerror.GetPosition(err)
	require.Equal(t, 13, pos)

	_, err = e.Eval(tree.Datums{tree.NewDFloat(0), tree.NewDFloat(tree.DFloat(math.NaN()))})
	require.True(t, errors.Is(err, geomfn.ErrCoordinateOutOfRange))
	pos, _ = pgerror.GetPosition(err)
	require.Equal(t, 17, pos)

	// An error on one row does not poison the next.
	d, err = e.Eval(tree.Datums{tree.NewDFloat(1), tree.NewDFloat(2)})
	require.NoError(t, err)
	require.Equal(t, tree.DString("POINT (1 2)"), tree.MustBeDString(d))
}

func TestNullPropagationSkipsParsing(t *testing.T) {
	ctx := eval.MakeTestingEvalContext(types.String)

	e := mustBind(t, &ctx, `st_distance(NULL, 'POINT (0 0)')`)
	d, err := e.Eval(nil /* row */)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(tree.MustBeDFloat(d))), "expected NaN, found %s", d)

	e = mustBind(t, &ctx, `st_distance(@1, 'not a geometry')`)
	d, err = e.Eval(tree.Datums{tree.DNull})
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(tree.MustBeDFloat(d))))

	e = mustBind(t, &ctx, `st_geomfromtext(@1)`)
	d, err = e.Eval(tree.Datums{tree.DNull})
	require.NoError(t, err)
	require.Equal(t, tree.DNull, d)

	e = mustBind(t, &ctx, `st_makepoint(NULL, 1000.0)`)
	d, err = e.Eval(nil /* row */)
	require.NoError(t, err)
	require.Equal(t, tree.DNull, d)

	require.Zero(t, parses(&ctx))
}

func TestGeomFromTextReusesOutput(t *testing.T) {
	ctx := eval.MakeTestingEvalContext(types.String)
	e := mustBind(t, &ctx, `st_geomfromtext(@1)`)

	first, err := e.Eval(tree.Datums{tree.NewDString("point(1 2)")})
	require.NoError(t, err)
	require.Equal(t, "POINT (1 2)", string(tree.MustBeDString(first)))
	retained := tree.NewDString(strings.Clone(string(tree.MustBeDString(first))))

	second, err := e.Eval(tree.Datums{tree.NewDString("LINESTRING(0 0,1 1)")})
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, "LINESTRING (0 0, 1 1)", string(tree.MustBeDString(second)))
	require.Equal(t, "POINT (1 2)", string(*retained))

	_, err = e.Eval(tree.Datums{tree.NewDString("POINT(1)")})
	require.True(t, errors.Is(err, geo.ErrMalformedGeometryText))
	pos, ok := pgerror.GetPosition(err)
	require.True(t, ok)
	require.Equal(t, 16, pos)
}

func TestGeomFromTextRetainedAcrossShorterWrite(t *testing.T) {
	ctx := eval.MakeTestingEvalContext(types.String)
	e := mustBind(t, &ctx, `st_geomfromtext(@1)`)

	d, err := e.Eval(tree.Datums{tree.NewDString("LINESTRING(0 0, 1 1)")})
	require.NoError(t, err)
	kept := strings.Clone(string(tree.MustBeDString(d)))
	seen := map[string]bool{kept: true}

	// The shorter text is written over the start of the same buffer.
	d, err = e.Eval(tree.Datums{tree.NewDString("POINT(9 9)")})
	require.NoError(t, err)
	require.Equal(t, "POINT (9 9)", string(tree.MustBeDString(d)))

	require.Equal(t, "LINESTRING (0 0, 1 1)", kept)
	require.True(t, seen["LINESTRING (0 0, 1 1)"])
	require.False(t, seen["POINT (9 9)"])
}

func TestNestedInvocationsFold(t *testing.T) {
	ctx := eval.MakeTestingEvalContext()
	e := mustBind(t, &ctx,
		`st_distance(st_geomfromtext('POINT(0 0)'), st_makepoint(3.0, 4.0))`)
	require.True(t, e.IsConstant())
	for i := 0; i < 10; i++ {
		d, err := e.Eval(nil /* row */)
		require.NoError(t, err)
		require.Equal(t, tree.DFloat(5), tree.MustBeDFloat(d))
	}
	// One parse for the text argument and one for each written geometry.
	require.Equal(t, float64(3), parses(&ctx))
}

func TestGeoBuiltins(t *testing.T) {
	datadriven.RunTest(t, "testdata/geo_builtins", func(t *testing.T, d *datadriven.TestData) string {
		var colTypes []*types.T
		folding := true
		for _, arg := range d.CmdArgs {
			switch arg.Key {
			case "types":
				for _, v := range arg.Vals {
					colTypes = append(colTypes, typeByName(t, v))
				}
			case "folding":
				folding = arg.Vals[0] == "true"
			default:
				d.Fatalf(t, "unknown argument %s", arg.Key)
			}
		}
		ctx := eval.MakeTestingEvalContext(colTypes...)
		eval.ConstantFoldingEnabled.Override(ctx.Settings, folding)

		lines := strings.Split(d.Input, "\n")
		expr, err := parser.ParseExpr(lines[0])
		if err != nil {
			return formatError(err)
		}
		typed, err := eval.TypeCheck(&ctx, expr)
		if err != nil {
			return formatError(err)
		}

		switch d.Cmd {
		case "plan":
			kind := "row-bound"
			if typed.IsConstant() {
				kind = "constant"
			}
			return fmt.Sprintf("%s\n%s", tree.AsString(typed), kind)

		case "eval":
			rows := lines[1:]
			if len(rows) == 0 {
				rows = []string{""}
			}
			var buf strings.Builder
			for _, line := range rows {
				var row tree.Datums
				if line != "" {
					exprs, err := parser.ParseExprs(line)
					require.NoError(t, err)
					for _, e := range exprs {
						datum, ok := e.(tree.Datum)
						if !ok {
							d.Fatalf(t, "row values must be literals: %s", e)
						}
						row = append(row, datum)
					}
				}
				res, err := typed.Eval(row)
				if err != nil {
					buf.WriteString(formatError(err))
				} else {
					buf.WriteString(res.String())
				}
				buf.WriteByte('\n')
			}
			return buf.String()

		default:
			d.Fatalf(t, "unknown command %s", d.Cmd)
			return ""
		}
	})
}

func typeByName(t *testing.T, name string) *types.T {
	switch name {
	case "string":
		return types.String
	case "float":
		return types.Float
	default:
		t.Fatalf("unknown type %s", name)
		return nil
	}
}

// formatError renders the code, the position and the first line of the
// message of err.
func formatError(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if pos, ok := pgerror.GetPosition(err); ok {
		return fmt.Sprintf("error (%s) at %d: %s", pgerror.GetPGCode(err), pos, msg)
	}
	return fmt.Sprintf("error (%s): %s", pgerror.GetPGCode(err), msg)
}
