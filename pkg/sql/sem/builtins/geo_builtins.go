// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package builtins

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/cockroachdb/stgeo/pkg/geo/geomfn"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/eval"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

const categorySpatial = "Spatial"

// nanDistance is returned by st_distance when either argument is NULL.
var nanDistance = tree.NewDFloat(tree.DFloat(math.NaN()))

var geoBuiltins = map[string]builtinDefinition{
	"st_geomfromtext": makeBuiltin(
		categorySpatial,
		eval.Overload{
			Types:      eval.ArgTypes{{"str", types.String}},
			ReturnType: types.String,
			NullResult: tree.DNull,
			Info:       "Returns the Geometry from a WKT representation, written back as canonical WKT.",
			Build: func(ctx *eval.Context, _ tree.TypedExprs, argPos []int) (tree.EvalFn, error) {
				w, err := newGeomWriter(ctx)
				if err != nil {
					return nil, err
				}
				return func(args tree.Datums) (tree.Datum, error) {
					g, err := parseGeometryArg(w.codec, args[0], argPos[0])
					if err != nil {
						return nil, err
					}
					return w.write(g)
				}, nil
			},
		},
	),

	"st_makepoint": makeBuiltin(
		categorySpatial,
		eval.Overload{
			Types:      eval.ArgTypes{{"longitude", types.Float}, {"latitude", types.Float}},
			ReturnType: types.String,
			NullResult: tree.DNull,
			Info: "Returns a new Point with the given longitude and latitude, as WKT. The longitude " +
				"must be in [-180, 180] and the latitude in [-90, 90].",
			Build: func(ctx *eval.Context, args tree.TypedExprs, argPos []int) (tree.EvalFn, error) {
				consts, ok, err := eval.ConstantArgs(args)
				if err != nil {
					return nil, err
				}
				if ok {
					if err := validateLonLat(consts, argPos); err != nil {
						return nil, err
					}
				}
				w, err := newGeomWriter(ctx)
				if err != nil {
					return nil, err
				}
				return func(args tree.Datums) (tree.Datum, error) {
					if err := validateLonLat(args, argPos); err != nil {
						return nil, err
					}
					g, err := geomfn.MakePoint(float64(tree.MustBeDFloat(args[0])), float64(tree.MustBeDFloat(args[1])))
					if err != nil {
						return nil, err
					}
					return w.write(g)
				}, nil
			},
		},
	),

	"st_distance": makeBuiltin(
		categorySpatial,
		eval.Overload{
			Types:      eval.ArgTypes{{"geometry_a", types.String}, {"geometry_b", types.String}},
			ReturnType: types.Float,
			NullResult: nanDistance,
			Info: "Returns the minimum planar distance between the two WKT geometries. " +
				"Returns NaN if either argument is NULL.",
			Build: func(ctx *eval.Context, _ tree.TypedExprs, argPos []int) (tree.EvalFn, error) {
				codec := ctx.Codec
				if codec == nil {
					return nil, errors.AssertionFailedf("no geometry codec in eval context")
				}
				var result tree.DFloat
				return func(args tree.Datums) (tree.Datum, error) {
					a, err := parseGeometryArg(codec, args[0], argPos[0])
					if err != nil {
						return nil, err
					}
					b, err := parseGeometryArg(codec, args[1], argPos[1])
					if err != nil {
						return nil, err
					}
					dist, err := geomfn.MinDistance(a, b)
					if err != nil {
						return nil, err
					}
					result = tree.DFloat(dist)
					return &result, nil
				}, nil
			},
		},
	),
}

// geomWriter writes geometries into the text buffer owned by a single
// invocation.
type geomWriter struct {
	codec    eval.GeometryCodec
	sink     tree.StrSink
	g        geo.Geometry
	appendFn func(buf []byte) ([]byte, error)
}

func newGeomWriter(ctx *eval.Context) (*geomWriter, error) {
	if ctx.Codec == nil {
		return nil, errors.AssertionFailedf("no geometry codec in eval context")
	}
	w := &geomWriter{codec: ctx.Codec}
	w.appendFn = w.appendWKT
	return w, nil
}

func (w *geomWriter) appendWKT(buf []byte) ([]byte, error) {
	return w.codec.AppendWKT(buf, w.g)
}

// write returns the text of g. The result is only valid until the next
// call to write.
func (w *geomWriter) write(g geo.Geometry) (tree.Datum, error) {
	w.g = g
	d, err := w.sink.Fill(w.appendFn)
	w.g = geo.Geometry{}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func parseGeometryArg(codec eval.GeometryCodec, d tree.Datum, pos int) (geo.Geometry, error) {
	s, ok := tree.AsDString(d)
	if !ok {
		return geo.Geometry{}, errors.AssertionFailedf(
			"expected string argument, found %s", redact.Safe(d.ResolvedType().Name()))
	}
	g, err := codec.ParseGeometry(string(s))
	if err != nil {
		return geo.Geometry{}, pgerror.WithPosition(err, pos)
	}
	return g, nil
}

// validateLonLat checks the ranges of the longitude and latitude arguments.
// Nothing is checked if either argument is NULL, since the invocation then
// evaluates to NULL.
func validateLonLat(args tree.Datums, argPos []int) error {
	if args[0] == tree.DNull || args[1] == tree.DNull {
		return nil
	}
	validators := [2]func(float64) error{geomfn.ValidateLongitude, geomfn.ValidateLatitude}
	for i, validate := range validators {
		f, ok := tree.AsDFloat(args[i])
		if !ok {
			return errors.AssertionFailedf(
				"expected float argument, found %s", redact.Safe(args[i].ResolvedType().Name()))
		}
		if err := validate(float64(f)); err != nil {
			return pgerror.WithPosition(err, argPos[i])
		}
	}
	return nil
}
