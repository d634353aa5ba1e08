// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geo contains the planar geometry type used by the spatial builtins.
//
// Subpackages are available that perform operations using this type:
//   - geo/wkt implements the strict geometry text grammar.
//   - geo/geomfn implements the logic of the spatial functions over Geometry.
package geo

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/golang/geo/r2"
	"github.com/twpayne/go-geom"
)

// ShapeType is the kind of a Geometry.
type ShapeType int

const (
	// ShapeTypeUnknown is not a valid shape.
	ShapeTypeUnknown ShapeType = iota
	ShapeTypePoint
	ShapeTypeLineString
	ShapeTypePolygon
	ShapeTypeMultiPoint
	ShapeTypeMultiLineString
	ShapeTypeMultiPolygon
	ShapeTypeGeometryCollection
)

func (s ShapeType) String() string {
	switch s {
	case ShapeTypePoint:
		return "Point"
	case ShapeTypeLineString:
		return "LineString"
	case ShapeTypePolygon:
		return "Polygon"
	case ShapeTypeMultiPoint:
		return "MultiPoint"
	case ShapeTypeMultiLineString:
		return "MultiLineString"
	case ShapeTypeMultiPolygon:
		return "MultiPolygon"
	case ShapeTypeGeometryCollection:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("ShapeType(%d)", int(s))
	}
}

// Geometry is a planar spatial object. The zero value is not a valid
// Geometry; use one of the constructors.
type Geometry struct {
	t geom.T
}

// MakeGeometryFromGeomT creates a Geometry from a geom.T, checking that every
// coordinate is finite.
func MakeGeometryFromGeomT(t geom.T) (Geometry, error) {
	if t == nil {
		return Geometry{}, errors.AssertionFailedf("nil geometry")
	}
	if err := validateFinite(t); err != nil {
		return Geometry{}, err
	}
	return Geometry{t: t}, nil
}

func validateFinite(t geom.T) error {
	if gc, ok := t.(*geom.GeometryCollection); ok {
		for _, child := range gc.Geoms() {
			if err := validateFinite(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, f := range t.FlatCoords() {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return pgerror.Newf(pgcode.InvalidParameterValue, "geometry coordinates must be finite, found %v", f)
		}
	}
	return nil
}

// AsGeomT returns the underlying geom.T. It must not be modified.
func (g Geometry) AsGeomT() geom.T {
	return g.t
}

// Layout returns the coordinate layout of the geometry.
func (g Geometry) Layout() geom.Layout {
	return g.t.Layout()
}

// ShapeType returns the kind of the geometry.
func (g Geometry) ShapeType() ShapeType {
	return shapeTypeOf(g.t)
}

func shapeTypeOf(t geom.T) ShapeType {
	switch t.(type) {
	case *geom.Point:
		return ShapeTypePoint
	case *geom.LineString:
		return ShapeTypeLineString
	case *geom.Polygon:
		return ShapeTypePolygon
	case *geom.MultiPoint:
		return ShapeTypeMultiPoint
	case *geom.MultiLineString:
		return ShapeTypeMultiLineString
	case *geom.MultiPolygon:
		return ShapeTypeMultiPolygon
	case *geom.GeometryCollection:
		return ShapeTypeGeometryCollection
	default:
		return ShapeTypeUnknown
	}
}

// Empty returns whether the geometry has no coordinates.
func (g Geometry) Empty() bool {
	return isEmpty(g.t)
}

func isEmpty(t geom.T) bool {
	if gc, ok := t.(*geom.GeometryCollection); ok {
		for _, child := range gc.Geoms() {
			if !isEmpty(child) {
				return false
			}
		}
		return true
	}
	return len(t.FlatCoords()) == 0
}

// BoundingRect returns the XY bounding rectangle of the geometry. An empty
// geometry has an empty rectangle.
func (g Geometry) BoundingRect() r2.Rect {
	return addToRect(r2.EmptyRect(), g.t)
}

func addToRect(rect r2.Rect, t geom.T) r2.Rect {
	if gc, ok := t.(*geom.GeometryCollection); ok {
		for _, child := range gc.Geoms() {
			rect = addToRect(rect, child)
		}
		return rect
	}
	flat, stride := t.FlatCoords(), t.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		rect = rect.AddPoint(r2.Point{X: flat[i], Y: flat[i+1]})
	}
	return rect
}

// Equal returns whether two geometries have the same shape, layout and
// coordinates.
func (g Geometry) Equal(o Geometry) bool {
	return geomTEqual(g.t, o.t)
}

func geomTEqual(a, b geom.T) bool {
	if shapeTypeOf(a) != shapeTypeOf(b) || a.Layout() != b.Layout() {
		return false
	}
	if gca, ok := a.(*geom.GeometryCollection); ok {
		gcb := b.(*geom.GeometryCollection)
		if gca.NumGeoms() != gcb.NumGeoms() {
			return false
		}
		for i := 0; i < gca.NumGeoms(); i++ {
			if !geomTEqual(gca.Geom(i), gcb.Geom(i)) {
				return false
			}
		}
		return true
	}
	if !floatsEqual(a.FlatCoords(), b.FlatCoords()) || !intsEqual(a.Ends(), b.Ends()) {
		return false
	}
	ea, eb := a.Endss(), b.Endss()
	if len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if !intsEqual(ea[i], eb[i]) {
			return false
		}
	}
	return true
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns the canonical geometry text, or a description of the
// encoding error.
func (g Geometry) String() string {
	s, err := g.WKT(DefaultWKTDecimalDigits)
	if err != nil {
		return fmt.Sprintf("<invalid geometry: %v>", err)
	}
	return s
}
