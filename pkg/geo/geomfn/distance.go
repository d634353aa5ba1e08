// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geomfn

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/golang/geo/r2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// MinDistance returns the minimum planar distance between any two points of
// a and b. Only the X and Y ordinates take part. If either geometry is empty
// the distance is 0.
//
// The result does not depend on argument order: MinDistance(a, b) and
// MinDistance(b, a) return the same float64.
func MinDistance(a geo.Geometry, b geo.Geometry) (float64, error) {
	if a.Empty() || b.Empty() {
		return 0, nil
	}
	aShapes, err := decompose(a.AsGeomT(), shapes{})
	if err != nil {
		return 0, err
	}
	bShapes, err := decompose(b.AsGeomT(), shapes{})
	if err != nil {
		return 0, err
	}
	// A vertex can only be covered by the other geometry when the bounding
	// rectangles overlap.
	if a.BoundingRect().Intersects(b.BoundingRect()) &&
		(aShapes.coversAnyVertexOf(&bShapes) || bShapes.coversAnyVertexOf(&aShapes)) {
		return 0, nil
	}
	return minBoundaryDistance(&aShapes, &bShapes), nil
}

// segment is a line segment whose endpoints are stored in lexicographic
// order, so that distance computations see the same operands whichever
// geometry the segment came from.
type segment struct {
	a, b r2.Point
}

func makeSegment(p, q r2.Point) segment {
	if pointLess(q, p) {
		p, q = q, p
	}
	return segment{a: p, b: q}
}

func pointLess(p, q r2.Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

func segmentLess(s, t segment) bool {
	if s.a != t.a {
		return pointLess(s.a, t.a)
	}
	return pointLess(s.b, t.b)
}

// polygon is a polygon's rings, exterior first.
type polygon struct {
	rings [][]r2.Point
	bound r2.Rect
}

// shapes is a geometry broken down into the parts that distance is
// measured between.
type shapes struct {
	points   []r2.Point
	segments []segment
	polygons []polygon
	// vertices holds every vertex of every part.
	vertices []r2.Point
}

func decompose(t geom.T, s shapes) (shapes, error) {
	switch t := t.(type) {
	case *geom.Point:
		if !t.Empty() {
			p := r2.Point{X: t.X(), Y: t.Y()}
			s.points = append(s.points, p)
			s.vertices = append(s.vertices, p)
		}
	case *geom.MultiPoint:
		for i := 0; i < t.NumPoints(); i++ {
			s, _ = decompose(t.Point(i), s)
		}
	case *geom.LineString:
		s.addLine(toPoints(t.FlatCoords(), t.Stride()))
	case *geom.MultiLineString:
		for i := 0; i < t.NumLineStrings(); i++ {
			s.addLine(toPoints(t.LineString(i).FlatCoords(), t.Stride()))
		}
	case *geom.Polygon:
		s.addPolygon(t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			s.addPolygon(t.Polygon(i))
		}
	case *geom.GeometryCollection:
		for _, child := range t.Geoms() {
			var err error
			if s, err = decompose(child, s); err != nil {
				return s, err
			}
		}
	default:
		return s, errors.AssertionFailedf("unknown geometry type %T", t)
	}
	return s, nil
}

func toPoints(flat []float64, stride int) []r2.Point {
	pts := make([]r2.Point, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		pts = append(pts, r2.Point{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

func (s *shapes) addLine(pts []r2.Point) {
	for i := 1; i < len(pts); i++ {
		s.segments = append(s.segments, makeSegment(pts[i-1], pts[i]))
	}
	s.vertices = append(s.vertices, pts...)
}

func (s *shapes) addPolygon(p *geom.Polygon) {
	if p.Empty() {
		return
	}
	poly := polygon{bound: r2.EmptyRect()}
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := toPoints(p.LinearRing(i).FlatCoords(), p.Stride())
		if i == 0 {
			poly.bound = r2.RectFromPoints(ring...)
		}
		poly.rings = append(poly.rings, ring)
		s.addLine(ring)
	}
	s.polygons = append(s.polygons, poly)
}

// coversAnyVertexOf returns whether a polygon of s contains any vertex of
// o. Together with the boundary distances this detects one geometry lying
// inside the other.
func (s *shapes) coversAnyVertexOf(o *shapes) bool {
	for i := range s.polygons {
		for _, v := range o.vertices {
			if s.polygons[i].contains(v) {
				return true
			}
		}
	}
	return false
}

// contains returns whether p lies in the interior of the polygon. Points on
// a ring may go either way; the boundary distance is 0 for them anyway.
func (poly *polygon) contains(p r2.Point) bool {
	if !poly.bound.ContainsPoint(p) {
		return false
	}
	if !ringContains(poly.rings[0], p) {
		return false
	}
	for _, hole := range poly.rings[1:] {
		if ringContains(hole, p) {
			return false
		}
	}
	return true
}

// ringContains implements the even-odd crossing rule for a closed ring.
func ringContains(ring []r2.Point, p r2.Point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// minBoundaryDistance returns the smallest distance between the parts of a
// and b. Candidates that are not a number are skipped.
func minBoundaryDistance(a, b *shapes) float64 {
	minDist := math.Inf(1)
	consider := func(d float64) {
		if d < minDist {
			minDist = d
		}
	}
	for _, p := range a.points {
		for _, q := range b.points {
			consider(p.Sub(q).Norm())
		}
		for _, seg := range b.segments {
			consider(pointSegmentDistance(p, seg))
		}
	}
	for _, seg := range a.segments {
		for _, q := range b.points {
			consider(pointSegmentDistance(q, seg))
		}
		for _, other := range b.segments {
			consider(segmentSegmentDistance(seg, other))
		}
		if minDist == 0 {
			return 0
		}
	}
	return minDist
}

func coord(p r2.Point) geom.Coord {
	return geom.Coord{p.X, p.Y}
}

// scaledCoord returns p divided by k.
func scaledCoord(p r2.Point, k float64) geom.Coord {
	return geom.Coord{p.X / k, p.Y / k}
}

// maxAbsOrdinate returns the largest absolute ordinate of pts.
func maxAbsOrdinate(pts ...r2.Point) float64 {
	k := 0.0
	for _, p := range pts {
		k = math.Max(k, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return k
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// pointSegmentDistance returns the distance from p to s. The squared terms
// computed by xy overflow for ordinates beyond about 1e154; the distance is
// then computed again on coordinates scaled into [-1, 1].
func pointSegmentDistance(p r2.Point, s segment) float64 {
	d := xy.DistanceFromPointToLine(coord(p), coord(s.a), coord(s.b))
	if isFinite(d) {
		return d
	}
	k := maxAbsOrdinate(p, s.a, s.b)
	if k == 0 {
		return d
	}
	return k * xy.DistanceFromPointToLine(scaledCoord(p, k), scaledCoord(s.a, k), scaledCoord(s.b, k))
}

// segmentSegmentDistance returns the distance between s and t, scaling the
// coordinates like pointSegmentDistance when the direct result overflows.
func segmentSegmentDistance(s, t segment) float64 {
	if segmentLess(t, s) {
		s, t = t, s
	}
	d := xy.DistanceFromLineToLine(coord(s.a), coord(s.b), coord(t.a), coord(t.b))
	if isFinite(d) {
		return d
	}
	k := maxAbsOrdinate(s.a, s.b, t.a, t.b)
	if k == 0 {
		return d
	}
	return k * xy.DistanceFromLineToLine(
		scaledCoord(s.a, k), scaledCoord(s.b, k), scaledCoord(t.a, k), scaledCoord(t.b, k))
}
