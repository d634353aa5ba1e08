// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geomfn

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/twpayne/go-geom"
)

// ErrCoordinateOutOfRange marks errors returned for a longitude or latitude
// outside of its valid range. Test with errors.Is.
var ErrCoordinateOutOfRange = errors.New("coordinate out of range")

// MakePoint initializes a new XY point.
func MakePoint(x, y float64) (geo.Geometry, error) {
	return geo.MakeGeometryFromGeomT(geom.NewPointFlat(geom.XY, []float64{x, y}))
}

// ValidateLongitude checks that lon is in [-180, 180]. NaN is rejected.
func ValidateLongitude(lon float64) error {
	if !(lon >= -180 && lon <= 180) {
		return errors.Mark(
			pgerror.New(pgcode.NumericValueOutOfRange, "longitude must be in [-180.0..180.0] range"),
			ErrCoordinateOutOfRange,
		)
	}
	return nil
}

// ValidateLatitude checks that lat is in [-90, 90]. NaN is rejected.
func ValidateLatitude(lat float64) error {
	if !(lat >= -90 && lat <= 90) {
		return errors.Mark(
			pgerror.New(pgcode.NumericValueOutOfRange, "latitude must be in [-90.0..90.0] range"),
			ErrCoordinateOutOfRange,
		)
	}
	return nil
}
