// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/geo/wkt"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
)

// ErrMalformedGeometryText marks errors returned when geometry text does not
// match the geometry text grammar. Test with errors.Is.
var ErrMalformedGeometryText = errors.New("malformed geometry text")

// ParseGeometry parses a Geometry from geometry text.
func ParseGeometry(str string) (Geometry, error) {
	t, err := wkt.Unmarshal(str)
	if err != nil {
		return Geometry{}, malformedGeometryTextError(err)
	}
	return MakeGeometryFromGeomT(t)
}

// MustParseGeometry behaves as ParseGeometry, but panics if there is an error.
func MustParseGeometry(str string) Geometry {
	g, err := ParseGeometry(str)
	if err != nil {
		panic(err)
	}
	return g
}

func malformedGeometryTextError(err error) error {
	var parseErr *wkt.ParseError
	hint := ""
	if errors.As(err, &parseErr) {
		hint = parseErr.Hint()
	}
	err = errors.Mark(err, ErrMalformedGeometryText)
	err = pgerror.Wrap(err, pgcode.InvalidParameterValue, "error parsing geometry text")
	if hint != "" {
		err = errors.WithHint(err, hint)
	}
	return err
}
