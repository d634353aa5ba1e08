// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"github.com/twpayne/go-geom/encoding/wkt"
)

// DefaultWKTDecimalDigits keeps every significant digit, so that written
// text parses back to the same coordinates.
const DefaultWKTDecimalDigits = -1

// WKT returns the canonical geometry text of g: an uppercase keyword, single
// spaces between tokens and no superfluous decimals. maxDecimalDigits
// limits the digits after the decimal point; negative means unlimited.
func (g Geometry) WKT(maxDecimalDigits int) (string, error) {
	return wkt.Marshal(g.t, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
}

// AppendWKT appends the canonical geometry text of g to buf.
func AppendWKT(buf []byte, g Geometry, maxDecimalDigits int) ([]byte, error) {
	s, err := g.WKT(maxDecimalDigits)
	if err != nil {
		return buf, err
	}
	return append(buf, s...), nil
}
