// Copyright 2021 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package wkt

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// maxCollectionDepth bounds GEOMETRYCOLLECTION nesting.
const maxCollectionDepth = 32

type geomKind int

const (
	kindPoint geomKind = iota
	kindLineString
	kindPolygon
	kindMultiPoint
	kindMultiLineString
	kindMultiPolygon
	kindGeometryCollection
)

var geomKeywords = map[string]geomKind{
	"POINT":              kindPoint,
	"LINESTRING":         kindLineString,
	"POLYGON":            kindPolygon,
	"MULTIPOINT":         kindMultiPoint,
	"MULTILINESTRING":    kindMultiLineString,
	"MULTIPOLYGON":       kindMultiPolygon,
	"GEOMETRYCOLLECTION": kindGeometryCollection,
}

var dimensionSuffixes = map[string]geom.Layout{
	"Z":  geom.XYZ,
	"M":  geom.XYM,
	"ZM": geom.XYZM,
}

// Unmarshal parses geometry text into a geom.T.
//
// The grammar is strict: the coordinate dimension is taken from the
// geometry keyword (POINT, POINT Z, POINT M, POINT ZM, or the fused spelling
// POINTZ etc.), never from the number of ordinates in the first coordinate.
// Text such as "POINT (1 2 3)" is therefore rejected.
func Unmarshal(str string) (geom.T, error) {
	p := &wktParser{lex: makeWktLex(str)}
	p.advance()
	g := p.parseGeometry(0 /* depth */, geom.NoLayout)
	if p.err == nil && (p.tok.kind != tokEOF || p.lex.pos != len(p.lex.line)) {
		p.setParseError("syntax error: unexpected trailing input", "")
	}
	if p.err != nil {
		return nil, p.err
	}
	return g, nil
}

type wktParser struct {
	lex wktLex
	tok token
	err error
}

func (p *wktParser) advance() {
	if p.err != nil {
		return
	}
	p.tok = p.lex.lex()
	if p.lex.lastErr != nil {
		p.err = p.lex.lastErr
	}
}

func (p *wktParser) setParseError(problem string, hint string) {
	// Lex errors take precedence.
	if p.err != nil {
		return
	}
	p.err = &ParseError{
		problem: problem,
		pos:     p.tok.pos,
		str:     p.lex.line,
		hint:    hint,
	}
}

func (p *wktParser) unexpected(expected string) {
	p.setParseError(fmt.Sprintf("syntax error: expected %s, found %s", expected, p.describeTok()), "")
}

func (p *wktParser) describeTok() string {
	switch p.tok.kind {
	case tokKeyword:
		return fmt.Sprintf("%q", p.tok.str)
	case tokNum:
		return "number"
	default:
		return p.tok.kind.String()
	}
}

func (p *wktParser) expect(kind tokenKind) bool {
	if p.err != nil {
		return false
	}
	if p.tok.kind != kind {
		p.unexpected(kind.String())
		return false
	}
	p.advance()
	return p.err == nil
}

// parseGeometryType parses the geometry keyword and its optional dimension
// token.
func (p *wktParser) parseGeometryType() (geomKind, geom.Layout, bool) {
	if p.tok.kind != tokKeyword {
		p.unexpected("geometry type")
		return 0, geom.NoLayout, false
	}
	word := p.tok.str
	kind, ok := geomKeywords[word]
	layout := geom.XY
	if !ok {
		// Fused spelling such as POINTZ or MULTIPOLYGONZM.
		for suffix, l := range dimensionSuffixes {
			if k, found := geomKeywords[trimSuffix(word, suffix)]; found && len(word) > len(suffix) {
				kind, layout, ok = k, l, true
				break
			}
		}
		if !ok {
			p.setParseError(fmt.Sprintf("syntax error: unknown geometry type %q", word), "")
			return 0, geom.NoLayout, false
		}
		p.advance()
		return kind, layout, p.err == nil
	}
	p.advance()
	if p.tok.kind == tokKeyword {
		if l, isDim := dimensionSuffixes[p.tok.str]; isDim {
			layout = l
			p.advance()
		}
	}
	return kind, layout, p.err == nil
}

func trimSuffix(s, suffix string) string {
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// parseEmpty consumes EMPTY if it is the current token.
func (p *wktParser) parseEmpty() bool {
	if p.tok.kind == tokKeyword && p.tok.str == "EMPTY" {
		p.advance()
		return true
	}
	return false
}

// parseGeometry parses a tagged geometry. outerLayout is the layout required
// by an enclosing collection, or geom.NoLayout at the top level.
func (p *wktParser) parseGeometry(depth int, outerLayout geom.Layout) geom.T {
	kind, layout, ok := p.parseGeometryType()
	if !ok {
		return nil
	}
	if outerLayout != geom.NoLayout && layout != outerLayout {
		p.setParseError(
			fmt.Sprintf("syntax error: mixed dimensionality, collection layout is %s but encountered layout of %s",
				layoutName(outerLayout), layoutName(layout)),
			"",
		)
		return nil
	}
	empty := p.parseEmpty()
	if p.err != nil {
		return nil
	}

	switch kind {
	case kindPoint:
		if empty {
			return geom.NewPointEmpty(layout)
		}
		flat := p.parseParenCoords(layout, 1 /* minPoints */, 1 /* maxPoints */)
		if p.err != nil {
			return nil
		}
		return geom.NewPointFlat(layout, flat)

	case kindLineString:
		if empty {
			return geom.NewLineString(layout)
		}
		flat := p.parseLineStringBody(layout)
		if p.err != nil {
			return nil
		}
		return geom.NewLineStringFlat(layout, flat)

	case kindPolygon:
		if empty {
			return geom.NewPolygon(layout)
		}
		flat, ends := p.parsePolygonBody(layout, nil, nil)
		if p.err != nil {
			return nil
		}
		return geom.NewPolygonFlat(layout, flat, ends)

	case kindMultiPoint:
		if empty {
			return geom.NewMultiPoint(layout)
		}
		flat := p.parseMultiPointBody(layout)
		if p.err != nil {
			return nil
		}
		return geom.NewMultiPointFlat(layout, flat)

	case kindMultiLineString:
		if empty {
			return geom.NewMultiLineString(layout)
		}
		var flat []float64
		var ends []int
		p.parseList(func() {
			flat = append(flat, p.parseLineStringBody(layout)...)
			ends = append(ends, len(flat))
		})
		if p.err != nil {
			return nil
		}
		return geom.NewMultiLineStringFlat(layout, flat, ends)

	case kindMultiPolygon:
		if empty {
			return geom.NewMultiPolygon(layout)
		}
		var flat []float64
		var endss [][]int
		p.parseList(func() {
			var ends []int
			flat, ends = p.parsePolygonBody(layout, flat, nil)
			endss = append(endss, ends)
		})
		if p.err != nil {
			return nil
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss)

	case kindGeometryCollection:
		if layout != geom.XY {
			p.setParseError(
				"syntax error: GEOMETRYCOLLECTION does not take a dimension",
				"all members of a GEOMETRYCOLLECTION must be XY",
			)
			return nil
		}
		gc := geom.NewGeometryCollection()
		if err := gc.SetLayout(geom.XY); err != nil {
			p.setParseError("syntax error: "+err.Error(), "")
			return nil
		}
		if empty {
			return gc
		}
		if depth >= maxCollectionDepth {
			p.setParseError("syntax error: GEOMETRYCOLLECTION nested too deeply", "")
			return nil
		}
		p.parseList(func() {
			child := p.parseGeometry(depth+1, geom.XY)
			if p.err != nil {
				return
			}
			if err := gc.Push(child); err != nil {
				p.setParseError("syntax error: "+err.Error(), "")
			}
		})
		if p.err != nil {
			return nil
		}
		return gc
	}
	p.setParseError(fmt.Sprintf("syntax error: unhandled geometry kind %d", kind), "")
	return nil
}

// parseList parses "(" elem { "," elem } ")".
func (p *wktParser) parseList(elem func()) {
	if !p.expect(tokLParen) {
		return
	}
	for {
		elem()
		if p.err != nil {
			return
		}
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokRParen)
}

// parseCoord appends exactly layout.Stride() ordinates to flat.
func (p *wktParser) parseCoord(layout geom.Layout, flat []float64) []float64 {
	stride := layout.Stride()
	for i := 0; i < stride; i++ {
		if p.err != nil {
			return flat
		}
		if p.tok.kind != tokNum {
			if i == 0 {
				p.unexpected("number")
			} else {
				p.setParseError(
					fmt.Sprintf("syntax error: mixed dimensionality, parsed layout is %s so expecting %d coords but got %d coords",
						layoutName(layout), stride, i),
					"",
				)
			}
			return flat
		}
		flat = append(flat, p.tok.num)
		p.advance()
	}
	if p.err == nil && p.tok.kind == tokNum {
		hint := ""
		if layout == geom.XY {
			hint = "the dimension of a coordinate must be declared, e.g. POINT Z (1 2 3)"
		}
		p.setParseError(
			fmt.Sprintf("syntax error: mixed dimensionality, parsed layout is %s so expecting %d coords but got more",
				layoutName(layout), stride),
			hint,
		)
	}
	return flat
}

// parseParenCoords parses "(" coord { "," coord } ")" and checks the number
// of points. maxPoints <= 0 means unbounded.
func (p *wktParser) parseParenCoords(layout geom.Layout, minPoints, maxPoints int) []float64 {
	var flat []float64
	startPos := p.tok.pos
	n := 0
	p.parseList(func() {
		if maxPoints > 0 && n == maxPoints {
			p.unexpected(`")"`)
			return
		}
		flat = p.parseCoord(layout, flat)
		n++
	})
	if p.err == nil && n < minPoints {
		p.err = &ParseError{
			problem: fmt.Sprintf("syntax error: expected at least %d points, found %d", minPoints, n),
			pos:     startPos,
			str:     p.lex.line,
		}
	}
	return flat
}

func (p *wktParser) parseLineStringBody(layout geom.Layout) []float64 {
	return p.parseParenCoords(layout, 2 /* minPoints */, 0 /* maxPoints */)
}

// parsePolygonBody parses the rings of one polygon, appending its
// coordinates to flat. Ring ends are offsets into the returned flat slice.
func (p *wktParser) parsePolygonBody(
	layout geom.Layout, flat []float64, ends []int,
) ([]float64, []int) {
	stride := layout.Stride()
	p.parseList(func() {
		ringPos := p.tok.pos
		ring := p.parseParenCoords(layout, 4 /* minPoints */, 0 /* maxPoints */)
		if p.err != nil {
			return
		}
		if !ringClosed(ring, stride) {
			p.err = &ParseError{
				problem: "syntax error: polygon ring is not closed",
				pos:     ringPos,
				str:     p.lex.line,
				hint:    "the first and last points of a ring must be equal",
			}
			return
		}
		flat = append(flat, ring...)
		ends = append(ends, len(flat))
	})
	return flat, ends
}

func ringClosed(ring []float64, stride int) bool {
	last := len(ring) - stride
	for i := 0; i < stride; i++ {
		if ring[i] != ring[last+i] {
			return false
		}
	}
	return true
}

// parseMultiPointBody accepts both "(1 2, 3 4)" and "((1 2), (3 4))".
func (p *wktParser) parseMultiPointBody(layout geom.Layout) []float64 {
	var flat []float64
	p.parseList(func() {
		if p.tok.kind == tokLParen {
			p.advance()
			flat = p.parseCoord(layout, flat)
			p.expect(tokRParen)
			return
		}
		flat = p.parseCoord(layout, flat)
	})
	return flat
}

func layoutName(layout geom.Layout) string {
	switch layout {
	case geom.XY:
		return "XY"
	case geom.XYM:
		return "XYM"
	case geom.XYZ:
		return "XYZ"
	case geom.XYZM:
		return "XYZM"
	default:
		return fmt.Sprintf("layout(%d)", int(layout))
	}
}
