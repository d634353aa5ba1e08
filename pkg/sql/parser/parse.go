// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package parser parses the scalar expressions evaluated by geoeval:
// function calls, string and numeric literals, NULL and @N column
// references.
package parser

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/stgeo/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
)

// maxDepth bounds the nesting of function calls.
const maxDepth = 64

// Parser wraps a scanner and parser state.
type Parser struct {
	scanner scanner
	tok     sqlSymType
	depth   int
}

// ParseExpr parses a single SQL scalar expression.
func ParseExpr(sql string) (tree.Expr, error) {
	exprs, err := ParseExprs(sql)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, pgerror.Newf(pgcode.Syntax, "expected 1 expression, found %d", len(exprs))
	}
	return exprs[0], nil
}

// ParseExprs parses a comma-delimited sequence of SQL scalar expressions.
func ParseExprs(sql string) (tree.Exprs, error) {
	var p Parser
	return p.parseExprs(sql)
}

func (p *Parser) parseExprs(sql string) (tree.Exprs, error) {
	p.scanner.init(sql)
	p.next()
	if p.tok.id == tokEOF {
		return nil, p.errorf("empty expression")
	}
	var exprs tree.Exprs
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.tok.id != tokComma {
			break
		}
		p.next()
	}
	if p.tok.id != tokEOF {
		return nil, p.unexpected("end of input")
	}
	return exprs, nil
}

func (p *Parser) next() {
	p.scanner.scan(&p.tok)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	err := pgerror.Newf(pgcode.Syntax, format, args...)
	err = errors.WithDetailf(err, "source SQL:\n%s\n%s^", p.scanner.in, strings.Repeat(" ", p.tok.pos))
	return pgerror.WithPosition(err, p.tok.pos)
}

func (p *Parser) unexpected(expected string) error {
	if p.tok.id == tokError {
		return p.errorf("lexical error: %s", p.tok.str)
	}
	return p.errorf("syntax error: expected %s, found %s", expected, p.tok.id)
}

func (p *Parser) parseExpr() (tree.Expr, error) {
	switch p.tok.id {
	case tokSConst:
		d := tree.NewDString(p.tok.str)
		p.next()
		return d, nil

	case tokFConst:
		f, err := strconv.ParseFloat(p.tok.str, 64)
		if err != nil {
			return nil, p.errorf("lexical error: invalid number %q", p.tok.str)
		}
		p.next()
		return tree.NewDFloat(tree.DFloat(f)), nil

	case tokPlaceholder:
		n, err := strconv.Atoi(p.tok.str)
		if err != nil || n < 1 {
			return nil, p.errorf("invalid column reference @%s", p.tok.str)
		}
		p.next()
		return &tree.IndexedVar{Idx: n - 1}, nil

	case tokIdent:
		if strings.EqualFold(p.tok.str, "null") {
			p.next()
			return tree.DNull, nil
		}
		return p.parseFuncCall()

	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) parseFuncCall() (tree.Expr, error) {
	if p.depth >= maxDepth {
		return nil, p.errorf("expression nested too deeply")
	}
	p.depth++
	defer func() { p.depth-- }()

	call := &tree.FuncCall{Name: p.tok.str, Pos: p.tok.pos}
	p.next()
	if p.tok.id != tokLParen {
		return nil, p.unexpected(`"("`)
	}
	p.next()
	if p.tok.id == tokRParen {
		p.next()
		return call, nil
	}
	for {
		call.ArgPos = append(call.ArgPos, p.tok.pos)
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Exprs = append(call.Exprs, arg)
		if p.tok.id != tokComma {
			break
		}
		p.next()
	}
	if p.tok.id != tokRParen {
		return nil, p.unexpected(`")"`)
	}
	p.next()
	return call, nil
}
