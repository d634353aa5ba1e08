// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package parser

import (
	"fmt"
	"strings"
)

const eof = -1

type tokenID int

const (
	tokEOF tokenID = iota
	tokIdent
	tokSConst
	tokFConst
	tokPlaceholder
	tokLParen
	tokRParen
	tokComma
	tokError
)

func (id tokenID) String() string {
	switch id {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokSConst:
		return "string literal"
	case tokFConst:
		return "numeric literal"
	case tokPlaceholder:
		return "column reference"
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	case tokComma:
		return `","`
	default:
		return fmt.Sprintf("token(%d)", int(id))
	}
}

type sqlSymType struct {
	id  tokenID
	pos int
	// str is the identifier, the unquoted string, the numeric text or the
	// error message for tokError.
	str string
}

// scanner lexes SQL scalar expressions.
type scanner struct {
	in  string
	pos int
}

func (s *scanner) init(str string) {
	s.in = str
	s.pos = 0
}

func (s *scanner) peek() int {
	if s.pos >= len(s.in) {
		return eof
	}
	return int(s.in[s.pos])
}

func (s *scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', '\f':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) scan(lval *sqlSymType) {
	s.skipWhitespace()
	lval.pos = s.pos
	lval.str = ""
	ch := s.peek()
	switch {
	case ch == eof:
		lval.id = tokEOF
	case ch == '(':
		s.pos++
		lval.id = tokLParen
	case ch == ')':
		s.pos++
		lval.id = tokRParen
	case ch == ',':
		s.pos++
		lval.id = tokComma
	case ch == '\'':
		s.scanString(lval)
	case ch == '@':
		s.pos++
		start := s.pos
		for isDigit(s.peek()) {
			s.pos++
		}
		if start == s.pos {
			lval.id = tokError
			lval.str = "expected column number after @"
			return
		}
		lval.id = tokPlaceholder
		lval.str = s.in[start:s.pos]
	case isDigit(ch) || ch == '.' || ch == '-' || ch == '+':
		s.scanNumber(lval)
	case isIdentStart(ch):
		start := s.pos
		for isIdentMiddle(s.peek()) {
			s.pos++
		}
		lval.id = tokIdent
		lval.str = s.in[start:s.pos]
	default:
		s.pos++
		lval.id = tokError
		lval.str = fmt.Sprintf("unexpected character %q", rune(ch))
	}
}

// scanString scans a single-quoted string. A doubled quote stands for one
// quote.
func (s *scanner) scanString(lval *sqlSymType) {
	s.pos++
	var b strings.Builder
	for {
		ch := s.peek()
		switch ch {
		case eof:
			lval.id = tokError
			lval.str = "unterminated string"
			return
		case '\'':
			s.pos++
			if s.peek() == '\'' {
				b.WriteByte('\'')
				s.pos++
				continue
			}
			lval.id = tokSConst
			lval.str = b.String()
			return
		default:
			b.WriteByte(byte(ch))
			s.pos++
		}
	}
}

func (s *scanner) scanNumber(lval *sqlSymType) {
	start := s.pos
	if ch := s.peek(); ch == '-' || ch == '+' {
		s.pos++
	}
	for {
		ch := s.peek()
		if isDigit(ch) || ch == '.' {
			s.pos++
			continue
		}
		if ch == 'e' || ch == 'E' {
			s.pos++
			if next := s.peek(); next == '-' || next == '+' {
				s.pos++
			}
			continue
		}
		break
	}
	lval.id = tokFConst
	lval.str = s.in[start:s.pos]
}

func isDigit(ch int) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch int) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentMiddle(ch int) bool {
	return isIdentStart(ch) || isDigit(ch)
}
