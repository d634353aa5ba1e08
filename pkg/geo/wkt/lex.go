// Copyright 2021 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package wkt

import (
	"fmt"
	"strconv"
	"strings"
)

// LexError is an error that occurs during lexing.
type LexError struct {
	expectedTokType string
	pos             int
	str             string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error: invalid %s at pos %d\n%s\n%s^",
		e.expectedTokType, e.pos, e.str, strings.Repeat(" ", e.pos))
}

// Pos returns the byte offset at which lexing failed.
func (e *LexError) Pos() int { return e.pos }

// ParseError is an error that occurs during parsing, which happens after lexing.
type ParseError struct {
	problem string
	pos     int
	str     string
	hint    string
}

func (e *ParseError) Error() string {
	err := fmt.Sprintf("%s at pos %d\n%s\n%s^", e.problem, e.pos, e.str, strings.Repeat(" ", e.pos))
	if e.hint != "" {
		err += fmt.Sprintf("\nHINT: %s", e.hint)
	}
	return err
}

// Pos returns the byte offset at which parsing failed.
func (e *ParseError) Pos() int { return e.pos }

// Hint returns the hint attached to the error, if any.
func (e *ParseError) Hint() string { return e.hint }

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokKeyword
	tokNum
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	case tokComma:
		return `","`
	case tokKeyword:
		return "keyword"
	case tokNum:
		return "number"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	pos  int
	// str is the upper-cased keyword for tokKeyword.
	str string
	num float64
}

// Constant returned by peek when the lexer reaches EOF.
const eof = 0

type wktLex struct {
	line    string
	pos     int
	lastPos int
	lastErr error
}

func makeWktLex(line string) wktLex {
	return wktLex{line: line}
}

// lex lexes a token from the input. A lex error is recorded in lastErr and
// reported as tokEOF.
func (l *wktLex) lex() token {
	// Skip leading spaces.
	l.trimLeft()
	l.lastPos = l.pos

	switch c := l.peek(); c {
	case eof:
		return token{kind: tokEOF, pos: l.pos}
	case '(':
		l.next()
		return token{kind: tokLParen, pos: l.lastPos}
	case ')':
		l.next()
		return token{kind: tokRParen, pos: l.lastPos}
	case ',':
		l.next()
		return token{kind: tokComma, pos: l.lastPos}
	default:
		if isLetter(c) {
			return l.keyword()
		} else if isNumStartRune(c) {
			return l.num()
		}
		l.next()
		l.setLexError("character")
		return token{kind: tokEOF, pos: l.lastPos}
	}
}

// keyword lexes a run of letters. Dimension modifiers separated by spaces
// are lexed as their own keyword token.
func (l *wktLex) keyword() token {
	var b strings.Builder
	for {
		c := l.peek()
		if !isLetter(c) {
			break
		}
		c = l.next()
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(byte(c))
	}
	return token{kind: tokKeyword, pos: l.lastPos, str: b.String()}
}

// isLetter and isSpace only accept ASCII. Input is read byte by byte, so
// any other byte would otherwise be read as a Latin-1 character.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

func isNumStartRune(r rune) bool {
	switch r {
	case '-', '+', '.':
		return true
	default:
		return r >= '0' && r <= '9'
	}
}

func isNumRune(r rune) bool {
	switch r {
	case '-', '+', '.', 'e', 'E':
		return true
	default:
		return r >= '0' && r <= '9'
	}
}

// num lexes a number. The whole run of number characters must form a single
// finite float.
func (l *wktLex) num() token {
	start := l.pos
	for isNumRune(l.peek()) {
		l.next()
	}
	s := l.line[start:l.pos]
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// strconv accepts "inf" and "nan" spellings, but those never reach here
		// because letters other than the exponent marker end the run. A range
		// error means the value overflowed.
		l.setLexError("number")
		return token{kind: tokEOF, pos: l.lastPos}
	}
	return token{kind: tokNum, pos: l.lastPos, num: fl}
}

func (l *wktLex) peek() rune {
	if l.pos == len(l.line) {
		return eof
	}
	return rune(l.line[l.pos])
}

func (l *wktLex) next() rune {
	c := l.peek()
	if c != eof {
		l.pos++
	}
	return c
}

func (l *wktLex) trimLeft() {
	for {
		c := l.peek()
		if c == eof || !isSpace(c) {
			break
		}
		l.next()
	}
}

func (l *wktLex) setLexError(expectedTokType string) {
	if l.lastErr == nil {
		l.lastErr = &LexError{expectedTokType: expectedTokType, pos: l.lastPos, str: l.line}
	}
}
