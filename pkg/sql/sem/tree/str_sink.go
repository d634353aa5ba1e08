// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import "unsafe"

// StrSink is a reusable text buffer backing the *DString results of a
// single expression. Every call to Fill clears the buffer, refills it, and
// returns a *DString that aliases the buffer without copying.
//
// The returned *DString is borrowed: its bytes are overwritten by the next
// call to Fill on the same sink. Converting it to a string does not copy, so
// callers that need the value longer must clone it, e.g. with
// NewDString(strings.Clone(string(*d))). A StrSink is not safe for
// concurrent use.
type StrSink struct {
	buf []byte
	d   DString
}

// Fill resets the sink and calls fn to append the new contents. If fn
// returns an error the sink is left empty and no *DString is returned, so a
// partially written value is never observed.
func (s *StrSink) Fill(fn func(buf []byte) ([]byte, error)) (*DString, error) {
	s.d = ""
	buf, err := fn(s.buf[:0])
	if err != nil {
		s.buf = buf[:0]
		return nil, err
	}
	s.buf = buf
	if len(buf) == 0 {
		return &s.d, nil
	}
	s.d = DString(unsafe.String(&buf[0], len(buf)))
	return &s.d, nil
}

// Cap returns the capacity of the underlying buffer.
func (s *StrSink) Cap() int {
	return cap(s.buf)
}
