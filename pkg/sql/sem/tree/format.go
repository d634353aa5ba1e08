// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import "strings"

// NodeFormatter is implemented by nodes that can be pretty-printed.
type NodeFormatter interface {
	// Format performs pretty-printing towards a bytes buffer. The flags member
	// of ctx influences the results. Most callers should use FormatNode instead.
	Format(ctx *FmtCtx)
}

// FmtCtx is suitable for passing to Format() methods. It is the sink that
// plan text is rendered into: literal text goes through WriteString and
// operands through FormatNode.
type FmtCtx struct {
	strings.Builder
}

// NewFmtCtx creates a FmtCtx.
func NewFmtCtx() *FmtCtx {
	return &FmtCtx{}
}

// FormatNode recurses into a node for pretty-printing.
func (ctx *FmtCtx) FormatNode(n NodeFormatter) {
	n.Format(ctx)
}

// CloseAndGetString returns the contents of the buffer.
func (ctx *FmtCtx) CloseAndGetString() string {
	s := ctx.String()
	ctx.Reset()
	return s
}

// AsString pretty prints a node to a string.
func AsString(n NodeFormatter) string {
	ctx := NewFmtCtx()
	ctx.FormatNode(n)
	return ctx.CloseAndGetString()
}

// encodeSQLString writes a string literal to buf, quoted with single quotes.
// Embedded quotes are doubled.
func encodeSQLString(buf *strings.Builder, in string) {
	buf.WriteByte('\'')
	for i := 0; i < len(in); i++ {
		if in[i] == '\'' {
			buf.WriteByte('\'')
		}
		buf.WriteByte(in[i])
	}
	buf.WriteByte('\'')
}
