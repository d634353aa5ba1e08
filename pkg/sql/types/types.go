// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package types defines the value types flowing through the scalar
// expression evaluator.
package types

import "fmt"

// Family specifies a group of types that are compatible with one another.
type Family int32

const (
	// UnknownFamily is the type of an untyped NULL.
	UnknownFamily Family = iota
	// StringFamily is the family of text values. Geometry text is carried
	// in this family.
	StringFamily
	// FloatFamily is the family of 64-bit floating point values.
	FloatFamily
)

func (f Family) String() string {
	switch f {
	case UnknownFamily:
		return "UnknownFamily"
	case StringFamily:
		return "StringFamily"
	case FloatFamily:
		return "FloatFamily"
	default:
		return fmt.Sprintf("Family(%d)", int32(f))
	}
}

// T is an instance of a type. Types are compared by pointer or by Family.
type T struct {
	family Family
	name   string
}

var (
	// Unknown is the type of an expression that statically evaluates to
	// NULL.
	Unknown = &T{family: UnknownFamily, name: "unknown"}
	// String is the type of a variable-length string.
	String = &T{family: StringFamily, name: "string"}
	// Float is the type of a 64-bit base-2 floating-point number.
	Float = &T{family: FloatFamily, name: "float"}
)

// Family returns the type's family.
func (t *T) Family() Family { return t.family }

// Name returns the lowercase name of the type, as used in function
// signatures.
func (t *T) Name() string { return t.name }

// String implements fmt.Stringer.
func (t *T) String() string { return t.name }

// Equivalent returns whether a value of type t may be used where a value
// of type other is expected. Unknown, the type of NULL, is equivalent to
// every type.
func (t *T) Equivalent(other *T) bool {
	if t.family == UnknownFamily || other.family == UnknownFamily {
		return true
	}
	return t.family == other.family
}
