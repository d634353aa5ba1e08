// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"sort"
	"strings"

	"github.com/cockroachdb/stgeo/pkg/sql/sem/tree"
	"github.com/cockroachdb/stgeo/pkg/sql/types"
)

// ArgTypes is a list of named, typed parameters.
type ArgTypes []struct {
	Name string
	Typ  *types.T
}

// Match checks if all types in the ArgTypes accept the given types, in
// order and length.
func (a ArgTypes) Match(typs []*types.T) bool {
	if len(typs) != len(a) {
		return false
	}
	for i := range typs {
		if !typs[i].Equivalent(a[i].Typ) {
			return false
		}
	}
	return true
}

// String renders the parameters as "name: type, name: type".
func (a ArgTypes) String() string {
	var s strings.Builder
	for i, arg := range a {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(arg.Name)
		s.WriteString(": ")
		s.WriteString(arg.Typ.String())
	}
	return s.String()
}

// BuildFn binds an overload to its type-checked arguments. argPos holds the
// byte offset of each argument in the input, for error reporting. The
// returned function is called once per evaluation of the invocation; any
// state it closes over, such as an output buffer, is owned by that
// invocation.
type BuildFn func(ctx *Context, args tree.TypedExprs, argPos []int) (tree.EvalFn, error)

// Overload is one of the overloads of a built-in function.
type Overload struct {
	Types      ArgTypes
	ReturnType *types.T
	// NullResult is returned, without evaluating the function, when any
	// argument is NULL.
	NullResult tree.Datum
	// Info is a description of the function.
	Info  string
	Build BuildFn
}

// Signature returns a human-readable signature, e.g.
// "st_distance(geometry_a: string, geometry_b: string) -> float".
func (ov *Overload) Signature(name string) string {
	return name + "(" + ov.Types.String() + ") -> " + ov.ReturnType.String()
}

// FunctionDefinition implements a reference to the (possibly several)
// overloads for a built-in function.
type FunctionDefinition struct {
	// Name is the short name of the function.
	Name string
	// Category is used to group functions in the help output.
	Category string
	// Definition is the set of overloads for this function name.
	Definition []Overload
}

// NewFunctionDefinition allocates a function definition corresponding
// to the given built-in definition.
func NewFunctionDefinition(name, category string, def []Overload) *FunctionDefinition {
	return &FunctionDefinition{Name: name, Category: category, Definition: def}
}

// FunDefs holds pre-allocated FunctionDefinition instances
// for every builtin function. Initialized by builtins.init().
var FunDefs = map[string]*FunctionDefinition{}

// AllFunctionNames returns the names of every registered function, sorted.
func AllFunctionNames() []string {
	names := make([]string, 0, len(FunDefs))
	for name := range FunDefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
