// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package builtins registers the built-in SQL functions with eval.FunDefs.
package builtins

import (
	"sort"

	"github.com/cockroachdb/stgeo/pkg/sql/sem/eval"
)

// builtinDefinition holds the overloads of a single built-in function.
type builtinDefinition struct {
	category  string
	overloads []eval.Overload
}

func makeBuiltin(category string, overloads ...eval.Overload) builtinDefinition {
	return builtinDefinition{category: category, overloads: overloads}
}

// builtins contains the built-in functions indexed by name.
var builtins = map[string]builtinDefinition{}

func registerBuiltins(defs map[string]builtinDefinition) {
	for k, v := range defs {
		if _, exists := builtins[k]; exists {
			panic("duplicate builtin: " + k)
		}
		builtins[k] = v
	}
}

// AllBuiltinNames is an array containing all the built-in function
// names, sorted in alphabetical order. This can be used for a
// deterministic walk through the builtins.
var AllBuiltinNames []string

func init() {
	registerBuiltins(geoBuiltins)

	AllBuiltinNames = make([]string, 0, len(builtins))
	for name, def := range builtins {
		eval.FunDefs[name] = eval.NewFunctionDefinition(name, def.category, def.overloads)
		AllBuiltinNames = append(AllBuiltinNames, name)
	}
	sort.Strings(AllBuiltinNames)
}
