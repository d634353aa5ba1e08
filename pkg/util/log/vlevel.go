// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import "sync/atomic"

// Level specifies a level of verbosity for V logs.
type Level int32

var verbosity atomic.Int32

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level Level) bool {
	return Level(verbosity.Load()) >= level
}

// SetVerbosity sets the global verbosity and returns the previous value.
func SetVerbosity(level Level) Level {
	return Level(verbosity.Swap(int32(level)))
}
