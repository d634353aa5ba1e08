// Copyright 2018 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// TestLogScope represents the lifetime of a logging output redirection
// for a test. Use it as follows:
//
//	func TestSomething(t *testing.T) {
//		defer log.Scope(t).Close(t)
//		...
//	}
//
// Log entries produced while the scope is open are routed to t.Log.
type TestLogScope struct {
	restore func()
}

// Scope redirects the process-wide logger to the test's log.
func Scope(t testing.TB) *TestLogScope {
	return &TestLogScope{restore: SetLogger(zaptest.NewLogger(t))}
}

// Close restores the logger that was installed before Scope.
func (s *TestLogScope) Close(t testing.TB) {
	t.Helper()
	s.restore()
}
