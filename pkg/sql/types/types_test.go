// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEquivalent(t *testing.T) {
	testCases := []struct {
		a, b     *T
		expected bool
	}{
		{String, String, true},
		{Float, Float, true},
		{String, Float, false},
		{Unknown, String, true},
		{Float, Unknown, true},
	}
	for _, tc := range testCases {
		t.Run(tc.a.String()+"/"+tc.b.String(), func(t *testing.T) {
			require.Equal(t, tc.expected, tc.a.Equivalent(tc.b))
			require.Equal(t, tc.expected, tc.b.Equivalent(tc.a))
		})
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, "string", String.Name())
	require.Equal(t, StringFamily, String.Family())
	require.Equal(t, "FloatFamily", Float.Family().String())
}
