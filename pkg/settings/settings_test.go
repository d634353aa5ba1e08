// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var boolTA = RegisterBoolSetting("bool.t", "", true)
var boolFA = RegisterBoolSetting("bool.f", "", false)
var i1A = RegisterIntSetting("i.1", "", 0, nil)
var i2A = RegisterIntSetting("i.2", "", 5, IntInRange(-1, 10))

func TestCache(t *testing.T) {
	sv := MakeValues()

	t.Run("defaults", func(t *testing.T) {
		require.False(t, boolFA.Get(sv))
		require.True(t, boolTA.Get(sv))
		require.Equal(t, int64(0), i1A.Get(sv))
		require.Equal(t, int64(5), i2A.Get(sv))
		require.Equal(t, int64(5), i2A.Default())
	})

	t.Run("lookup", func(t *testing.T) {
		actual, _, ok := Lookup("i.1")
		require.True(t, ok)
		require.Equal(t, Setting(i1A), actual)
		_, _, ok = Lookup("dne")
		require.False(t, ok)
		require.Contains(t, Keys(), "bool.t")
	})

	t.Run("set", func(t *testing.T) {
		sv := MakeValues()
		require.NoError(t, sv.Set("i.2", "-1"))
		require.Equal(t, int64(-1), i2A.Get(sv))
		require.Equal(t, "-1", i2A.String(sv))

		require.Error(t, sv.Set("i.2", "11"))
		require.Equal(t, int64(-1), i2A.Get(sv))
		require.Error(t, sv.Set("i.2", "x"))

		require.NoError(t, sv.Set("bool.t", "false"))
		require.False(t, boolTA.Get(sv))
		require.Equal(t, "false", boolTA.String(sv))

		require.EqualError(t, sv.Set("dne", "1"), "unknown setting: dne")
	})

	t.Run("override", func(t *testing.T) {
		sv := MakeValues()
		other := MakeValues()
		i1A.Override(sv, 42)
		boolFA.Override(sv, true)
		require.Equal(t, int64(42), i1A.Get(sv))
		require.True(t, boolFA.Get(sv))
		// Values are independent.
		require.Equal(t, int64(0), i1A.Get(other))
		require.False(t, boolFA.Get(other))
	})
}

func TestRegisterAfterFreezePanics(t *testing.T) {
	_ = MakeValues()
	require.Panics(t, func() {
		RegisterBoolSetting("too.late", "", false)
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	require.Panics(t, func() {
		register("bool.t", "", boolTA)
	})
}
