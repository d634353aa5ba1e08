// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Values is a container that stores values for all registered settings.
// Each setting is assigned a unique slot (up to MaxSettings).
// Note that slot indices are 0-based.
//
// Values is safe for concurrent use.
type Values struct {
	intVals [MaxSettings]int64
}

// MakeValues returns a container holding the default value of every
// registered setting. It freezes the registry.
func MakeValues() *Values {
	Freeze()
	sv := &Values{}
	for _, s := range slots {
		s.setToDefault(sv)
	}
	return sv
}

func (sv *Values) getInt64(slot int) int64 {
	return atomic.LoadInt64(&sv.intVals[slot])
}

func (sv *Values) setInt64(slot int, v int64) {
	atomic.StoreInt64(&sv.intVals[slot], v)
}

// Set parses and applies the value of the named setting.
func (sv *Values) Set(key, encoded string) error {
	s, _, ok := Lookup(key)
	if !ok {
		return errors.Errorf("unknown setting: %s", key)
	}
	return s.Set(sv, encoded)
}
