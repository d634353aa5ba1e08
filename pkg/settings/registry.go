// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// MaxSettings is the maximum number of settings that the system supports.
const MaxSettings = 64

// registry contains all defined settings, their types and default values.
//
// Registry should never be mutated after init (except in tests), as it is read
// concurrently by different callers.
var registry = map[string]wrappedSetting{}

// slots maps a slot index back to the setting that owns it.
var slots []Setting

// frozen becomes non-zero once the registry is "live".
var frozen int32

// Freeze ensures that no new settings can be defined.
func Freeze() { atomic.StoreInt32(&frozen, 1) }

func assertNotFrozen(key string) {
	if atomic.LoadInt32(&frozen) > 0 {
		panic(fmt.Sprintf("registration must occur before settings are in use: %s", key))
	}
}

// register adds a setting to the registry and returns its slot.
func register(key, desc string, s Setting) int {
	assertNotFrozen(key)
	if _, ok := registry[key]; ok {
		panic(fmt.Sprintf("setting already defined: %s", key))
	}
	if len(slots) >= MaxSettings {
		panic(fmt.Sprintf("too many settings; increase MaxSettings: %s", key))
	}
	registry[key] = wrappedSetting{description: desc, setting: s}
	slots = append(slots, s)
	return len(slots) - 1
}

type wrappedSetting struct {
	description string
	setting     Setting
}

// Keys returns a sorted string array with all the known keys.
func Keys() (res []string) {
	res = make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Lookup returns a Setting by name along with its description.
func Lookup(name string) (Setting, string, bool) {
	v, ok := registry[name]
	if !ok {
		return nil, "", false
	}
	return v.setting, v.description, true
}
