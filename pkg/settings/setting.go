// Copyright 2017 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Setting is the interface exposing the metadata for a setting.
type Setting interface {
	// Key returns the name of the setting.
	Key() string
	// Typ returns the short type name of the setting ("i" or "b").
	Typ() string
	// String returns the current value of the setting in sv, formatted.
	String(sv *Values) string
	// Set parses and applies a new value.
	Set(sv *Values, encoded string) error

	setToDefault(sv *Values)
}

type common struct {
	key     string
	slotIdx int
}

func (c *common) Key() string { return c.key }

// IntSetting is the interface of a setting variable that will be
// updated automatically when the corresponding cluster-wide setting
// of type "int" is updated.
type IntSetting struct {
	common
	defaultValue int64
	validateFn   func(int64) error
}

var _ Setting = &IntSetting{}

// Get retrieves the int value in the setting.
func (i *IntSetting) Get(sv *Values) int64 {
	return sv.getInt64(i.slotIdx)
}

// Default returns the default value.
func (i *IntSetting) Default() int64 { return i.defaultValue }

// Typ returns the short (1 char) string denoting the type of setting.
func (*IntSetting) Typ() string { return "i" }

func (i *IntSetting) String(sv *Values) string {
	return strconv.FormatInt(i.Get(sv), 10)
}

// Validate checks whether v is an acceptable value.
func (i *IntSetting) Validate(v int64) error {
	if i.validateFn != nil {
		if err := i.validateFn(v); err != nil {
			return errors.Wrapf(err, "invalid value for %s", i.key)
		}
	}
	return nil
}

// Override changes the setting without validation. For use in tests.
func (i *IntSetting) Override(sv *Values, v int64) {
	sv.setInt64(i.slotIdx, v)
}

// Set implements the Setting interface.
func (i *IntSetting) Set(sv *Values, encoded string) error {
	v, err := strconv.ParseInt(encoded, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", i.key)
	}
	if err := i.Validate(v); err != nil {
		return err
	}
	sv.setInt64(i.slotIdx, v)
	return nil
}

func (i *IntSetting) setToDefault(sv *Values) {
	sv.setInt64(i.slotIdx, i.defaultValue)
}

// RegisterIntSetting defines a new setting with type int.
func RegisterIntSetting(key, desc string, defaultValue int64, validateFn func(int64) error) *IntSetting {
	if validateFn != nil {
		if err := validateFn(defaultValue); err != nil {
			panic(errors.Wrapf(err, "invalid default value for %s", key))
		}
	}
	s := &IntSetting{common: common{key: key}, defaultValue: defaultValue, validateFn: validateFn}
	s.slotIdx = register(key, desc, s)
	return s
}

// IntInRange returns a validation function that checks that an int is in
// the inclusive range [lo, hi].
func IntInRange(lo, hi int64) func(int64) error {
	return func(v int64) error {
		if v < lo || v > hi {
			return errors.Errorf("expected value in range [%d, %d], got: %d", lo, hi, v)
		}
		return nil
	}
}

// BoolSetting is the interface of a setting variable that will be
// updated automatically when the corresponding cluster-wide setting
// of type "bool" is updated.
type BoolSetting struct {
	common
	defaultValue bool
}

var _ Setting = &BoolSetting{}

// Get retrieves the bool value in the setting.
func (b *BoolSetting) Get(sv *Values) bool {
	return sv.getInt64(b.slotIdx) != 0
}

// Default returns the default value.
func (b *BoolSetting) Default() bool { return b.defaultValue }

// Typ returns the short (1 char) string denoting the type of setting.
func (*BoolSetting) Typ() string { return "b" }

func (b *BoolSetting) String(sv *Values) string {
	return strconv.FormatBool(b.Get(sv))
}

// Override changes the setting. For use in tests.
func (b *BoolSetting) Override(sv *Values, v bool) {
	if v {
		sv.setInt64(b.slotIdx, 1)
	} else {
		sv.setInt64(b.slotIdx, 0)
	}
}

// Set implements the Setting interface.
func (b *BoolSetting) Set(sv *Values, encoded string) error {
	v, err := strconv.ParseBool(encoded)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", b.key)
	}
	b.Override(sv, v)
	return nil
}

func (b *BoolSetting) setToDefault(sv *Values) {
	b.Override(sv, b.defaultValue)
}

// RegisterBoolSetting defines a new setting with type bool.
func RegisterBoolSetting(key, desc string, defaultValue bool) *BoolSetting {
	s := &BoolSetting{common: common{key: key}, defaultValue: defaultValue}
	s.slotIdx = register(key, desc, s)
	return s
}
