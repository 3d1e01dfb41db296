// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError indicates that the Name setting had a Value which
// was less than Min or greater than Max.
type OutOfRangeError[T cmp.Ordered] struct {
	Name  string
	Value T
	Min   *T // nil if there is no lower boundary
	Max   *T // nil if there is no upper boundary
}

// Error implements error interface and returns a string reporting the
// setting name, its rejected value, and the violated boundary.
func (e *OutOfRangeError[T]) Error() string {
	if e.Min != nil && e.Value < *e.Min {
		return fmt.Sprintf("%s=%v is less than %v", e.Name, e.Value, *e.Min)
	}
	return fmt.Sprintf("%s=%v is greater than %v", e.Name, e.Value, *e.Max)
}

// VerifyRange verifies the name setting, ensuring that its value is
// either nil or is within the minb/maxb boundaries which are checked
// only if they are non-nil themselves. Out of range values cause an
// *OutOfRangeError to be returned while value is kept intact, so the
// caller may report it.
func VerifyRange[T cmp.Ordered](name string, value *T, minb, maxb *T) error {
	switch {
	case minb != nil && maxb != nil && *minb > *maxb:
		return fmt.Errorf("%s: min %v is greater than max %v", name, *minb, *maxb)
	case value == nil:
		return nil
	case minb != nil && *value < *minb, maxb != nil && *value > *maxb:
		return &OutOfRangeError[T]{
			Name: name, Value: *value, Min: minb, Max: maxb,
		}
	}
	return nil
}
