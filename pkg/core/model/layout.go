// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Layout describes the physical configuration of a parking lot.
// Row i of Sizes and Distances describes the slot with ID i, while
// Entries lists the gates which must be 0, 1, ..., k-1 in order where
// k is the length of each distance vector.
type Layout struct {
	Sizes     []Size
	Distances [][]int
	Entries   []EntryPoint
}

// Validate checks the l layout, expecting at least minEntries entry
// points. A nil error is returned for a valid layout. Otherwise, the
// returned error wraps ErrInvalidConfiguration and describes the
// first violation which was found.
func (l Layout) Validate(minEntries int) error {
	if err := l.validate(minEntries); err != nil {
		return errors.Join(ErrInvalidConfiguration, err)
	}
	return nil
}

func (l Layout) validate(minEntries int) error {
	n, k := len(l.Sizes), len(l.Entries)
	switch {
	case n == 0:
		return errors.New("no slots")
	case n != len(l.Distances):
		return fmt.Errorf(
			"%d slot sizes do not match %d distances",
			n, len(l.Distances),
		)
	case k < minEntries:
		return fmt.Errorf(
			"%d entry points are less than minimum %d", k, minEntries,
		)
	}
	for i, e := range l.Entries {
		if int(e) != i {
			return fmt.Errorf(
				"entry point %s found at position %d", e, i,
			)
		}
	}
	for i, s := range l.Sizes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		d := l.Distances[i]
		if len(d) != k {
			return fmt.Errorf(
				"slot %d has %d distances for %d entry points",
				i, len(d), k,
			)
		}
		for j, dist := range d {
			if dist <= 0 {
				return fmt.Errorf(
					"slot %d has non-positive distance %d from %s",
					i, dist, EntryPoint(j),
				)
			}
		}
	}
	return nil
}
