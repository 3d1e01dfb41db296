// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package alloc implements the slot allocation algorithm which finds
// the nearest suitable free slot for a vehicle entering from a gate.
// It has no side effects; committing an assignment is the job of the
// lot use case.
package alloc

import (
	"fmt"

	"github.com/momeni/parking-lot/pkg/core/model"
)

// FindSlot returns the index of the best slot in slots for a vehicle
// with the given size which enters from the entry gate, where the lot
// has entries gates. Candidates are the empty slots which fit size.
// Among them, the slot with the smallest distance from entry wins and
// ties are broken by the smallest slot size (keeping larger slots for
// larger vehicles) and then by the smallest slot ID.
//
// It returns model.ErrInvalidEntryPoint if entry is not in the range
// [0, entries) and model.ErrNoAvailableSpot if there is no candidate.
func FindSlot(
	slots []model.Slot,
	size model.Size,
	entry model.EntryPoint,
	entries int,
) (int, error) {
	if entry < 0 || int(entry) >= entries {
		return -1, fmt.Errorf("%w: %s", model.ErrInvalidEntryPoint, entry)
	}
	best := -1
	for i := range slots {
		s := &slots[i]
		if !s.IsEmpty() || !s.Fits(size) {
			continue
		}
		if best < 0 || less(s, &slots[best], entry) {
			best = i
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: size=%s", model.ErrNoAvailableSpot, size)
	}
	return best, nil
}

func less(a, b *model.Slot, entry model.EntryPoint) bool {
	da, db := a.Distances[entry], b.Distances[entry]
	switch {
	case da != db:
		return da < db
	case a.Size != b.Size:
		return a.Size < b.Size
	default:
		return a.ID < b.ID
	}
}
