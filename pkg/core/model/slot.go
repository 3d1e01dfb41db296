// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "slices"

// Slot models a parking slot. Its ID, Size, and Distances are fixed
// when the lot is constructed and only its Occupant may change.
// The Occupant is the license plate of the parked vehicle (a lookup
// key and not an owning reference) or an empty string if the slot is
// free, hence, a slot is empty if and only if it has no Occupant.
type Slot struct {
	ID        int    `json:"id"`
	Size      Size   `json:"size"`
	Distances []int  `json:"distances"` // one distance per entry point
	Occupant  string `json:"occupant,omitempty"`
}

// IsEmpty reports if the s slot has no occupant.
func (s *Slot) IsEmpty() bool {
	return s.Occupant == ""
}

// Fits reports if a vehicle with the given size may park in s slot,
// regardless of its occupancy.
func (s *Slot) Fits(size Size) bool {
	return s.Size >= size
}

// Clone returns a copy of s which shares no memory with s.
func (s Slot) Clone() Slot {
	s.Distances = slices.Clone(s.Distances)
	return s
}

// Occupancy represents a persisted slot occupancy, binding a slot ID
// to the plate of its parked vehicle.
type Occupancy struct {
	SlotID int
	Plate  string
}
