// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package alloc_test

import (
	"testing"

	"github.com/momeni/parking-lot/pkg/core/alloc"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlots(sizes []model.Size, distances [][]int) []model.Slot {
	slots := make([]model.Slot, len(sizes))
	for i := range sizes {
		slots[i] = model.Slot{ID: i, Size: sizes[i], Distances: distances[i]}
	}
	return slots
}

var (
	small, medium, large = model.SizeSmall, model.SizeMedium, model.SizeLarge

	sizes     = []model.Size{small, large, medium, small, medium, large}
	distances = [][]int{
		{1, 2, 3}, {1, 3, 2}, {3, 2, 1}, {2, 1, 3}, {3, 1, 2}, {2, 3, 1},
	}
)

func TestFindSlot(t *testing.T) {
	for _, tc := range []struct {
		name     string
		occupied []int
		size     model.Size
		entry    model.EntryPoint
		expected int
	}{
		{"small from A prefers tightest fit", nil, small, 0, 0},
		{"medium from B", nil, medium, 1, 4},
		{"large from C", nil, large, 2, 5},
		{"large from C second choice", []int{5}, large, 2, 1},
		{"small from B", nil, small, 1, 3},
		{"small from A falls back to larger", []int{0}, small, 0, 1},
		{"medium from C", nil, medium, 2, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			slots := newSlots(sizes, distances)
			for _, i := range tc.occupied {
				slots[i].Occupant = "X"
			}
			idx, err := alloc.FindSlot(slots, tc.size, tc.entry, 3)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, slots[idx].ID)
			assert.True(t, slots[idx].IsEmpty())
			assert.True(t, slots[idx].Fits(tc.size))
		})
	}
}

func TestFindSlotTieBreaking(t *testing.T) {
	slots := newSlots(
		[]model.Size{large, medium, medium, small},
		[][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {2, 2, 2}},
	)
	idx, err := alloc.FindSlot(slots, small, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "same distance: smaller size then smaller ID")

	for i := 0; i < 10; i++ {
		again, err := alloc.FindSlot(slots, small, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, idx, again, "result must be deterministic")
	}
}

func TestFindSlotErrors(t *testing.T) {
	slots := newSlots(sizes, distances)
	_, err := alloc.FindSlot(slots, small, 3, 3)
	assert.ErrorIs(t, err, model.ErrInvalidEntryPoint)
	_, err = alloc.FindSlot(slots, small, -1, 3)
	assert.ErrorIs(t, err, model.ErrInvalidEntryPoint)

	slots[1].Occupant = "L1"
	slots[5].Occupant = "L2"
	_, err = alloc.FindSlot(slots, large, 0, 3)
	assert.ErrorIs(t, err, model.ErrNoAvailableSpot)

	idx, err := alloc.FindSlot(slots, medium, 0, 3)
	require.NoError(t, err, "medium slots are still free")
	assert.Equal(t, medium, slots[idx].Size)
}

func TestFindSlotHasNoSideEffects(t *testing.T) {
	slots := newSlots(sizes, distances)
	before := make([]model.Slot, len(slots))
	copy(before, slots)
	_, err := alloc.FindSlot(slots, small, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, before, slots)
}
