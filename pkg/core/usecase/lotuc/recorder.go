// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lotuc

import "github.com/momeni/parking-lot/pkg/core/model"

// Recorder is notified about the outcome of the lot transactions.
// Methods may be called while the lot is locked, so they must return
// quickly and must not call the UseCase methods.
// The adapters layer may implement it in order to export metrics.
type Recorder interface {
	// Parked is called after a vehicle with the given size is parked
	// in the slot.
	Parked(slot model.Slot, size model.Size)

	// Unparked is called after the vehicle of slot is unparked and
	// charged for fee.
	Unparked(slot model.Slot, fee float64)

	// Rejected is called after the op operation fails with err.
	Rejected(op string, err error)

	// Occupancy is called when the number of occupied slots changes.
	Occupancy(occupied, total int)
}

type nopRecorder struct{}

func (nopRecorder) Parked(model.Slot, model.Size) {}
func (nopRecorder) Unparked(model.Slot, float64) {}
func (nopRecorder) Rejected(string, error) {}
func (nopRecorder) Occupancy(int, int) {}
