// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lotuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/parking-lot/pkg/core/billing"
	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

// EntryPoints returns the number of entry gates of the lot.
func (lot *UseCase) EntryPoints() int {
	return lot.entries
}

// Calculator returns the fee calculator of the lot.
func (lot *UseCase) Calculator() *billing.Calculator {
	return lot.fees
}

// Slots returns a snapshot of the slots table, ordered by slot IDs.
// Modifying the returned slots does not affect the lot.
func (lot *UseCase) Slots() []model.Slot {
	lot.mutex.Lock()
	defer lot.mutex.Unlock()

	slots := make([]model.Slot, len(lot.slots))
	for i, s := range lot.slots {
		slots[i] = s.Clone()
	}
	return slots
}

// SlotOf returns a copy of the slot which is occupied by the plate
// vehicle. The returned boolean is false if plate is not parked.
func (lot *UseCase) SlotOf(plate string) (model.Slot, bool) {
	lot.mutex.Lock()
	defer lot.mutex.Unlock()

	idx, ok := lot.byPlate[plate]
	if !ok {
		return model.Slot{}, false
	}
	return lot.slots[idx].Clone(), true
}

// Vehicle returns the persisted record of the plate vehicle, whether
// it is parked or has exited within the retention period.
// An error wrapping model.ErrVehicleNotParked is returned if there is
// no such record.
func (lot *UseCase) Vehicle(
	ctx context.Context, plate string,
) (v *model.Vehicle, err error) {
	err = lot.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		v, err = lot.vehiclesrp.Conn(c).FindByPlate(ctx, plate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("finding %q vehicle: %w", plate, err)
	}
	if v == nil {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: no record for %s", model.ErrVehicleNotParked, plate,
		))
	}
	return v, nil
}

// Quote returns the fee which would be charged if the parked plate
// vehicle was unparked at the given time. Nothing is modified.
func (lot *UseCase) Quote(
	ctx context.Context, plate string, at time.Time,
) (float64, error) {
	slot, ok := lot.SlotOf(plate)
	if !ok {
		return 0, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrVehicleNotParked, plate,
		))
	}
	v, err := lot.Vehicle(ctx, plate)
	if err != nil {
		return 0, err
	}
	if !v.IsParked() || at.Before(v.Entry) {
		return 0, cerr.BadRequest(fmt.Errorf(
			"%w: quote time %s is before the entry",
			model.ErrInvalidTimestamp, at.Format(time.RFC3339),
		))
	}
	fee, err := lot.fees.Quote(v, slot.Size, at)
	if err != nil {
		return 0, classify(err)
	}
	return fee, nil
}

// Purge removes the records of vehicles which have exited before the
// given time. Records of the parked vehicles are kept regardless of
// their entry times. Number of removed records is returned.
func (lot *UseCase) Purge(
	ctx context.Context, before time.Time,
) (n int64, err error) {
	lot.mutex.Lock()
	defer lot.mutex.Unlock()

	err = lot.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			n, err = lot.vehiclesrp.Tx(tx).DeleteExitedBefore(ctx, before)
			return err
		})
	})
	if err != nil {
		return 0, fmt.Errorf("purging vehicle records: %w", err)
	}
	log.Info(
		ctx, "purged vehicle records",
		slog.Int64("removed", n), log.At(before),
	)
	return n, nil
}
