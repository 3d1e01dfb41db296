// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lotuc contains the parking lot UseCase which orchestrates
// the park and unpark transactions of an automated parking lot.
// Currently, these use cases are supported:
//  1. Parking a vehicle in the nearest suitable slot of its gate,
//  2. Unparking a vehicle and charging its parking fee,
//  3. Querying the slots, a vehicle record, or a fee quote,
//  4. Purging the expired vehicle records.
//
// The UseCase keeps the slots table in memory and persists every
// change using the vehicles and slots repositories before publishing
// it, so a failed transaction leaves the in-memory and persisted states
// unchanged.
package lotuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/momeni/parking-lot/pkg/core/alloc"
	"github.com/momeni/parking-lot/pkg/core/billing"
	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

// UseCase represents a parking lot use case. It holds a connection
// pool, the vehicles and slots repository instances (to be guided
// with the pool), the fee calculator, and the slots table.
type UseCase struct {
	pool       repo.Pool
	vehiclesrp repo.Vehicles
	slotsrp    repo.Slots

	fees       *billing.Calculator
	recorder   Recorder
	minEntries int

	// mutex serializes all transactions, so finding a slot, reading
	// the vehicle record, persisting them, and publishing the changes
	// in slots and byPlate may not interleave.
	mutex   sync.Mutex
	entries int
	slots   []model.Slot
	byPlate map[string]int // plate to the index of its slot
}

// New instantiates a parking lot use case with the given layout and
// restores the occupied slots from the slots repository.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
//
// An invalid layout causes an error wrapping the
// model.ErrInvalidConfiguration to be returned.
func New(
	ctx context.Context,
	p repo.Pool,
	v repo.Vehicles,
	s repo.Slots,
	layout model.Layout,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, vehiclesrp: v, slotsrp: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.minEntries == 0 {
		uc.minEntries = 3
	}
	if uc.recorder == nil {
		uc.recorder = nopRecorder{}
	}
	if uc.fees == nil {
		fees, err := billing.New()
		if err != nil {
			return nil, fmt.Errorf("creating fee calculator: %w", err)
		}
		uc.fees = fees
	}
	if err := layout.Validate(uc.minEntries); err != nil {
		return nil, err
	}
	uc.entries = len(layout.Entries)
	uc.slots = make([]model.Slot, len(layout.Sizes))
	for i, size := range layout.Sizes {
		d := make([]int, uc.entries)
		copy(d, layout.Distances[i])
		uc.slots[i] = model.Slot{ID: i, Size: size, Distances: d}
	}
	uc.byPlate = make(map[string]int)
	if err := uc.restore(ctx); err != nil {
		return nil, fmt.Errorf("restoring occupied slots: %w", err)
	}
	return uc, nil
}

func (lot *UseCase) restore(ctx context.Context) error {
	var occupied []model.Occupancy
	err := lot.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (
		err error,
	) {
		occupied, err = lot.slotsrp.Conn(c).FindOccupied(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, o := range occupied {
		switch _, dup := lot.byPlate[o.Plate]; {
		case o.SlotID < 0 || o.SlotID >= len(lot.slots):
			return fmt.Errorf(
				"%w: occupied slot %d is not configured",
				model.ErrInvalidConfiguration, o.SlotID,
			)
		case o.Plate == "" || dup:
			return fmt.Errorf(
				"%w: slot %d has an invalid or repeated plate %q",
				model.ErrInvalidConfiguration, o.SlotID, o.Plate,
			)
		case !lot.slots[o.SlotID].IsEmpty():
			return fmt.Errorf(
				"%w: slot %d is occupied twice",
				model.ErrInvalidConfiguration, o.SlotID,
			)
		}
		lot.slots[o.SlotID].Occupant = o.Plate
		lot.byPlate[o.Plate] = o.SlotID
	}
	log.Info(
		ctx, "restored occupied slots",
		slog.Int("occupied", len(occupied)),
		slog.Int("slots", len(lot.slots)),
	)
	lot.recorder.Occupancy(len(lot.byPlate), len(lot.slots))
	return nil
}

// Park use case parks the vehicle with the given plate and size which
// enters from the entry gate at the now time. The nearest suitable
// slot is assigned to the vehicle and a copy of it is returned.
//
// If the plate has parked before, its billing lineage is continued
// when it returns within the continuity window and is reset otherwise.
// Errors wrap the model.ErrInvalidEntryPoint, ErrNoAvailableSpot,
// ErrVehicleAlreadyParked, or ErrInvalidTimestamp errors (in addition
// to the repositories errors) and nothing is changed in that case.
func (lot *UseCase) Park(
	ctx context.Context,
	plate string,
	size model.Size,
	entry model.EntryPoint,
	now time.Time,
) (slot model.Slot, err error) {
	defer func() {
		if err != nil {
			lot.reject(ctx, "park", plate, err)
		}
	}()
	if plate == "" {
		return model.Slot{}, cerr.BadRequest(errors.New("empty plate"))
	}
	if err = size.Validate(); err != nil {
		return model.Slot{}, cerr.BadRequest(err)
	}
	lot.mutex.Lock()
	defer lot.mutex.Unlock()

	idx, err := alloc.FindSlot(lot.slots, size, entry, lot.entries)
	if err != nil {
		return model.Slot{}, classify(err)
	}
	if _, ok := lot.byPlate[plate]; ok {
		return model.Slot{}, cerr.Conflict(fmt.Errorf(
			"%w: %s", model.ErrVehicleAlreadyParked, plate,
		))
	}
	target := lot.slots[idx].ID
	var v *model.Vehicle
	var kept bool
	err = lot.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			vq := lot.vehiclesrp.Tx(tx)
			prev, err := vq.FindByPlate(ctx, plate)
			switch {
			case err != nil:
				return fmt.Errorf("finding %q vehicle: %w", plate, err)
			case prev == nil:
				v = model.NewVehicle(plate, size, now)
			case prev.IsParked():
				return fmt.Errorf(
					"%w: %s", model.ErrVehicleAlreadyParked, plate,
				)
			default:
				v = prev
				if kept, err = lot.fees.Continue(v, now); err != nil {
					return err
				}
			}
			v.Size, v.Entry, v.Exit = size, now, nil
			if err := vq.Upsert(ctx, v); err != nil {
				return fmt.Errorf("upserting %q vehicle: %w", plate, err)
			}
			err = lot.slotsrp.Tx(tx).UpsertOccupancy(ctx, model.Occupancy{
				SlotID: target, Plate: plate,
			})
			if err != nil {
				return fmt.Errorf("occupying slot %d: %w", target, err)
			}
			return nil
		})
	})
	if err != nil {
		return model.Slot{}, classify(err)
	}
	lot.slots[idx].Occupant = plate
	lot.byPlate[plate] = idx
	slot = lot.slots[idx].Clone()

	log.Info(
		ctx, "vehicle parked",
		log.Plate(plate), log.Slot(slot.ID), log.Entry(entry),
		log.Size("slot_size", slot.Size), log.At(now),
		slog.Bool("continued", kept), log.Valuer("vehicle", v),
	)
	lot.recorder.Parked(slot, size)
	lot.recorder.Occupancy(len(lot.byPlate), len(lot.slots))
	return slot, nil
}

// Unpark use case releases the slot of the vehicle with the given
// plate at the now time and returns its parking fee. The billing state
// of the vehicle record is updated, so it may be continued if the
// vehicle returns within the continuity window.
//
// Errors wrap the model.ErrVehicleNotParked, ErrInvalidTimestamp, or
// ErrFeeNotComputable errors (in addition to the repositories errors)
// and nothing is changed in that case.
func (lot *UseCase) Unpark(
	ctx context.Context, plate string, now time.Time,
) (fee float64, err error) {
	defer func() {
		if err != nil {
			lot.reject(ctx, "unpark", plate, err)
		}
	}()
	lot.mutex.Lock()
	defer lot.mutex.Unlock()

	idx, ok := lot.byPlate[plate]
	if !ok {
		return 0, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrVehicleNotParked, plate,
		))
	}
	slot := lot.slots[idx]
	var v *model.Vehicle
	err = lot.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			vq := lot.vehiclesrp.Tx(tx)
			var err error
			v, err = vq.FindByPlate(ctx, plate)
			switch {
			case err != nil:
				return fmt.Errorf("finding %q vehicle: %w", plate, err)
			case v == nil || !v.IsParked():
				return fmt.Errorf(
					"%w: no active record for %s",
					model.ErrVehicleNotParked, plate,
				)
			case now.Before(v.Entry):
				return fmt.Errorf(
					"%w: exit %s is before the entry %s",
					model.ErrInvalidTimestamp,
					now.Format(time.RFC3339),
					v.Entry.Format(time.RFC3339),
				)
			}
			v.Exit = &now
			if fee, err = lot.fees.ComputeFee(v, slot.Size); err != nil {
				return err
			}
			if err := vq.Upsert(ctx, v); err != nil {
				return fmt.Errorf("upserting %q vehicle: %w", plate, err)
			}
			err = lot.slotsrp.Tx(tx).DeleteOccupancy(ctx, slot.ID)
			if err != nil {
				return fmt.Errorf("freeing slot %d: %w", slot.ID, err)
			}
			return nil
		})
	})
	if err != nil {
		return 0, classify(err)
	}
	lot.slots[idx].Occupant = ""
	delete(lot.byPlate, plate)

	log.Info(
		ctx, "vehicle unparked",
		log.Plate(plate), log.Slot(slot.ID), log.Fee(fee), log.At(now),
		log.Valuer("vehicle", v),
	)
	lot.recorder.Unparked(slot, fee)
	lot.recorder.Occupancy(len(lot.byPlate), len(lot.slots))
	return fee, nil
}

func (lot *UseCase) reject(ctx context.Context, op, plate string, err error) {
	log.Warn(
		ctx, op+" rejected",
		log.Plate(plate), log.Err("err", err),
		slog.Int("status", cerr.StatusCode(err)),
	)
	lot.recorder.Rejected(op, err)
}

// classify wraps err in a cerr.Error based on the model error which is
// wrapped by it, so the adapters layer can report it properly.
// Errors which are classified already and unknown errors are returned
// unchanged.
func classify(err error) error {
	var ce *cerr.Error
	switch {
	case errors.As(err, &ce):
		return err
	case errors.Is(err, model.ErrInvalidEntryPoint),
		errors.Is(err, model.ErrInvalidTimestamp):
		return cerr.BadRequest(err)
	case errors.Is(err, model.ErrNoAvailableSpot),
		errors.Is(err, model.ErrVehicleAlreadyParked):
		return cerr.Conflict(err)
	case errors.Is(err, model.ErrVehicleNotParked):
		return cerr.NotFound(err)
	case errors.Is(err, model.ErrFeeNotComputable):
		return cerr.UnprocessableEntity(err)
	default:
		return err
	}
}
