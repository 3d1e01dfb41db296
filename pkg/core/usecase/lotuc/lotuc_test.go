// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lotuc_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/db/memory"
	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	A model.EntryPoint = iota
	B
	C
)

var t0 = time.Date(2022, 9, 25, 15, 30, 0, 0, time.UTC)

func testLayout() model.Layout {
	S, M, L := model.SizeSmall, model.SizeMedium, model.SizeLarge
	return model.Layout{
		Sizes: []model.Size{S, L, M, S, M, L},
		Distances: [][]int{
			{1, 2, 3}, {1, 3, 2}, {3, 2, 1},
			{2, 1, 3}, {3, 1, 2}, {2, 3, 1},
		},
		Entries: []model.EntryPoint{A, B, C},
	}
}

type store struct {
	pool     *memory.Pool
	vehicles repo.Vehicles
	slots    repo.Slots
}

func newStore() *store {
	return &store{
		pool:     memory.NewPool(),
		vehicles: memory.NewVehicles(),
		slots:    memory.NewSlots(),
	}
}

func (s *store) lot(t *testing.T, opts ...lotuc.Option) *lotuc.UseCase {
	t.Helper()
	lot, err := lotuc.New(
		context.Background(), s.pool, s.vehicles, s.slots, testLayout(),
		opts...,
	)
	require.NoError(t, err, "cannot create lot")
	return lot
}

func park(t *testing.T, lot *lotuc.UseCase, plate string, size model.Size, e model.EntryPoint, at time.Time) model.Slot {
	t.Helper()
	slot, err := lot.Park(context.Background(), plate, size, e, at)
	require.NoError(t, err, "park %s", plate)
	return slot
}

func unpark(t *testing.T, lot *lotuc.UseCase, plate string, at time.Time) float64 {
	t.Helper()
	fee, err := lot.Unpark(context.Background(), plate, at)
	require.NoError(t, err, "unpark %s", plate)
	return fee
}

func occupants(lot *lotuc.UseCase) []string {
	var plates []string
	for _, s := range lot.Slots() {
		plates = append(plates, s.Occupant)
	}
	return plates
}

func TestParkAssignsNearestSlots(t *testing.T) {
	lot := newStore().lot(t)
	for _, tc := range []struct {
		plate string
		size  model.Size
		entry model.EntryPoint
		slot  int
		err   error
	}{
		{"S-A", model.SizeSmall, A, 0, nil},
		{"M-B", model.SizeMedium, B, 4, nil},
		{"L-C", model.SizeLarge, C, 5, nil},
		{"L-A", model.SizeLarge, A, 1, nil},
		{"L-X", model.SizeLarge, B, 0, model.ErrNoAvailableSpot},
		{"S-B", model.SizeSmall, B, 3, nil},
		{"M-A", model.SizeMedium, A, 2, nil},
	} {
		if tc.err != nil {
			_, err := lot.Park(context.Background(), tc.plate, tc.size, tc.entry, t0)
			assert.ErrorIs(t, err, tc.err, tc.plate)
			_, ok := lot.SlotOf(tc.plate)
			assert.False(t, ok, "%s must not be parked", tc.plate)
			continue
		}
		slot := park(t, lot, tc.plate, tc.size, tc.entry, t0)
		assert.Equal(t, tc.slot, slot.ID, tc.plate)
		assert.Equal(t, tc.plate, slot.Occupant)
		got, ok := lot.SlotOf(tc.plate)
		require.True(t, ok)
		assert.Equal(t, slot, got)
	}
	_, err := lot.Park(context.Background(), "S-C", model.SizeSmall, C, t0)
	assert.ErrorIs(t, err, model.ErrNoAvailableSpot)
	assert.Equal(t, http.StatusConflict, cerr.StatusCode(err))
}

func TestParkRejections(t *testing.T) {
	lot := newStore().lot(t)
	park(t, lot, "DUP", model.SizeSmall, A, t0)
	before := occupants(lot)
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		plate  string
		size   model.Size
		entry  model.EntryPoint
		target error
		status int
	}{
		{"unknown entry", "E1", model.SizeSmall, 3, model.ErrInvalidEntryPoint, http.StatusBadRequest},
		{"negative entry", "E2", model.SizeSmall, -1, model.ErrInvalidEntryPoint, http.StatusBadRequest},
		{"already parked", "DUP", model.SizeMedium, B, model.ErrVehicleAlreadyParked, http.StatusConflict},
		{"invalid size", "E3", model.SizeInvalid, A, nil, http.StatusBadRequest},
		{"empty plate", "", model.SizeSmall, A, nil, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lot.Park(ctx, tc.plate, tc.size, tc.entry, t0)
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			assert.Equal(t, tc.status, cerr.StatusCode(err))
			assert.Equal(t, before, occupants(lot))
		})
	}
}

func TestUnpark(t *testing.T) {
	lot := newStore().lot(t)
	ctx := context.Background()
	park(t, lot, "U1", model.SizeSmall, A, t0)

	_, err := lot.Unpark(ctx, "U1", t0.Add(-time.Minute))
	assert.ErrorIs(t, err, model.ErrInvalidTimestamp)
	assert.Equal(t, http.StatusBadRequest, cerr.StatusCode(err))
	_, ok := lot.SlotOf("U1")
	assert.True(t, ok, "failed unpark keeps the slot")

	fee := unpark(t, lot, "U1", t0.Add(4*time.Hour))
	assert.Equal(t, 60.0, fee)
	_, ok = lot.SlotOf("U1")
	assert.False(t, ok)
	assert.True(t, lot.Slots()[0].IsEmpty())

	v, err := lot.Vehicle(ctx, "U1")
	require.NoError(t, err)
	assert.False(t, v.IsParked())
	assert.Equal(t, 4.0, v.HourPaid)

	_, err = lot.Unpark(ctx, "U1", t0.Add(5*time.Hour))
	assert.ErrorIs(t, err, model.ErrVehicleNotParked)
	assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err))
	_, err = lot.Unpark(ctx, "NEVER", t0)
	assert.ErrorIs(t, err, model.ErrVehicleNotParked)
}

func TestUnparkChargesSlotSize(t *testing.T) {
	lot := newStore().lot(t)
	park(t, lot, "S1", model.SizeSmall, C, t0)
	slot := park(t, lot, "S2", model.SizeSmall, C, t0)
	require.Equal(t, model.SizeLarge, slot.Size, "nearest medium slot is taken")
	fee := unpark(t, lot, "S2", t0.Add(4*time.Hour))
	assert.Equal(t, 140.0, fee)
}

func TestContinuityAcrossSessions(t *testing.T) {
	lot := newStore().lot(t)
	park(t, lot, "SML123", model.SizeSmall, A, t0)
	assert.Equal(t, 40.0, unpark(t, lot, "SML123", t0.Add(time.Hour)))

	park(t, lot, "SML123", model.SizeSmall, B, t0.Add(90*time.Minute))
	assert.Equal(t, 0.0, unpark(t, lot, "SML123", t0.Add(150*time.Minute)))

	v, err := lot.Vehicle(context.Background(), "SML123")
	require.NoError(t, err)
	assert.Equal(t, t0, v.FirstEntry)
	assert.InDelta(t, 0.5, v.RemainingPaidHours(), 1e-9)

	// more than an hour after the last exit starts a new lineage
	at := t0.Add(4 * time.Hour)
	park(t, lot, "SML123", model.SizeSmall, A, at)
	assert.Equal(t, 40.0, unpark(t, lot, "SML123", at.Add(time.Hour)))
	v, err = lot.Vehicle(context.Background(), "SML123")
	require.NoError(t, err)
	assert.Equal(t, at, v.FirstEntry)
}

func TestReparkBeforeLastExit(t *testing.T) {
	lot := newStore().lot(t)
	park(t, lot, "R1", model.SizeSmall, A, t0)
	unpark(t, lot, "R1", t0.Add(time.Hour))
	_, err := lot.Park(context.Background(), "R1", model.SizeSmall, A, t0)
	assert.ErrorIs(t, err, model.ErrInvalidTimestamp)
	assert.Equal(t, http.StatusBadRequest, cerr.StatusCode(err))
	_, ok := lot.SlotOf("R1")
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	s := newStore()
	lot := s.lot(t)
	park(t, lot, "P1", model.SizeSmall, A, t0)
	park(t, lot, "P2", model.SizeLarge, C, t0)

	restored := s.lot(t)
	assert.Equal(t, occupants(lot), occupants(restored))
	assert.Equal(t, 240.0, unpark(t, restored, "P2", t0.Add(5*time.Hour)))
}

func TestNew(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	layout := testLayout()
	layout.Distances[2] = []int{1, 2}
	_, err := lotuc.New(ctx, s.pool, s.vehicles, s.slots, layout)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	two := model.Layout{
		Sizes:     []model.Size{model.SizeSmall},
		Distances: [][]int{{1, 2}},
		Entries:   []model.EntryPoint{A, B},
	}
	_, err = lotuc.New(ctx, s.pool, s.vehicles, s.slots, two)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration, "3 entries by default")
	lot, err := lotuc.New(
		ctx, s.pool, s.vehicles, s.slots, two, lotuc.WithMinEntryPoints(2),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, lot.EntryPoints())

	_, err = lotuc.New(
		ctx, s.pool, s.vehicles, s.slots, testLayout(),
		lotuc.WithMinEntryPoints(3), lotuc.WithMinEntryPoints(3),
	)
	assert.Error(t, err)
}

type failingSlots struct {
	repo.Slots
	fail bool
}

func (fs *failingSlots) Tx(tx repo.Tx) repo.SlotsTxQueryer {
	return failingSlotsTx{SlotsTxQueryer: fs.Slots.Tx(tx), fail: fs.fail}
}

type failingSlotsTx struct {
	repo.SlotsTxQueryer
	fail bool
}

var errStore = errors.New("store is unavailable")

func (f failingSlotsTx) UpsertOccupancy(ctx context.Context, o model.Occupancy) error {
	if f.fail {
		return errStore
	}
	return f.SlotsTxQueryer.UpsertOccupancy(ctx, o)
}

func (f failingSlotsTx) DeleteOccupancy(ctx context.Context, slotID int) error {
	if f.fail {
		return errStore
	}
	return f.SlotsTxQueryer.DeleteOccupancy(ctx, slotID)
}

func TestStoreFailureChangesNothing(t *testing.T) {
	s := newStore()
	fs := &failingSlots{Slots: s.slots}
	s.slots = fs
	lot := s.lot(t)
	ctx := context.Background()
	park(t, lot, "KEEP", model.SizeMedium, B, t0)
	before := occupants(lot)

	fs.fail = true
	_, err := lot.Park(ctx, "NEW", model.SizeSmall, A, t0)
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, http.StatusInternalServerError, cerr.StatusCode(err))
	assert.Equal(t, before, occupants(lot))
	_, err = lot.Vehicle(ctx, "NEW")
	assert.ErrorIs(t, err, model.ErrVehicleNotParked, "vehicle upsert is rolled back")

	_, err = lot.Unpark(ctx, "KEEP", t0.Add(time.Hour))
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, before, occupants(lot))
	v, err := lot.Vehicle(ctx, "KEEP")
	require.NoError(t, err)
	assert.True(t, v.IsParked(), "exit is rolled back")
	assert.Equal(t, 0.0, v.HourPaid)

	fs.fail = false
	assert.Equal(t, 40.0, unpark(t, lot, "KEEP", t0.Add(time.Hour)))
}

func TestConcurrentParking(t *testing.T) {
	lot := newStore().lot(t)
	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = lot.Park(
				context.Background(), fmt.Sprintf("C%d", i),
				model.SizeSmall, model.EntryPoint(i%3), t0,
			)
		}(i)
	}
	wg.Wait()

	parked := 0
	for _, err := range errs {
		if err == nil {
			parked++
			continue
		}
		assert.ErrorIs(t, err, model.ErrNoAvailableSpot)
	}
	assert.Equal(t, 6, parked)
	seen := make(map[string]bool)
	for _, plate := range occupants(lot) {
		require.NotEmpty(t, plate)
		assert.False(t, seen[plate], "plate %s is parked twice", plate)
		seen[plate] = true
	}
}

func TestQuoteAndPurge(t *testing.T) {
	lot := newStore().lot(t)
	ctx := context.Background()
	park(t, lot, "Q1", model.SizeMedium, B, t0)
	fee, err := lot.Quote(ctx, "Q1", t0.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 100.0, fee)
	_, err = lot.Quote(ctx, "Q1", t0.Add(-time.Hour))
	assert.ErrorIs(t, err, model.ErrInvalidTimestamp)
	_, err = lot.Quote(ctx, "NONE", t0)
	assert.ErrorIs(t, err, model.ErrVehicleNotParked)

	park(t, lot, "GONE", model.SizeSmall, A, t0)
	unpark(t, lot, "GONE", t0.Add(time.Hour))
	n, err := lot.Purge(ctx, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = lot.Vehicle(ctx, "GONE")
	assert.ErrorIs(t, err, model.ErrVehicleNotParked)
	_, err = lot.Vehicle(ctx, "Q1")
	assert.NoError(t, err, "parked vehicles are kept")
}

type recorder struct {
	parked, unparked, rejected int
	fees                       float64
	occupied                   int
}

func (r *recorder) Parked(model.Slot, model.Size) { r.parked++ }
func (r *recorder) Unparked(_ model.Slot, fee float64) {
	r.unparked++
	r.fees += fee
}
func (r *recorder) Rejected(string, error) { r.rejected++ }
func (r *recorder) Occupancy(occupied, _ int) { r.occupied = occupied }

func TestRecorder(t *testing.T) {
	r := &recorder{}
	lot := newStore().lot(t, lotuc.WithRecorder(r))
	park(t, lot, "R1", model.SizeSmall, A, t0)
	park(t, lot, "R2", model.SizeSmall, A, t0)
	unpark(t, lot, "R1", t0.Add(4*time.Hour))
	_, err := lot.Unpark(context.Background(), "R1", t0)
	require.Error(t, err)
	assert.Equal(t, &recorder{
		parked: 2, unparked: 1, rejected: 1, fees: 60, occupied: 1,
	}, r)
}
