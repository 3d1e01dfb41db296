package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/db/memory"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func inTx(t *testing.T, p *memory.Pool, f repo.TxHandler) error {
	t.Helper()
	ctx := context.Background()
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, f)
	})
}

func find(t *testing.T, p *memory.Pool, plate string) *model.Vehicle {
	t.Helper()
	var v *model.Vehicle
	ctx := context.Background()
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		v, err = memory.NewVehicles().Conn(c).FindByPlate(ctx, plate)
		return err
	})
	require.NoError(t, err)
	return v
}

func TestTxCommitAndRollback(t *testing.T) {
	p := memory.NewPool()
	vehicles, slots := memory.NewVehicles(), memory.NewSlots()

	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		v := model.NewVehicle("AAA111", model.SizeSmall, t0)
		if err := vehicles.Tx(tx).Upsert(ctx, v); err != nil {
			return err
		}
		return slots.Tx(tx).UpsertOccupancy(ctx, model.Occupancy{
			SlotID: 2, Plate: "AAA111",
		})
	})
	require.NoError(t, err)
	v := find(t, p, "AAA111")
	require.NotNil(t, v)
	assert.Equal(t, model.SizeSmall, v.Size)

	failure := errors.New("abort")
	err = inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		if err := vehicles.Tx(tx).Delete(ctx, "AAA111"); err != nil {
			return err
		}
		if err := slots.Tx(tx).DeleteOccupancy(ctx, 2); err != nil {
			return err
		}
		seen, err := vehicles.Tx(tx).FindByPlate(ctx, "AAA111")
		require.NoError(t, err)
		assert.Nil(t, seen, "a tx observes its own modifications")
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NotNil(t, find(t, p, "AAA111"), "rolled back deletion")

	var occupied []model.Occupancy
	err = p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) (err error) {
		occupied, err = slots.Conn(c).FindOccupied(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Occupancy{{SlotID: 2, Plate: "AAA111"}}, occupied)
}

func TestTxPanicIsRolledBack(t *testing.T) {
	p := memory.NewPool()
	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		v := model.NewVehicle("PANIC1", model.SizeLarge, t0)
		_ = memory.NewVehicles().Tx(tx).Upsert(ctx, v)
		panic("boom")
	})
	assert.ErrorContains(t, err, "panicked: boom")
	assert.Nil(t, find(t, p, "PANIC1"))
}

func TestRecordsAreCopied(t *testing.T) {
	p := memory.NewPool()
	v := model.NewVehicle("COPY1", model.SizeMedium, t0)
	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return memory.NewVehicles().Conn(c).Upsert(ctx, v)
	})
	require.NoError(t, err)
	v.HourPaid = 10
	found := find(t, p, "COPY1")
	assert.Equal(t, 0.0, found.HourPaid)
	found.HourPaid = 20
	assert.Equal(t, 0.0, find(t, p, "COPY1").HourPaid)
}

func TestUpsertOccupancyRejectsSecondSlot(t *testing.T) {
	p := memory.NewPool()
	slots := memory.NewSlots()
	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		sq := slots.Tx(tx)
		if err := sq.UpsertOccupancy(ctx, model.Occupancy{SlotID: 0, Plate: "X"}); err != nil {
			return err
		}
		return sq.UpsertOccupancy(ctx, model.Occupancy{SlotID: 1, Plate: "X"})
	})
	assert.ErrorIs(t, err, model.ErrVehicleAlreadyParked)
}

func TestDeleteExitedBefore(t *testing.T) {
	p := memory.NewPool()
	vehicles := memory.NewVehicles()
	err := inTx(t, p, func(ctx context.Context, tx repo.Tx) error {
		vq := vehicles.Tx(tx)
		for i, plate := range []string{"OLD", "NEW", "PARKED"} {
			v := model.NewVehicle(plate, model.SizeSmall, t0)
			if plate != "PARKED" {
				exit := t0.Add(time.Duration(i+1) * time.Hour)
				v.Exit = &exit
			}
			if err := vq.Upsert(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var n int64
	err = inTx(t, p, func(ctx context.Context, tx repo.Tx) (err error) {
		n, err = vehicles.Tx(tx).DeleteExitedBefore(ctx, t0.Add(90*time.Minute))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Nil(t, find(t, p, "OLD"))
	assert.NotNil(t, find(t, p, "NEW"))
	assert.NotNil(t, find(t, p, "PARKED"))
}

func TestCancelledContext(t *testing.T) {
	p := memory.NewPool()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Conn(ctx, func(context.Context, repo.Conn) error {
		t.Fatal("handler must not be called")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
