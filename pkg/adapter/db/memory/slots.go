package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

// FindOccupied returns the occupied slots, ordered by their IDs.
func FindOccupied[Q Queryer](ctx context.Context, q Q) (occupied []model.Occupancy, err error) {
	err = q.view(func(st *state) error {
		occupied = make([]model.Occupancy, 0, len(st.slots))
		for id, plate := range st.slots {
			occupied = append(occupied, model.Occupancy{
				SlotID: id, Plate: plate,
			})
		}
		return nil
	})
	slices.SortFunc(occupied, func(a, b model.Occupancy) int {
		return a.SlotID - b.SlotID
	})
	return occupied, err
}

// UpsertOccupancy records the o occupancy. A plate may not occupy two
// slots, so the model.ErrVehicleAlreadyParked is returned if o.Plate
// occupies another slot already.
func UpsertOccupancy[Q Queryer](ctx context.Context, q Q, o model.Occupancy) error {
	return q.update(func(st *state) error {
		for id, plate := range st.slots {
			if plate == o.Plate && id != o.SlotID {
				return fmt.Errorf(
					"%w: %s occupies slot %d",
					model.ErrVehicleAlreadyParked, plate, id,
				)
			}
		}
		st.slots[o.SlotID] = o.Plate
		return nil
	})
}

func DeleteOccupancy[Q Queryer](ctx context.Context, q Q, slotID int) error {
	return q.update(func(st *state) error {
		delete(st.slots, slotID)
		return nil
	})
}

// Slots is the in-memory realization of the repo.Slots.
type Slots struct {
}

func NewSlots() *Slots {
	return &Slots{}
}

type slotsConnQueryer struct {
	*Conn
}

func (slots *Slots) Conn(c repo.Conn) repo.SlotsConnQueryer {
	cc := c.(*Conn)
	return slotsConnQueryer{Conn: cc}
}

func (cq slotsConnQueryer) FindOccupied(ctx context.Context) ([]model.Occupancy, error) {
	return FindOccupied(ctx, cq.Conn)
}

type slotsTxQueryer struct {
	*Tx
}

func (slots *Slots) Tx(tx repo.Tx) repo.SlotsTxQueryer {
	tt := tx.(*Tx)
	return slotsTxQueryer{Tx: tt}
}

func (tq slotsTxQueryer) FindOccupied(ctx context.Context) ([]model.Occupancy, error) {
	return FindOccupied(ctx, tq.Tx)
}

func (tq slotsTxQueryer) UpsertOccupancy(ctx context.Context, o model.Occupancy) error {
	return UpsertOccupancy(ctx, tq.Tx, o)
}

func (tq slotsTxQueryer) DeleteOccupancy(ctx context.Context, slotID int) error {
	return DeleteOccupancy(ctx, tq.Tx, slotID)
}
