package repo

import (
	"context"

	"github.com/momeni/parking-lot/pkg/core/model"
)

type SlotsConnQueryer interface {
	SlotsQueryer
}

type SlotsTxQueryer interface {
	SlotsQueryer

	// UpsertOccupancy records that plate occupies the slotID slot.
	UpsertOccupancy(ctx context.Context, o model.Occupancy) error

	// DeleteOccupancy records that slotID slot is free. Deleting the
	// occupancy of a free slot is not an error.
	DeleteOccupancy(ctx context.Context, slotID int) error
}

// SlotsQueryer reads the persisted slot occupancies. Slot sizes and
// distances are not persisted because they are fixed by the lot
// configuration.
type SlotsQueryer interface {
	FindOccupied(ctx context.Context) ([]model.Occupancy, error)
}

type Slots interface {
	Conn(Conn) SlotsConnQueryer
	Tx(Tx) SlotsTxQueryer
}
