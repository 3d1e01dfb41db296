package repo

import (
	"context"
	"time"

	"github.com/momeni/parking-lot/pkg/core/model"
)

type VehiclesConnQueryer interface {
	VehiclesQueryer
}

type VehiclesTxQueryer interface {
	VehiclesQueryer

	// DeleteExitedBefore removes the records of vehicles which are
	// not parked and their last exit is before the given time.
	// Number of removed records is returned.
	DeleteExitedBefore(ctx context.Context, before time.Time) (int64, error)
}

// VehiclesQueryer manages the vehicle records by their plates.
// FindByPlate returns a nil vehicle and a nil error if no record
// exists for the given plate.
type VehiclesQueryer interface {
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	Upsert(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, plate string) error
}

type Vehicles interface {
	Conn(Conn) VehiclesConnQueryer
	Tx(Tx) VehiclesTxQueryer
}
