package memory

import (
	"context"
	"errors"
	"time"

	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

func FindByPlate[Q Queryer](ctx context.Context, q Q, plate string) (v *model.Vehicle, err error) {
	err = q.view(func(st *state) error {
		if found, ok := st.vehicles[plate]; ok {
			v = found.Clone()
		}
		return nil
	})
	return v, err
}

func Upsert[Q Queryer](ctx context.Context, q Q, v *model.Vehicle) error {
	if v == nil || v.LicensePlate == "" {
		return errors.New("vehicle must have a plate")
	}
	return q.update(func(st *state) error {
		st.vehicles[v.LicensePlate] = v.Clone()
		return nil
	})
}

func Delete[Q Queryer](ctx context.Context, q Q, plate string) error {
	return q.update(func(st *state) error {
		delete(st.vehicles, plate)
		return nil
	})
}

func DeleteExitedBefore[Q Queryer](ctx context.Context, q Q, before time.Time) (n int64, err error) {
	err = q.update(func(st *state) error {
		for plate, v := range st.vehicles {
			if v.Exit != nil && v.Exit.Before(before) {
				delete(st.vehicles, plate)
				n++
			}
		}
		return nil
	})
	return n, err
}

// Vehicles is the in-memory realization of the repo.Vehicles.
type Vehicles struct {
}

func NewVehicles() *Vehicles {
	return &Vehicles{}
}

type vehiclesConnQueryer struct {
	*Conn
}

func (vehicles *Vehicles) Conn(c repo.Conn) repo.VehiclesConnQueryer {
	cc := c.(*Conn)
	return vehiclesConnQueryer{Conn: cc}
}

func (cq vehiclesConnQueryer) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	return FindByPlate(ctx, cq.Conn, plate)
}

func (cq vehiclesConnQueryer) Upsert(ctx context.Context, v *model.Vehicle) error {
	return Upsert(ctx, cq.Conn, v)
}

func (cq vehiclesConnQueryer) Delete(ctx context.Context, plate string) error {
	return Delete(ctx, cq.Conn, plate)
}

type vehiclesTxQueryer struct {
	*Tx
}

func (vehicles *Vehicles) Tx(tx repo.Tx) repo.VehiclesTxQueryer {
	tt := tx.(*Tx)
	return vehiclesTxQueryer{Tx: tt}
}

func (tq vehiclesTxQueryer) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	return FindByPlate(ctx, tq.Tx, plate)
}

func (tq vehiclesTxQueryer) Upsert(ctx context.Context, v *model.Vehicle) error {
	return Upsert(ctx, tq.Tx, v)
}

func (tq vehiclesTxQueryer) Delete(ctx context.Context, plate string) error {
	return Delete(ctx, tq.Tx, plate)
}

func (tq vehiclesTxQueryer) DeleteExitedBefore(ctx context.Context, before time.Time) (int64, error) {
	return DeleteExitedBefore(ctx, tq.Tx, before)
}
