package vehiclesrp

import (
	"context"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (vehicles *Repo) Conn(c repo.Conn) repo.VehiclesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	return FindByPlate(ctx, cq.Conn, plate)
}

func (cq connQueryer) Upsert(ctx context.Context, v *model.Vehicle) error {
	return Upsert(ctx, cq.Conn, v)
}

func (cq connQueryer) Delete(ctx context.Context, plate string) error {
	return Delete(ctx, cq.Conn, plate)
}

type txQueryer struct {
	*postgres.Tx
}

func (vehicles *Repo) Tx(tx repo.Tx) repo.VehiclesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	return FindByPlate(ctx, tq.Tx, plate)
}

func (tq txQueryer) Upsert(ctx context.Context, v *model.Vehicle) error {
	return Upsert(ctx, tq.Tx, v)
}

func (tq txQueryer) Delete(ctx context.Context, plate string) error {
	return Delete(ctx, tq.Tx, plate)
}

func (tq txQueryer) DeleteExitedBefore(ctx context.Context, before time.Time) (int64, error) {
	return DeleteExitedBefore(ctx, tq.Tx, before)
}
