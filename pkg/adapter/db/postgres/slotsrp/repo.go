package slotsrp

import (
	"context"

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

func (slots *Repo) Conn(c repo.Conn) repo.SlotsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindOccupied(ctx context.Context) ([]model.Occupancy, error) {
	return FindOccupied(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (slots *Repo) Tx(tx repo.Tx) repo.SlotsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindOccupied(ctx context.Context) ([]model.Occupancy, error) {
	return FindOccupied(ctx, tq.Tx)
}

func (tq txQueryer) UpsertOccupancy(ctx context.Context, o model.Occupancy) error {
	return UpsertOccupancy(ctx, tq.Tx, o)
}

func (tq txQueryer) DeleteOccupancy(ctx context.Context, slotID int) error {
	return DeleteOccupancy(ctx, tq.Tx, slotID)
}
