package schemarp

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

func (sch *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Version(ctx context.Context) (model.SemVer, error) {
	return LoadVersion(ctx, cq.Conn)
}

func (cq connQueryer) CheckVersion(ctx context.Context) error {
	return CheckVersion(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (sch *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Version(ctx context.Context) (model.SemVer, error) {
	return LoadVersion(ctx, tq.Tx)
}

func (tq txQueryer) CheckVersion(ctx context.Context) error {
	return CheckVersion(ctx, tq.Tx)
}

func (tq txQueryer) Init(ctx context.Context) error {
	return Init(ctx, tq.Tx)
}
