package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/parking-lot/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn represents a connection which is acquired from a Pool.
// Statements which run on a Conn (and not a Tx) are committed
// immediately.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx begins a READ-COMMITTED transaction on c and passes it to the f
// handler. The transaction is committed if f returns a nil error and
// is rolled back if f fails or panics.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			if err = tx.Rollback().Error; err != nil {
				err = fmt.Errorf("panicked: %v, rollback: %w", r, err)
				return
			}
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, err2)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		if err = tx.Commit().Error; err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	}()
	return f(ctx, &Tx{DB: tx})
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(c.DB.WithContext(ctx), sql, args...)
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(c.DB.WithContext(ctx), sql, args...)
}

func (c *Conn) IsConn() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}

func exec(gdb *gorm.DB, sql string, args ...any) (int64, error) {
	tt := gdb.Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

func query(gdb *gorm.DB, sql string, args ...any) (repo.Rows, error) {
	rs, err := gdb.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rows{rs}, nil
}
