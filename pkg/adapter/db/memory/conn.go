package memory

import (
	"context"
	"fmt"

	"github.com/momeni/parking-lot/pkg/core/repo"
)

// Conn represents a connection to the in-memory store. Queries which
// run on a Conn (and not a Tx) observe the last committed state and
// their modifications are committed immediately.
//
// A Conn must not be used for modifications while a Tx is running in
// the same go routine because transactions are serialized.
type Conn struct {
	pool *Pool
}

type TxHandler = repo.TxHandler

// Tx begins a transaction, passes it to the f handler, and commits it
// if f returns a nil error. Otherwise, the transaction is discarded
// and the committed state remains unchanged.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	c.pool.txMutex.Lock()
	defer c.pool.txMutex.Unlock()

	tt := &Tx{st: c.pool.snapshot()}
	defer func() {
		tt.done = true
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
		}
	}()
	if err = f(ctx, tt); err != nil {
		return fmt.Errorf("handler: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	c.pool.publish(tt.st)
	return nil
}

func (c *Conn) IsConn() {
}

func (c *Conn) view(f func(st *state) error) error {
	c.pool.mutex.RLock()
	defer c.pool.mutex.RUnlock()
	return f(c.pool.st)
}

func (c *Conn) update(f func(st *state) error) error {
	c.pool.txMutex.Lock()
	defer c.pool.txMutex.Unlock()

	st := c.pool.snapshot()
	if err := f(st); err != nil {
		return err
	}
	c.pool.publish(st)
	return nil
}
