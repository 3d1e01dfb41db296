package repo

import "context"

// TxHandler is a function which runs a series of operations in a Tx.
// Returning a non-nil error causes the Tx to be rolled back.
type TxHandler func(context.Context, Tx) error

// Conn represents a connection which is acquired from a Pool.
// It may be passed to repositories for non-transactional queries or
// used to begin a transaction with the Tx method.
type Conn interface {
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
