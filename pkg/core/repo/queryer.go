package repo

import "context"

// Queryer is implemented by SQL-backed Conn and Tx objects, so raw
// statements may be executed by tests and the schema initializer.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is the result set of a Query. It must be closed after use.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}
