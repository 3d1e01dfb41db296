package postgres

import "database/sql"

// rows adapts *sql.Rows to the repo.Rows interface. The Close error is
// reported by the Err method.
type rows struct {
	*sql.Rows
}

func (r rows) Close() {
	_ = r.Rows.Close()
}
