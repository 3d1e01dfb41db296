// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/parking-lot/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx represents a database transaction. It is unsafe to be used
// concurrently. By default, a READ-COMMITTED transaction is expected
// from a PostgreSQL server, so the use cases which need to serialize
// their transactions must do so before beginning them.
// Tx embeds the *gorm.DB, hence, may be used like GORM from within
// the repository packages.
type Tx struct {
	*gorm.DB
}

// Exec runs the sql statement with the given args and returns the
// number of affected rows. Parameters in sql may be numbered like $1
// or use the ? and @name placeholders which are supported by GORM.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(tx.DB.WithContext(ctx), sql, args...)
}

// Query runs the sql statement with the given args and returns its
// result set. The Query or Exec may not be called again until the
// Rows is closed since only one ongoing statement may be used on each
// connection.
func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(tx.DB.WithContext(ctx), sql, args...)
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
