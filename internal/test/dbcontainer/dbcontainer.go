// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// It starts a temporary postgres:16 container and connects to it,
// using a *postgres.Pool connection pool, so integration tests can
// run against a real PostgreSQL server.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// New creates and starts up a postgres container.
// The DOCKER_HOST environment variable needs to be initialized
// beforehand, e.g., as unix://$XDG_RUNTIME_DIR/podman/podman.sock for
// a podman.service, otherwise, the t test will be skipped.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// Callers must run the returned dfrs functions in the reverse order,
// even if ok is false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("DOCKER_HOST is not set, skipping the database tests")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(ctx2, "16")
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u, time.Second)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}
