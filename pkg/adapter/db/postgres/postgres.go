// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres realizes the repo package Pool, Conn, and Tx
// interfaces for a PostgreSQL database using the GORM framework and
// the pgx driver. Its sub-packages implement the parking lot
// repositories and the schema management on top of them.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/parking-lot/pkg/core/model"
)

// These constants represent the major, minor, and patch components of
// the current database schema semantic version.
const (
	Major = 1 // latest supported schema major version
	Minor = 0 // latest schema minor version in Major series
	Patch = 0 // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}

// UniqueViolation is the SQLSTATE of the unique_violation errors.
const UniqueViolation = "23505"

// IsUniqueViolation reports if err wraps a PostgreSQL error which is
// caused by violating a unique index or primary key.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}
