// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/parking-lot/pkg/core/model"
)

// Schema is the repository of the database schema. It creates the
// tables of other repositories and records the schema version.
// The in-memory store needs no schema, so it has no implementation.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

type SchemaConnQueryer interface {
	SchemaQueryer
}

type SchemaTxQueryer interface {
	SchemaQueryer

	// Init creates the missing tables (or columns) and records the
	// supported schema version. It is idempotent.
	Init(ctx context.Context) error
}

// SchemaQueryer reads the recorded schema version.
type SchemaQueryer interface {
	// Version returns the recorded schema version.
	Version(ctx context.Context) (model.SemVer, error)

	// CheckVersion returns an error wrapping the
	// cerr.MismatchingSemVerError if the recorded schema major
	// version is not supported.
	CheckVersion(ctx context.Context) error
}
