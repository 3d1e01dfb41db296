// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema provides the database schema verifier which can be
// used for testing purposes. It queries the information_schema views,
// so it checks the tables and their columns and not their contents.
package schema

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columns lists the expected columns of each table in the major
// version 1 of the database schema.
var columns = map[string][]string{
	"schema_version": {"id", "version", "updated_at"},
	"vehicles": {
		"plate", "size", "lineage_id", "first_entry", "entry_at",
		"exit_at", "charge_flat_rate", "hour_paid", "total_hours_stayed",
	},
	"occupied_slots": {"slot_id", "plate"},
}

// Verifier checks the database schema using its wrapped queryer.
type Verifier struct {
	q repo.Queryer
}

// NewVerifier creates a Verifier for the v schema version, wrapping
// the q database connection. If the major version of v is not
// supported, an error will be returned.
func NewVerifier(q repo.Queryer, v model.SemVer) (*Verifier, error) {
	if major := v.Major(); major != 1 {
		return nil, fmt.Errorf("unsupported major: %d", major)
	}
	return &Verifier{q: q}, nil
}

// VerifySchema ensures that all expected tables and columns exist.
// Presence of extra columns is acceptable. Failures are reported
// using the t testing argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, expected := range columns {
		rows, err := v.q.Query(ctx, `SELECT column_name
FROM information_schema.columns
WHERE table_schema=current_schema() AND table_name=$1`, table)
		require.NoError(t, err, "querying %q columns", table)
		var actual []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			actual = append(actual, name)
		}
		require.NoError(t, rows.Err())
		rows.Close()
		for _, col := range expected {
			assert.True(
				t, slices.Contains(actual, col),
				"column %q of %q table is missing", col, table,
			)
		}
	}
}
