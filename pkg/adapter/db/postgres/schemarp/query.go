// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp manages the parking lot database schema. It creates
// the tables of the vehicles and slots repositories and records the
// schema version, so a server may refuse to work with a database which
// is initialized by an incompatible release.
package schemarp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/slotsrp"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gSchemaVersion struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false"`
	Version   string `gorm:"not null"`
	UpdatedAt time.Time
}

func (gsv *gSchemaVersion) TableName() string {
	return "schema_version"
}

// Init creates the tables (or adds their missing columns) and records
// the postgres.Version as the current schema version. It is idempotent
// and may be called for an initialized database too.
func Init(ctx context.Context, tx *postgres.Tx) error {
	if err := tx.GORM(ctx).AutoMigrate(&gSchemaVersion{}); err != nil {
		return fmt.Errorf("migrating schema_version table: %w", err)
	}
	if err := vehiclesrp.Migrate(ctx, tx); err != nil {
		return err
	}
	if err := slotsrp.Migrate(ctx, tx); err != nil {
		return err
	}
	res := tx.GORM(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&gSchemaVersion{ID: 1, Version: postgres.Version.String()})
	if err := res.Error; err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// LoadVersion returns the recorded schema version.
func LoadVersion[Q postgres.Queryer](ctx context.Context, q Q) (
	sv model.SemVer, err error,
) {
	var gsvs []gSchemaVersion
	res := q.GORM(ctx).Where("id=1").Find(&gsvs)
	if err = res.Error; err != nil {
		return sv, fmt.Errorf("query: %w", err)
	}
	if len(gsvs) == 0 {
		return sv, errors.New("schema version is not recorded")
	}
	if err = sv.UnmarshalText([]byte(gsvs[0].Version)); err != nil {
		return sv, fmt.Errorf("parsing %q version: %w", gsvs[0].Version, err)
	}
	return sv, nil
}

// CheckVersion ensures that the schema version of the database has
// the same major version as the postgres.Version. Otherwise, an error
// wrapping cerr.MismatchingSemVerError is returned.
func CheckVersion[Q postgres.Queryer](ctx context.Context, q Q) error {
	sv, err := LoadVersion(ctx, q)
	if err != nil {
		return fmt.Errorf("loading schema version: %w", err)
	}
	if sv.Major() != postgres.Version.Major() {
		return fmt.Errorf(
			"database schema is not supported: %w",
			&cerr.MismatchingSemVerError{postgres.Version, sv},
		)
	}
	return nil
}
