// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehiclesrp implements the repo.Vehicles interface for a
// PostgreSQL database, keeping one row per license plate in the
// vehicles table.
package vehiclesrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gVehicle struct {
	Plate            string     `gorm:"primaryKey;column:plate"`
	Size             int        `gorm:"not null"`
	LineageID        uuid.UUID  `gorm:"type:uuid;not null;column:lineage_id"`
	FirstEntry       time.Time  `gorm:"not null"`
	EntryAt          time.Time  `gorm:"not null"`
	ExitAt           *time.Time `gorm:"index"`
	ChargeFlatRate   bool
	HourPaid         float64
	TotalHoursStayed float64
}

func (gv *gVehicle) TableName() string {
	return "vehicles"
}

func (gv *gVehicle) Model() *model.Vehicle {
	v := &model.Vehicle{
		LicensePlate:     gv.Plate,
		Size:             model.Size(gv.Size),
		LineageID:        gv.LineageID,
		FirstEntry:       gv.FirstEntry,
		Entry:            gv.EntryAt,
		ChargeFlatRate:   gv.ChargeFlatRate,
		HourPaid:         gv.HourPaid,
		TotalHoursStayed: gv.TotalHoursStayed,
	}
	if gv.ExitAt != nil {
		exit := *gv.ExitAt
		v.Exit = &exit
	}
	return v
}

func fromModel(v *model.Vehicle) *gVehicle {
	gv := &gVehicle{
		Plate:            v.LicensePlate,
		Size:             int(v.Size),
		LineageID:        v.LineageID,
		FirstEntry:       v.FirstEntry,
		EntryAt:          v.Entry,
		ChargeFlatRate:   v.ChargeFlatRate,
		HourPaid:         v.HourPaid,
		TotalHoursStayed: v.TotalHoursStayed,
	}
	if v.Exit != nil {
		exit := *v.Exit
		gv.ExitAt = &exit
	}
	return gv
}

// Migrate creates or alters the vehicles table, so it matches the
// gVehicle columns.
func Migrate[Q postgres.Queryer](ctx context.Context, q Q) error {
	if err := q.GORM(ctx).AutoMigrate(&gVehicle{}); err != nil {
		return fmt.Errorf("migrating vehicles table: %w", err)
	}
	return nil
}

func FindByPlate[Q postgres.Queryer](ctx context.Context, q Q, plate string) (*model.Vehicle, error) {
	var gvs []gVehicle
	res := q.GORM(ctx).Where("plate=?", plate).Limit(1).Find(&gvs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gvs) == 0 {
		return nil, nil
	}
	return gvs[0].Model(), nil
}

func Upsert[Q postgres.Queryer](ctx context.Context, q Q, v *model.Vehicle) error {
	if v == nil || v.LicensePlate == "" {
		return errors.New("vehicle must have a plate")
	}
	res := q.GORM(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plate"}},
		UpdateAll: true,
	}).Create(fromModel(v))
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, plate string) error {
	res := q.GORM(ctx).Where("plate=?", plate).Delete(&gVehicle{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

func DeleteExitedBefore[Q postgres.Queryer](ctx context.Context, q Q, before time.Time) (int64, error) {
	res := q.GORM(ctx).Where(
		"exit_at IS NOT NULL AND exit_at<?", before,
	).Delete(&gVehicle{})
	if err := res.Error; err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return res.RowsAffected, nil
}
