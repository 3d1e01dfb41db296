// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package slotsrp implements the repo.Slots interface for a PostgreSQL
// database. Only the occupied slots are persisted, one row per slot,
// and a unique index on the plate column ensures that a vehicle may
// not occupy two slots.
package slotsrp

import (
	"context"
	"fmt"

	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gOccupancy struct {
	SlotID int    `gorm:"primaryKey;autoIncrement:false;column:slot_id"`
	Plate  string `gorm:"not null;uniqueIndex"`
}

func (gs *gOccupancy) TableName() string {
	return "occupied_slots"
}

// Migrate creates or alters the occupied_slots table.
func Migrate[Q postgres.Queryer](ctx context.Context, q Q) error {
	if err := q.GORM(ctx).AutoMigrate(&gOccupancy{}); err != nil {
		return fmt.Errorf("migrating occupied_slots table: %w", err)
	}
	return nil
}

func FindOccupied[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Occupancy, error) {
	var gss []gOccupancy
	res := q.GORM(ctx).Order("slot_id").Find(&gss)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	occupied := make([]model.Occupancy, 0, len(gss))
	for _, gs := range gss {
		occupied = append(occupied, model.Occupancy{
			SlotID: gs.SlotID, Plate: gs.Plate,
		})
	}
	return occupied, nil
}

func UpsertOccupancy[Q postgres.Queryer](ctx context.Context, q Q, o model.Occupancy) error {
	res := q.GORM(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plate"}),
	}).Create(&gOccupancy{SlotID: o.SlotID, Plate: o.Plate})
	switch err := res.Error; {
	case err == nil:
		return nil
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf(
			"%w: %s occupies another slot: %w",
			model.ErrVehicleAlreadyParked, o.Plate, err,
		)
	default:
		return fmt.Errorf("query: %w", err)
	}
}

func DeleteOccupancy[Q postgres.Queryer](ctx context.Context, q Q, slotID int) error {
	res := q.GORM(ctx).Where("slot_id=?", slotID).Delete(&gOccupancy{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
