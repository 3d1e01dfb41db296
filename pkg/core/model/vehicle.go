// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Vehicle models the record of a vehicle which parks in the lot and
// its billing state. The billing state carries over a series of
// park/unpark sessions as long as the vehicle returns within the
// continuity window; these sessions form a billing lineage which is
// identified by LineageID.
// The record is persisted by a repository, while the vehicle's current
// slot is not stored here and should be asked from the lot instead.
// For the corresponding database struct, see the unexported gVehicle
// struct in the pkg/adapter/db/postgres/vehiclesrp/query.go file.
type Vehicle struct {
	LicensePlate string `json:"license_plate"` // identity key
	Size         Size   `json:"size"`

	// LineageID identifies the billing lineage of this record. It is
	// renewed whenever the billing state is reset.
	LineageID uuid.UUID `json:"lineage_id"`

	FirstEntry time.Time  `json:"first_entry"`    // start of lineage
	Entry      time.Time  `json:"entry"`          // current session
	Exit       *time.Time `json:"exit,omitempty"` // nil while parked

	ChargeFlatRate   bool    `json:"charge_flat_rate"`
	HourPaid         float64 `json:"hour_paid"`          // covered hours
	TotalHoursStayed float64 `json:"total_hours_stayed"` // since FirstEntry
}

// NewVehicle instantiates the record of a vehicle which is parking
// for the first time (or after its lineage is expired) at the given
// entry time. A fresh lineage must pay the flat rate.
func NewVehicle(plate string, size Size, entry time.Time) *Vehicle {
	return &Vehicle{
		LicensePlate:   plate,
		Size:           size,
		LineageID:      uuid.New(),
		FirstEntry:     entry,
		Entry:          entry,
		ChargeFlatRate: true,
	}
}

// IsParked reports if the v record belongs to an ongoing session.
func (v *Vehicle) IsParked() bool {
	return v.Exit == nil
}

// RemainingPaidHours returns the number of hours which are paid for
// but are not consumed yet. It is never negative.
func (v *Vehicle) RemainingPaidHours() float64 {
	if r := v.HourPaid - v.TotalHoursStayed; r > 0 {
		return r
	}
	return 0
}

// Clone returns a deep copy of v, so it can be mutated by a
// transaction which may be aborted.
func (v *Vehicle) Clone() *Vehicle {
	c := *v
	if v.Exit != nil {
		exit := *v.Exit
		c.Exit = &exit
	}
	return &c
}

// LogValue implements slog.LogValuer, reporting the identity and
// billing fields of v as a group.
func (v *Vehicle) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("plate", v.LicensePlate),
		slog.String("size", v.Size.String()),
		slog.String("lineage", v.LineageID.String()),
		slog.Float64("hour_paid", v.HourPaid),
		slog.Float64("hours_stayed", v.TotalHoursStayed),
		slog.Bool("flat_rate", v.ChargeFlatRate),
	)
}
