// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package billing implements the parking fee calculator. Fees depend
// on the elapsed time since the first entry of a billing lineage, so
// a vehicle which returns within the continuity window is billed as
// if it had never left, and on the size class of the occupied slot.
// The calculator mutates the billing state of the vehicle records
// (paid and stayed hours), so callers must pass a copy when the
// resulting state may be discarded.
package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/momeni/parking-lot/pkg/core/model"
)

const (
	hoursPerDay = 24
	day         = hoursPerDay * time.Hour
)

// Rates contains the hourly rates of each slot size class and the
// per-day rate which is charged for stays longer than a day.
type Rates struct {
	Small, Medium, Large float64
	DayOver              float64
}

// DefaultRates returns the default hourly and daily rates.
func DefaultRates() Rates {
	return Rates{Small: 20, Medium: 60, Large: 100, DayOver: 5000}
}

// Hourly returns the hourly rate of the given slot size class.
func (r Rates) Hourly(s model.Size) (float64, error) {
	switch s {
	case model.SizeSmall:
		return r.Small, nil
	case model.SizeMedium:
		return r.Medium, nil
	case model.SizeLarge:
		return r.Large, nil
	default:
		return 0, model.SizeError(s)
	}
}

func (r Rates) validate() error {
	for _, v := range []float64{r.Small, r.Medium, r.Large, r.DayOver} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rate (%v) is not a non-negative number", v)
		}
	}
	return nil
}

// Calculator computes parking fees. It is immutable after creation,
// hence, it may be used by concurrent go routines.
type Calculator struct {
	rates            Rates
	ratesSet         bool
	flatFee          float64
	flatRateGrace    time.Duration
	continuityWindow time.Duration
}

// New instantiates a fee Calculator. Optional parameters are passed as
// a series of functional options and their missing items take their
// default values: 20/60/100 hourly rates for small/medium/large slots,
// 5000 per day, 40 flat fee covering 3 hours, and 1 hour continuity.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{flatFee: -1}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if !c.ratesSet {
		c.rates = DefaultRates()
	}
	if c.flatFee < 0 {
		c.flatFee = 40
	}
	if c.flatRateGrace == 0 {
		c.flatRateGrace = 3 * time.Hour
	}
	if c.continuityWindow == 0 {
		c.continuityWindow = time.Hour
	}
	return c, nil
}

// Rates returns the effective rates of c.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// FlatFee returns the fee which is charged once per lineage.
func (c *Calculator) FlatFee() float64 {
	return c.flatFee
}

// FlatRateGrace returns the stay duration which is covered by the
// flat fee.
func (c *Calculator) FlatRateGrace() time.Duration {
	return c.flatRateGrace
}

// ContinuityWindow returns the maximum gap between an exit and the
// next entry which keeps the billing lineage.
func (c *Calculator) ContinuityWindow() time.Duration {
	return c.continuityWindow
}

// ComputeFee computes the fee of the v vehicle which is leaving a slot
// with slotSize size class. The elapsed time is measured from the
// v.FirstEntry to v.Exit, while v.HourPaid keeps the hours which are
// paid already (by previous sessions of the same lineage). Both
// v.HourPaid and v.TotalHoursStayed are updated and v.ChargeFlatRate
// is cleared for stays longer than a day.
//
// Both v.Entry and v.Exit must be set, otherwise, the
// model.ErrFeeNotComputable error is returned and v is not modified.
func (c *Calculator) ComputeFee(
	v *model.Vehicle, slotSize model.Size,
) (float64, error) {
	if v.Entry.IsZero() || v.Exit == nil {
		return 0, fmt.Errorf(
			"%w: entry and exit are required", model.ErrFeeNotComputable,
		)
	}
	elapsed := v.Exit.Sub(v.FirstEntry)
	if elapsed < 0 {
		return 0, fmt.Errorf(
			"%w: exit is before the first entry",
			model.ErrFeeNotComputable,
		)
	}
	rate, err := c.rates.Hourly(slotSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrFeeNotComputable, err)
	}
	days := int64(elapsed / day)
	remSeconds := float64((elapsed % day) / time.Second)
	hoursStayed := float64(days*hoursPerDay) + remSeconds/3600
	totalHours := float64(days*hoursPerDay) + math.Ceil(remSeconds/3600)

	v.TotalHoursStayed = hoursStayed
	if hoursStayed <= v.HourPaid {
		return 0, nil // covered by the previous payments
	}

	var fee, exceedingHours float64
	if days > 0 {
		v.ChargeFlatRate = false
		daysPaid := math.Floor(v.HourPaid / hoursPerDay)
		unpaidDays := float64(days) - daysPaid
		fee = c.rates.DayOver * unpaidDays
		v.HourPaid = unpaidDays * hoursPerDay
		exceedingHours = math.Mod(totalHours, hoursPerDay)
	} else {
		exceedingHours = totalHours
		if v.ChargeFlatRate {
			fee += c.flatFee
			v.HourPaid = c.flatRateGrace.Hours()
		}
		exceedingHours -= v.HourPaid
	}
	if exceedingHours >= 0 {
		fee += rate * exceedingHours
		v.HourPaid += exceedingHours
	}
	return math.Max(fee, 0), nil
}

// Quote returns the fee which would be charged if the v vehicle,
// parked in a slot with slotSize size class, left at the given time.
// The v record is not modified.
func (c *Calculator) Quote(
	v *model.Vehicle, slotSize model.Size, at time.Time,
) (float64, error) {
	cv := v.Clone()
	cv.Exit = &at
	return c.ComputeFee(cv, slotSize)
}
