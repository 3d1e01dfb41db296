// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package billing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Option is a functional option for the fee Calculator.
type Option func(c *Calculator) error

// WithRates option configures the hourly and daily rates. All rates
// must be non-negative numbers.
func WithRates(r Rates) Option {
	return func(c *Calculator) error {
		if err := r.validate(); err != nil {
			return err
		}
		if c.ratesSet {
			return errors.New("rates are already configured")
		}
		c.rates, c.ratesSet = r, true
		return nil
	}
}

// WithFlatFee option configures the fee which is charged once for the
// first hours of a billing lineage. A zero fee is acceptable.
func WithFlatFee(fee float64) Option {
	return func(c *Calculator) error {
		if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
			return fmt.Errorf("flat fee (%v) is not non-negative", fee)
		}
		if c.flatFee >= 0 {
			return errors.New("flat fee is already configured")
		}
		c.flatFee = fee
		return nil
	}
}

// WithFlatRateGrace option configures the stay duration which is
// covered by the flat fee. It must be a whole number of hours.
func WithFlatRateGrace(grace time.Duration) Option {
	return func(c *Calculator) error {
		if d := int64(grace); d <= 0 {
			return fmt.Errorf("flat rate grace (%d) is not positive", d)
		}
		if grace%time.Hour != 0 {
			return fmt.Errorf("flat rate grace (%s) is not in hours", grace)
		}
		if c.flatRateGrace != 0 {
			return errors.New("flat rate grace is already configured")
		}
		c.flatRateGrace = grace
		return nil
	}
}

// WithContinuityWindow option configures the maximum gap between an
// exit and the next entry of a plate which keeps its billing lineage.
func WithContinuityWindow(window time.Duration) Option {
	return func(c *Calculator) error {
		if d := int64(window); d <= 0 {
			return fmt.Errorf("continuity window (%d) is not positive", d)
		}
		if c.continuityWindow != 0 {
			return errors.New("continuity window is already configured")
		}
		c.continuityWindow = window
		return nil
	}
}
