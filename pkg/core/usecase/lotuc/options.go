// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lotuc

import (
	"errors"
	"fmt"

	"github.com/momeni/parking-lot/pkg/core/billing"
)

// Option represents a functional option for the lot UseCase.
type Option func(lot *UseCase) error

// WithMinEntryPoints option configures the minimum number of entry
// gates which the lot layout must have. It defaults to 3.
func WithMinEntryPoints(n int) Option {
	return func(lot *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("min entry points (%d) is not positive", n)
		}
		if lot.minEntries != 0 {
			return errors.New("min entry points is already configured")
		}
		lot.minEntries = n
		return nil
	}
}

// WithCalculator option configures the fee calculator. A calculator
// with the default rates is used if this option is not passed.
func WithCalculator(c *billing.Calculator) Option {
	return func(lot *UseCase) error {
		if c == nil {
			return errors.New("fee calculator must not be nil")
		}
		if lot.fees != nil {
			return errors.New("fee calculator is already configured")
		}
		lot.fees = c
		return nil
	}
}

// WithRecorder option configures a Recorder which is notified about
// the park and unpark outcomes.
func WithRecorder(r Recorder) Option {
	return func(lot *UseCase) error {
		if r == nil {
			return errors.New("recorder must not be nil")
		}
		if lot.recorder != nil {
			return errors.New("recorder is already configured")
		}
		lot.recorder = r
		return nil
	}
}
