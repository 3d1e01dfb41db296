// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// These errors describe the failure conditions of the parking lot
// operations. They encode a description string and do not communicate
// the offending arguments because the caller already knows about them.
// Callers should wrap them (adding the relevant arguments) and the
// ultimate consumer may detect them using errors.Is.
var (
	// ErrInvalidConfiguration indicates a bad lot layout. It is fatal
	// at construction time.
	ErrInvalidConfiguration = errors.New("invalid lot configuration")

	// ErrInvalidEntryPoint indicates an entry point which is not
	// configured for the lot.
	ErrInvalidEntryPoint = errors.New("invalid entry point")

	// ErrNoAvailableSpot indicates that no empty slot can fit the
	// requested vehicle size.
	ErrNoAvailableSpot = errors.New("no available parking spot")

	// ErrVehicleAlreadyParked indicates that a plate is parked already.
	ErrVehicleAlreadyParked = errors.New("vehicle is already parked")

	// ErrVehicleNotParked indicates that a plate has no active slot.
	ErrVehicleNotParked = errors.New("vehicle is not parked")

	// ErrInvalidTimestamp indicates an exit before the entry or a
	// re-entry before the previous exit.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrFeeNotComputable indicates that entry or exit timestamps
	// are missing.
	ErrFeeNotComputable = errors.New("fee cannot be computed")

	// ErrUnknownSize indicates that a given string may not be parsed
	// as a valid/known size.
	ErrUnknownSize = errors.New("unknown size")

	// ErrUnknownEntryPoint indicates that a given string may not be
	// parsed as an entry point name.
	ErrUnknownEntryPoint = errors.New("unknown entry point")
)
