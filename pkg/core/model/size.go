// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by JSON
// serialization) since adding more tags does not complicate definition
// of a struct, but can prevent unnecessary structs duplication.
package model

import "fmt"

// Size specifies the size class of vehicles and parking slots.
// Sizes are ordered, so a slot accepts a vehicle of its own size or
// any smaller size. Although this enum is numeric, it is (de)serialized
// as a string for readability in the adapter layer.
type Size int

// Valid values for the Size enum.
const (
	SizeInvalid Size = iota // zero value is invalid

	SizeSmall  // small vehicles, e.g., motorcycles and city cars
	SizeMedium // medium vehicles, e.g., sedans and SUVs
	SizeLarge  // large vehicles, e.g., vans and buses
)

// SizeError indicates an invalid size. It contains the invalid
// size as an integer, so it may be reported in the error message.
type SizeError int

// Error implements the error interface, returning a string
// representation of the SizeError.
func (e SizeError) Error() string {
	return fmt.Sprintf("invalid size: %d", e)
}

// Validate returns nil if Size value is valid. For invalid values,
// an instance of the SizeError will be returned.
func (s Size) Validate() error {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return nil
	default:
		return SizeError(s)
	}
}

// String converts the Size enum to a string, helping to serialize it
// for transmission to web clients. Invalid sizes are reported with
// their numeric value instead of causing a panic because sizes may be
// logged before their validation.
func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return fmt.Sprintf("size(%d)", int(s))
	}
}

// MarshalText implements the encoding.TextMarshaler interface, so
// sizes are encoded by their names in JSON and YAML documents.
func (s Size) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The s receiver is left unchanged in case of errors.
func (s *Size) UnmarshalText(text []byte) error {
	p, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

// ParseSize parses the given string and returns a Size, helping to
// deserialize it when reading a REST API request or a config file.
// For unknown strings, SizeInvalid and ErrUnknownSize are returned.
func ParseSize(s string) (Size, error) {
	switch s {
	case "small", "SMALL":
		return SizeSmall, nil
	case "medium", "MEDIUM":
		return SizeMedium, nil
	case "large", "LARGE":
		return SizeLarge, nil
	default:
		return SizeInvalid, ErrUnknownSize
	}
}
