// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// EntryPoint identifies a physical gate of the parking lot. It is the
// zero-based index of the gate in the distance vector of each slot,
// so entry points of a lot are always 0, 1, ..., k-1.
// Entry points are named by capital letters, e.g., A for 0 and C for 2.
type EntryPoint int

// String returns the letter name of the e entry point. Entry points
// beyond Z (or negative ones) are reported by their numeric values.
func (e EntryPoint) String() string {
	if e < 0 || e > 'Z'-'A' {
		return fmt.Sprintf("entry(%d)", int(e))
	}
	return string(rune('A' + e))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (e EntryPoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The e receiver is left unchanged in case of errors.
func (e *EntryPoint) UnmarshalText(text []byte) error {
	p, err := ParseEntryPoint(string(text))
	if err != nil {
		return err
	}
	*e = p
	return nil
}

// ParseEntryPoint parses a single letter entry point name, in upper or
// lower case. Other strings cause ErrUnknownEntryPoint to be returned.
func ParseEntryPoint(s string) (EntryPoint, error) {
	if len(s) != 1 {
		return 0, ErrUnknownEntryPoint
	}
	switch c := s[0]; {
	case c >= 'A' && c <= 'Z':
		return EntryPoint(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return EntryPoint(c - 'a'), nil
	default:
		return 0, ErrUnknownEntryPoint
	}
}
