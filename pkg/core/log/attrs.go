// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"
	"time"

	"github.com/momeni/parking-lot/pkg/core/model"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Plate returns an Attr for a vehicle license plate.
func Plate(plate string) slog.Attr {
	return slog.String("plate", plate)
}

// Slot returns an Attr for a slot ID.
func Slot(id int) slog.Attr {
	return slog.Int("slot", id)
}

// Size returns an Attr for a vehicle or slot size class.
func Size(key string, s model.Size) slog.Attr {
	return slog.String(key, s.String())
}

// Entry returns an Attr for an entry point, by its letter name.
func Entry(e model.EntryPoint) slog.Attr {
	return slog.String("entry", e.String())
}

// Fee returns an Attr for a computed parking fee.
func Fee(fee float64) slog.Attr {
	return slog.Float64("fee", fee)
}

// At returns an Attr for the timestamp of an operation. Timestamps are
// given by callers explicitly, hence, they may differ from the record
// creation time which is reported by the handler.
func At(t time.Time) slog.Attr {
	return slog.Time("at", t)
}
