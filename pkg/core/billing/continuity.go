// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/parking-lot/pkg/core/model"
)

// Continue prepares the v record of a returning vehicle (which has
// exited before) for a new session which starts at the given time.
//
// If the gap since v.Exit is not longer than the continuity window,
// the new session continues the billing lineage: paid and stayed hours
// and the first entry time are kept, and no flat rate is charged again.
// Otherwise, a fresh lineage starts at the given time and the billing
// state is reset. The returned boolean reports if the lineage was kept.
//
// The model.ErrInvalidTimestamp is returned if v is still parked or
// the given time is before v.Exit; v is not modified in that case.
func (c *Calculator) Continue(v *model.Vehicle, at time.Time) (bool, error) {
	if v.Exit == nil {
		return false, fmt.Errorf(
			"%w: previous session has no exit", model.ErrInvalidTimestamp,
		)
	}
	gap := at.Sub(*v.Exit)
	if gap < 0 {
		return false, fmt.Errorf(
			"%w: entry %s is before the last exit %s",
			model.ErrInvalidTimestamp,
			at.Format(time.RFC3339), v.Exit.Format(time.RFC3339),
		)
	}
	if gap <= c.continuityWindow {
		v.ChargeFlatRate = false
		return true, nil
	}
	v.LineageID = uuid.New()
	v.FirstEntry = at
	v.HourPaid = 0
	v.TotalHoursStayed = 0
	v.ChargeFlatRate = true
	return false, nil
}
