// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"
	"time"

	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	for s, expected := range map[string]model.Size{
		"small": model.SizeSmall, "SMALL": model.SizeSmall,
		"medium": model.SizeMedium, "MEDIUM": model.SizeMedium,
		"large": model.SizeLarge, "LARGE": model.SizeLarge,
	} {
		size, err := model.ParseSize(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, size, s)
	}
	for _, s := range []string{"", "Small", "huge", "1"} {
		size, err := model.ParseSize(s)
		assert.ErrorIs(t, err, model.ErrUnknownSize, s)
		assert.Equal(t, model.SizeInvalid, size, s)
	}
}

func TestSizeText(t *testing.T) {
	b, err := model.SizeMedium.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "medium", string(b))

	_, err = model.SizeInvalid.MarshalText()
	assert.Equal(t, model.SizeError(0), err)
	assert.Equal(t, "size(7)", model.Size(7).String())

	s := model.SizeLarge
	assert.Error(t, s.UnmarshalText([]byte("tiny")))
	assert.Equal(t, model.SizeLarge, s, "unchanged after errors")
	require.NoError(t, s.UnmarshalText([]byte("small")))
	assert.Equal(t, model.SizeSmall, s)
}

func TestSlotFits(t *testing.T) {
	slot := model.Slot{ID: 1, Size: model.SizeMedium}
	assert.True(t, slot.Fits(model.SizeSmall))
	assert.True(t, slot.Fits(model.SizeMedium))
	assert.False(t, slot.Fits(model.SizeLarge))
	assert.True(t, slot.IsEmpty())
	slot.Occupant = "ABC123"
	assert.False(t, slot.IsEmpty())
}

func TestParseEntryPoint(t *testing.T) {
	for s, expected := range map[string]model.EntryPoint{
		"A": 0, "a": 0, "C": 2, "z": 25,
	} {
		e, err := model.ParseEntryPoint(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, e, s)
	}
	for _, s := range []string{"", "AB", "1", "-"} {
		_, err := model.ParseEntryPoint(s)
		assert.ErrorIs(t, err, model.ErrUnknownEntryPoint, s)
	}
	assert.Equal(t, "B", model.EntryPoint(1).String())
	assert.Equal(t, "entry(26)", model.EntryPoint(26).String())
	assert.Equal(t, "entry(-1)", model.EntryPoint(-1).String())
}

func TestLayoutValidate(t *testing.T) {
	valid := func() model.Layout {
		return model.Layout{
			Sizes:     []model.Size{model.SizeSmall, model.SizeLarge},
			Distances: [][]int{{1, 2, 3}, {3, 2, 1}},
			Entries:   []model.EntryPoint{0, 1, 2},
		}
	}
	require.NoError(t, valid().Validate(3))
	for name, mutate := range map[string]func(l *model.Layout){
		"no slots": func(l *model.Layout) {
			l.Sizes, l.Distances = nil, nil
		},
		"missing distances": func(l *model.Layout) {
			l.Distances = l.Distances[:1]
		},
		"few entry points": func(l *model.Layout) {
			l.Entries = l.Entries[:2]
			l.Distances = [][]int{{1, 2}, {2, 1}}
		},
		"unordered entry points": func(l *model.Layout) {
			l.Entries = []model.EntryPoint{0, 2, 1}
		},
		"invalid size": func(l *model.Layout) {
			l.Sizes[1] = model.SizeInvalid
		},
		"short distances": func(l *model.Layout) {
			l.Distances[1] = []int{3, 2}
		},
		"zero distance": func(l *model.Layout) {
			l.Distances[0][1] = 0
		},
		"negative distance": func(l *model.Layout) {
			l.Distances[1][2] = -1
		},
	} {
		l := valid()
		mutate(&l)
		assert.ErrorIs(t, l.Validate(3), model.ErrInvalidConfiguration, name)
	}

	l := valid()
	l.Entries = l.Entries[:2]
	l.Distances = [][]int{{1, 2}, {2, 1}}
	assert.NoError(t, l.Validate(2), "a lower minimum is configurable")
}

func TestVehicle(t *testing.T) {
	t0 := time.Date(2022, 9, 26, 12, 0, 0, 0, time.UTC)
	v := model.NewVehicle("ABC123", model.SizeMedium, t0)
	assert.True(t, v.IsParked())
	assert.True(t, v.ChargeFlatRate)
	assert.Equal(t, t0, v.FirstEntry)
	assert.NotEqual(t, model.NewVehicle("X", model.SizeSmall, t0).LineageID, v.LineageID)

	exit := t0.Add(time.Hour)
	v.Exit = &exit
	v.HourPaid, v.TotalHoursStayed = 3, 1
	assert.False(t, v.IsParked())
	assert.Equal(t, 2.0, v.RemainingPaidHours())

	c := v.Clone()
	assert.Equal(t, v, c)
	*c.Exit = t0
	c.HourPaid = 10
	assert.Equal(t, exit, *v.Exit, "clone shares no exit time")
	assert.Equal(t, 3.0, v.HourPaid)

	v.TotalHoursStayed = 5
	assert.Equal(t, 0.0, v.RemainingPaidHours())
}

func TestSemVer(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2")))
	assert.Equal(t, model.SemVer{1, 2, 0}, sv)
	assert.Equal(t, uint(1), sv.Major())
	assert.Equal(t, "1.2.0", sv.String())
	for _, s := range []string{"x", "1.2.3.4", "1.-2", ""} {
		assert.Error(t, sv.UnmarshalText([]byte(s)), s)
	}
	assert.Equal(t, model.SemVer{1, 2, 0}, sv, "unchanged after errors")
}
