// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/parking-lot/pkg/adapter/db/memory"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a sample parking scenario in memory",
	Long: `Run a sample parking scenario in memory, without reading the
config file or connecting to a database. Six slots (two of each size)
are created with three entry points and four vehicles enter from the C
entry point at noon, then all of them leave three and a half hours
later. The assigned slots and the charged fees are printed as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return demo(context.Background(), cmd.OutOrStdout())
	},
	Args: cobra.NoArgs,
}

// demoLayout returns the lot layout of the demo scenario.
func demoLayout() model.Layout {
	s, m, l := model.SizeSmall, model.SizeMedium, model.SizeLarge
	return model.Layout{
		Sizes: []model.Size{s, s, m, m, l, l},
		Distances: [][]int{
			{1, 2, 3}, {1, 3, 2}, {3, 2, 1},
			{2, 1, 3}, {3, 1, 2}, {2, 3, 1},
		},
		Entries: []model.EntryPoint{0, 1, 2},
	}
}

type demoVisit struct {
	Plate string     `json:"plate"`
	Size  model.Size `json:"size"`
	Slot  int        `json:"slot"`
	Fee   float64    `json:"fee"`
}

type demoReport struct {
	Entry   model.EntryPoint `json:"entry"`
	EnterAt time.Time        `json:"enter_at"`
	ExitAt  time.Time        `json:"exit_at"`
	Visits  []demoVisit      `json:"visits"`
	Total   float64          `json:"total"`
}

func demo(ctx context.Context, w io.Writer) error {
	lot, err := lotuc.New(
		ctx, memory.NewPool(), memory.NewVehicles(), memory.NewSlots(),
		demoLayout(),
	)
	if err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}
	r := demoReport{
		Entry:   2,
		EnterAt: time.Date(2022, 9, 26, 12, 0, 0, 0, time.UTC),
		ExitAt:  time.Date(2022, 9, 26, 15, 30, 0, 0, time.UTC),
	}
	for _, v := range []demoVisit{
		{Plate: "ABC135", Size: model.SizeLarge},
		{Plate: "ABC136", Size: model.SizeLarge},
		{Plate: "ABC137", Size: model.SizeMedium},
		{Plate: "ABC138", Size: model.SizeSmall},
	} {
		slot, err := lot.Park(ctx, v.Plate, v.Size, r.Entry, r.EnterAt)
		if err != nil {
			return fmt.Errorf("parking %q: %w", v.Plate, err)
		}
		v.Slot = slot.ID
		r.Visits = append(r.Visits, v)
	}
	for i := range r.Visits {
		v := &r.Visits[i]
		v.Fee, err = lot.Unpark(ctx, v.Plate, r.ExitAt)
		if err != nil {
			return fmt.Errorf("unparking %q: %w", v.Plate, err)
		}
		r.Total += v.Fee
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

