// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/config/settings"
	"github.com/momeni/parking-lot/pkg/adapter/restful/gin"
	"github.com/momeni/parking-lot/pkg/core/billing"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/robfig/cron/v3"
)

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Address  string // listening address, like :8080
	Mode     string // one of debug, release, or test
	Logger   *bool  // Whether to register the request logger middleware
	Recovery *bool  // Whether to register the gin.Recovery() middleware
}

func (g *Gin) ValidateAndNormalize() error {
	if g.Address == "" {
		g.Address = ":8080"
	}
	switch g.Mode {
	case "":
		g.Mode = "release"
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported gin mode: %q", g.Mode)
	}
	enabled := true
	settings.OverwriteNil(&g.Logger, &enabled)
	settings.OverwriteNil(&g.Recovery, &enabled)
	return nil
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(g.Mode, middlewares...)
}

// Log contains the structured logging settings.
type Log struct {
	Level  string // one of debug, info, warn, or error
	Format string // either text or json
}

func (l *Log) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("parsing level %q: %w", l.Level, err)
	}
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", l.Format)
	}
	return nil
}

// Setup configures the default logger to write into w.
func (l Log) Setup(w io.Writer) error {
	return log.Setup(w, l.Level, l.Format)
}

// Lot contains the parking lot layout. SlotSizes and Distances have
// one item per slot and each distances list has one item per entry
// point, so entry points are named A, B, C, etc. in order.
type Lot struct {
	SlotSizes      []string `yaml:"slot-sizes"`
	Distances      [][]int
	EntryPoints    int  `yaml:"entry-points,omitempty"`
	MinEntryPoints *int `yaml:"min-entry-points,omitempty"`
}

func (l *Lot) ValidateAndNormalize() error {
	if l.EntryPoints == 0 && len(l.Distances) > 0 {
		l.EntryPoints = len(l.Distances[0])
	}
	minEntries := 3
	settings.OverwriteNil(&l.MinEntryPoints, &minEntries)
	one := 1
	err := settings.VerifyRange(
		"min-entry-points", l.MinEntryPoints, &one, nil,
	)
	if err != nil {
		return err
	}
	layout, err := l.Layout()
	if err != nil {
		return err
	}
	return layout.Validate(*l.MinEntryPoints)
}

// Layout converts the l settings to a model.Layout.
func (l Lot) Layout() (model.Layout, error) {
	layout := model.Layout{
		Sizes:     make([]model.Size, len(l.SlotSizes)),
		Distances: l.Distances,
		Entries:   make([]model.EntryPoint, l.EntryPoints),
	}
	for i, s := range l.SlotSizes {
		size, err := model.ParseSize(s)
		if err != nil {
			return model.Layout{}, fmt.Errorf("slot %d: %w", i, err)
		}
		layout.Sizes[i] = size
	}
	for i := range layout.Entries {
		layout.Entries[i] = model.EntryPoint(i)
	}
	return layout, nil
}

// Billing contains the parking fee settings. Missing settings take
// their default values from the billing package.
type Billing struct {
	Small            *float64
	Medium           *float64
	Large            *float64
	DayOver          *float64           `yaml:"day-over"`
	FlatFee          *float64           `yaml:"flat-fee"`
	FlatRateGrace    *settings.Duration `yaml:"flat-rate-grace"`
	ContinuityWindow *settings.Duration `yaml:"continuity-window"`
}

func (b *Billing) ValidateAndNormalize() error {
	defaults := billing.DefaultRates()
	settings.OverwriteNil(&b.Small, &defaults.Small)
	settings.OverwriteNil(&b.Medium, &defaults.Medium)
	settings.OverwriteNil(&b.Large, &defaults.Large)
	settings.OverwriteNil(&b.DayOver, &defaults.DayOver)
	zero := 0.0
	for name, rate := range map[string]*float64{
		"small": b.Small, "medium": b.Medium, "large": b.Large,
		"day-over": b.DayOver, "flat-fee": b.FlatFee,
	} {
		if err := settings.VerifyRange(name, rate, &zero, nil); err != nil {
			return err
		}
	}
	c, err := b.NewCalculator()
	if err != nil {
		return err
	}
	// record the effective values, so they may be logged or reported
	fee := c.FlatFee()
	grace := settings.Duration(c.FlatRateGrace())
	window := settings.Duration(c.ContinuityWindow())
	b.FlatFee, b.FlatRateGrace, b.ContinuityWindow = &fee, &grace, &window
	return nil
}

// NewCalculator instantiates a fee calculator based on the b settings.
func (b Billing) NewCalculator() (*billing.Calculator, error) {
	opts := make([]billing.Option, 0, 4)
	if b.Small != nil && b.Medium != nil && b.Large != nil && b.DayOver != nil {
		opts = append(opts, billing.WithRates(billing.Rates{
			Small:   *b.Small,
			Medium:  *b.Medium,
			Large:   *b.Large,
			DayOver: *b.DayOver,
		}))
	}
	if b.FlatFee != nil {
		opts = append(opts, billing.WithFlatFee(*b.FlatFee))
	}
	if b.FlatRateGrace != nil {
		d := time.Duration(*b.FlatRateGrace)
		opts = append(opts, billing.WithFlatRateGrace(d))
	}
	if b.ContinuityWindow != nil {
		d := time.Duration(*b.ContinuityWindow)
		opts = append(opts, billing.WithContinuityWindow(d))
	}
	return billing.New(opts...)
}

// Retention contains the settings of purging the vehicle records.
// Records of vehicles which have exited more than PurgeAfter ago are
// removed periodically based on the Schedule cron expression. An empty
// Schedule disables the periodic purge.
type Retention struct {
	PurgeAfter *settings.Duration `yaml:"purge-after"`
	Schedule   string
}

// ValidateAndNormalize validates the r settings. The purge-after
// duration may not be shorter than the billing continuity window,
// otherwise, returning vehicles could lose their billing lineage.
func (r *Retention) ValidateAndNormalize(window time.Duration) error {
	month := settings.Duration(30 * 24 * time.Hour)
	settings.OverwriteNil(&r.PurgeAfter, &month)
	minb := settings.Duration(window)
	err := settings.VerifyRange("purge-after", r.PurgeAfter, &minb, nil)
	if err != nil {
		return err
	}
	if r.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(r.Schedule); err != nil {
		return fmt.Errorf("parsing schedule %q: %w", r.Schedule, err)
	}
	return nil
}

// Metrics contains the Prometheus exporter settings.
type Metrics struct {
	Enabled *bool
	Path    string
}

func (m *Metrics) ValidateAndNormalize() error {
	enabled := true
	settings.OverwriteNil(&m.Enabled, &enabled)
	if m.Path == "" {
		m.Path = "/metrics"
	}
	if m.Path[0] != '/' {
		return errors.New("metrics path must start with /")
	}
	return nil
}
