// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the plweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// are validated again by the relevant end-component (such as a UseCase
// instance).
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/parking-lot/pkg/core/cerr"
	"github.com/momeni/parking-lot/pkg/core/model"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// DatabaseURLEnv is the environment variable which overrides the
// database.url setting, e.g., as loaded from a .env file.
const DatabaseURLEnv = "DATABASE_URL"

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented
// with primitive fields or structs which are defined locally, so the
// configuration file format can be kept intact while other layers
// change freely.
type Config struct {
	Version   model.SemVer // version of the configuration file format
	Database  Database     // persistence store settings
	Gin       Gin          // Gin-Gonic instantiation settings
	Log       Log          // structured logging settings
	Lot       Lot          // parking lot layout
	Billing   Billing      // parking fee rates and rules
	Retention Retention    // purging of the old vehicle records
	Metrics   Metrics      // Prometheus metrics exporter settings
}

// Load reads the path configuration file and loads it using the Parse
// function.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. The DATABASE_URL environment variable (if set) overrides
// the database.url setting. Thereafter, loaded Config will be validated
// and normalized in order to ensure that provided settings are
// acceptable (for example the major version which is reported by data
// settings must match with number 1).
func Parse(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	if u := os.Getenv(DatabaseURLEnv); u != "" {
		c.Database.URL = u
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if c.Version.Major() != Major {
		return fmt.Errorf(
			"unsupported config version: %w",
			&cerr.MismatchingSemVerError{Version, c.Version},
		)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Gin.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating gin settings: %w", err)
	}
	if err := c.Log.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating log settings: %w", err)
	}
	if err := c.Lot.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating lot settings: %w", err)
	}
	if err := c.Billing.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating billing settings: %w", err)
	}
	window := c.Billing.ContinuityWindow.Std(0)
	if err := c.Retention.ValidateAndNormalize(window); err != nil {
		return fmt.Errorf("validating retention settings: %w", err)
	}
	if err := c.Metrics.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating metrics settings: %w", err)
	}
	return nil
}

// NewLot instantiates a lot use case with the c layout and billing
// settings, persisting its state in the s store. Further options, like
// a metrics recorder, may be passed as opts.
func (c *Config) NewLot(
	ctx context.Context, s *Store, opts ...lotuc.Option,
) (*lotuc.UseCase, error) {
	layout, err := c.Lot.Layout()
	if err != nil {
		return nil, err
	}
	calc, err := c.Billing.NewCalculator()
	if err != nil {
		return nil, err
	}
	opts = append(
		opts,
		lotuc.WithMinEntryPoints(*c.Lot.MinEntryPoints),
		lotuc.WithCalculator(calc),
	)
	return lotuc.New(ctx, s.Pool, s.Vehicles, s.Slots, layout, opts...)
}
