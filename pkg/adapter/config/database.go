// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/config/settings"
	"github.com/momeni/parking-lot/pkg/adapter/db/memory"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/slotsrp"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/parking-lot/pkg/core/repo"
)

// Database contains the persistence store settings. Either the URL or
// the Host, Port, Name, User, and PassFile settings identify a
// PostgreSQL database, unless Memory is set which selects the
// in-memory store.
type Database struct {
	URL      string `yaml:"url,omitempty"`
	Host     string `yaml:"host,omitempty"` // domain name or IP address
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name,omitempty"`      // database name
	User     string `yaml:"user,omitempty"`      // database role name
	PassFile string `yaml:"pass-file,omitempty"` // path of a pgpass file

	// Memory selects the in-memory store. It defaults to true if no
	// PostgreSQL connection information is given.
	Memory *bool `yaml:"memory,omitempty"`

	// SlowThreshold is the duration which causes a statement to be
	// reported as a slow query.
	SlowThreshold *settings.Duration `yaml:"slow-threshold,omitempty"`
}

// ValidateAndNormalize validates the d settings and fills their
// defaults.
func (d *Database) ValidateAndNormalize() error {
	hasPG := d.URL != "" || d.Host != ""
	if d.Memory == nil {
		inMemory := !hasPG
		d.Memory = &inMemory
	}
	switch {
	case *d.Memory && hasPG:
		return errors.New("memory store needs no url or host")
	case d.URL != "" && d.Host != "":
		return errors.New("url and host are mutually exclusive")
	case d.Host != "" && (d.Name == "" || d.User == ""):
		return errors.New("host needs name and user settings")
	}
	if d.Host != "" && d.Port == 0 {
		d.Port = 5432
	}
	slow := settings.Duration(200 * time.Millisecond)
	settings.OverwriteNil(&d.SlowThreshold, &slow)
	minSlow := settings.Duration(time.Millisecond)
	return settings.VerifyRange(
		"slow-threshold", d.SlowThreshold, &minSlow, nil,
	)
}

// ConnectionURL returns the PostgreSQL connection URL. If the URL
// setting is empty, it is computed from the host, port, name, and user
// settings while the password is read from the PassFile. That file may
// contain empty or `#`-commented lines in addition to the password
// specifying lines which should conform with the pgpass files format:
//
//	host:port:dbname:role:password
func (d Database) ConnectionURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" {
		return "", errors.New("no postgres connection information")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.User(d.User),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	if d.PassFile == "" {
		return u.String(), nil
	}
	passLines, err := os.ReadFile(d.PassFile)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", errors.New("no matching password line")
	}
	u.User = url.UserPassword(d.User, pass)
	return u.String(), nil
}

// PostgresPool connects to the PostgreSQL database. Caller is
// responsible to close the returned pool.
func (d Database) PostgresPool(ctx context.Context) (*postgres.Pool, error) {
	u, err := d.ConnectionURL()
	if err != nil {
		return nil, err
	}
	return postgres.NewPool(ctx, u, d.SlowThreshold.Std(time.Second))
}

// Store groups the connection pool and repositories of the configured
// persistence store.
type Store struct {
	Pool     repo.Pool
	Vehicles repo.Vehicles
	Slots    repo.Slots

	close func() error
}

// Close releases the store resources.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStore instantiates the configured persistence store. A PostgreSQL
// database must be initialized beforehand (see the plweb db init
// command) and its schema major version must be supported.
func (d Database) NewStore(ctx context.Context) (*Store, error) {
	if *d.Memory {
		return &Store{
			Pool:     memory.NewPool(),
			Vehicles: memory.NewVehicles(),
			Slots:    memory.NewSlots(),
		}, nil
	}
	p, err := d.PostgresPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return schemarp.New().Conn(c).CheckVersion(ctx)
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return &Store{
		Pool:     p,
		Vehicles: vehiclesrp.New(),
		Slots:    slotsrp.New(),
		close:    p.Close,
	}, nil
}
