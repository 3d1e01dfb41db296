// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/parking-lot/pkg/adapter/db/postgres"
	"github.com/momeni/parking-lot/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/repo"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database tables",
	Long: `Initialize the database tables, creating the vehicles and
occupied slots tables if they do not exist, and record the database
schema version. The database connection information are read from the
config file. Existing records are kept intact, so it is safe to run the
init command on an initialized database with the same major version.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if *c.Database.Memory {
		return errors.New("in-memory store needs no initialization")
	}
	p, err := c.Database.PostgresPool(ctx)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return schemarp.New().Tx(tx).Init(ctx)
		})
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	log.Info(
		ctx, "database is initialized",
		slog.String("version", postgres.Version.String()),
	)
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
}
