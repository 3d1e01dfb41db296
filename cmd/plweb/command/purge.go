// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/parking-lot/pkg/adapter/config"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove the old vehicle records",
	Long: `Remove the records of vehicles which have exited more than the
retention purge-after duration ago. Records of parked vehicles are kept.
Since the purge-after duration may not be shorter than the continuity
window, removed vehicles would not continue their billing lineage.`,
	RunE: purgeDB,
	Args: cobra.NoArgs,
}

func purgeDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := c.Database.NewStore(ctx)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()
	lot, err := c.NewLot(ctx, s)
	if err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}
	n, err := purge(ctx, lot, c)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d vehicle records\n", n)
	return nil
}

func purge(
	ctx context.Context, lot *lotuc.UseCase, c *config.Config,
) (int64, error) {
	before := time.Now().Add(-c.Retention.PurgeAfter.Std(0))
	return lot.Purge(ctx, before)
}

func init() {
	dbCmd.AddCommand(purgeCmd)
}
