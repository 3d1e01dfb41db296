// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the parking
// lot web project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database management actions and
// the "demo" sub-command runs a fixed parking scenario in memory.
//
//	./plweb [-c /path/of/main/config.yaml]      # start web server
//	./plweb db init [-c /path/of/main/config.yaml]
//	./plweb db purge [-c /path/of/main/config.yaml]
//	./plweb demo
//
// A .env file in the working directory (if any) is loaded before the
// configuration file, so it may set CONFIG_FILE or DATABASE_URL.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/momeni/parking-lot/pkg/adapter/config"
	"github.com/momeni/parking-lot/pkg/adapter/metrics/prom"
	"github.com/momeni/parking-lot/pkg/adapter/restful/gin/routes"
	"github.com/momeni/parking-lot/pkg/core/log"
	"github.com/momeni/parking-lot/pkg/core/usecase/lotuc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "plweb",
	Short: "An automated parking lot web service",
	Long: `An automated parking lot web service which assigns the nearest
free and fitting slot to each arriving vehicle, based on its entry
point, and computes the parking fee when it leaves.
Fees consist of a flat fee for the first hours, hourly rates of the
occupied slot size afterwards, and a daily rate for whole days. Vehicles
which return shortly after leaving continue their billing lineage, so
they are not charged the flat fee again.
The lot state is kept in a PostgreSQL database (or in memory) and the
REST APIs are served using the Gin Gonic web framework while metrics
are exported for Prometheus.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := c.Database.NewStore(ctx)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()
	var opts []lotuc.Option
	reg := prometheus.NewRegistry()
	if *c.Metrics.Enabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(
				collectors.ProcessCollectorOpts{},
			),
		)
		rec, err := prom.NewRecorder(reg)
		if err != nil {
			return fmt.Errorf("creating metrics recorder: %w", err)
		}
		opts = append(opts, lotuc.WithRecorder(rec))
	}
	lot, err := c.NewLot(ctx, s, opts...)
	if err != nil {
		return fmt.Errorf("creating lot: %w", err)
	}
	e := c.Gin.NewEngine()
	routes.Register(e, lot, time.Now)
	if *c.Metrics.Enabled {
		routes.RegisterMetrics(e, c.Metrics.Path, prom.Handler(reg))
	}
	if sched := c.Retention.Schedule; sched != "" {
		cr := cron.New()
		_, err = cr.AddFunc(sched, func() {
			if _, err := purge(ctx, lot, c); err != nil {
				log.Error(ctx, "scheduled purge failed", log.Err("err", err))
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling purge: %w", err)
		}
		cr.Start()
		defer func() { <-cr.Stop().Done() }()
	}
	srv := &http.Server{Addr: c.Gin.Address, Handler: e}
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving", slog.String("address", srv.Addr))
		errs <- srv.ListenAndServe()
	}()
	select {
	case err = <-errs:
		return fmt.Errorf("running Gin engine: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	ctx2, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	if err = srv.Shutdown(ctx2); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err = <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadConfig loads the cfgPath configuration file and installs the
// default logger accordingly.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = c.Log.Setup(os.Stderr); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	return c, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadEnv, fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// loadEnv loads the .env file of the working directory, if it exists.
// Variables which are set already are not overridden.
func loadEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env file: %v\n", err)
	}
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
