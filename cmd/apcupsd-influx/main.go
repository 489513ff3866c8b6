// Package main is the entry point for the apcupsd-influx exporter.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jamesprial/apcupsd-influx/internal/audit"
	"github.com/jamesprial/apcupsd-influx/internal/config"
	"github.com/jamesprial/apcupsd-influx/internal/exporter"
	"github.com/jamesprial/apcupsd-influx/internal/influx"
	"github.com/jamesprial/apcupsd-influx/internal/logging"
	"github.com/jamesprial/apcupsd-influx/internal/schema"
	"github.com/jamesprial/apcupsd-influx/internal/ups"
)

const defaultConfigPath = "/config/config.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, loadErr := loadConfig()
	envErr := config.ApplyEnvOverrides(cfg)

	logger := logging.New(cfg.Debug)
	slog.SetDefault(logger)

	if loadErr != nil {
		logger.Error("could not load config file", "error", loadErr)
		return 1
	}
	if envErr != nil {
		logger.Error("invalid environment", "error", envErr)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	fieldSchema := schema.Default()

	logger.Info("starting apcupsd-influx",
		"ups", cfg.UPS.Address(),
		"poll_rate", cfg.UPS.Interval(),
		"nominal_power", cfg.UPS.NominalPower,
		"influxdb", cfg.Influx.URL(),
		"bucket", cfg.Influx.Bucket,
		"measurement", cfg.Influx.Measurement,
		"org", cfg.Influx.Org,
		"tags", fieldSchema.TagKeys(),
		"debug", cfg.Debug,
	)

	// Open audit journal if enabled.
	var journal *audit.Logger
	if cfg.Audit.LogPath != "" {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logger.Warn("could not open audit log, journal disabled", "path", cfg.Audit.LogPath, "error", err)
		} else {
			journal = audit.NewLogger(f)
			defer f.Close()
		}
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := ups.NewNISSource(cfg.UPS.Address(), cfg.UPS.TimeoutDuration())
	exp := exporter.New(cfg, source, influx.Connect, fieldSchema, logger, journal)

	if err := exp.Run(ctx); err != nil {
		logger.Error("exporter stopped", "error", err)
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}

// loadConfig reads the YAML file named by APCUPSD_INFLUX_CONFIG or the
// default /config/config.yaml. A missing file yields DefaultConfig; any
// other read or parse failure is returned alongside the defaults.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("APCUPSD_INFLUX_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.DefaultConfig(), nil
		}
		return config.DefaultConfig(), err
	}
	return cfg, nil
}
