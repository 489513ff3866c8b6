// Package exporter runs the poll, transform and write loop that moves UPS
// telemetry into InfluxDB.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jamesprial/apcupsd-influx/internal/audit"
	"github.com/jamesprial/apcupsd-influx/internal/config"
	"github.com/jamesprial/apcupsd-influx/internal/influx"
	"github.com/jamesprial/apcupsd-influx/internal/schema"
	"github.com/jamesprial/apcupsd-influx/internal/ups"
)

// Phase is the database connection state of the exporter.
type Phase int

const (
	Disconnected Phase = iota
	Connected
)

func (p Phase) String() string {
	switch p {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var errPingFailed = errors.New("influxdb ping reported not ready")

// state is the connection state. store and writer are only set when phase
// is Connected.
type state struct {
	phase  Phase
	store  influx.Store
	writer influx.Writer
}

// Exporter polls a UPS source and writes one point per cycle.
type Exporter struct {
	source  ups.Source
	connect influx.Connector
	schema  *schema.Schema
	influx  config.InfluxConfig
	logger  *slog.Logger
	audit   *audit.Logger

	interval time.Duration
	nominal  int64

	state state

	// sleep waits between cycles; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New builds an Exporter. auditLog may be nil.
func New(cfg *config.Config, source ups.Source, connect influx.Connector, s *schema.Schema, logger *slog.Logger, auditLog *audit.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		source:   source,
		connect:  connect,
		schema:   s,
		influx:   cfg.Influx,
		logger:   logger.With("component", "exporter"),
		audit:    auditLog,
		interval: cfg.UPS.Interval(),
		nominal:  int64(cfg.UPS.NominalPower),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Phase reports the current connection state.
func (e *Exporter) Phase() Phase {
	return e.state.phase
}

// Run blocks until ctx is cancelled. The database connection is
// established with a fixed retry interval and then held for the life of
// the loop; UPS and write failures only cost the current cycle.
func (e *Exporter) Run(ctx context.Context) error {
	defer e.close()

	for {
		if e.state.phase == Disconnected {
			if err := e.establish(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}

		e.cycle(ctx)

		if err := e.sleep(ctx, e.interval); err != nil {
			return nil
		}
	}
}

// establish retries the database connection every interval until it
// succeeds or ctx is cancelled.
func (e *Exporter) establish(ctx context.Context) error {
	backoff := retry.NewConstant(e.interval)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		start := time.Now()
		err := e.tryConnect(ctx)
		audit.Record(e.audit, audit.PhaseConnect, err, start)
		if err != nil {
			e.logger.Warn("could not connect to influxdb, retrying",
				"url", e.influx.URL(), "retry_in", e.interval, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (e *Exporter) tryConnect(ctx context.Context) error {
	store, err := e.connect(e.influx)
	if err != nil {
		return fmt.Errorf("create influxdb client: %w", err)
	}

	ok, err := store.Ping(ctx)
	if err != nil || !ok {
		store.Close()
		if err == nil {
			err = errPingFailed
		}
		return fmt.Errorf("ping %s: %w", e.influx.URL(), err)
	}

	e.ensureBucket(ctx, store)

	e.state = state{
		phase:  Connected,
		store:  store,
		writer: store.Writer(e.influx.Bucket),
	}
	e.logger.Info("connected to influxdb", "url", e.influx.URL(), "bucket", e.influx.Bucket)
	return nil
}

// ensureBucket creates the configured bucket when it does not exist. All
// failures are logged; writes may still succeed if the bucket appears later.
func (e *Exporter) ensureBucket(ctx context.Context, store influx.Store) {
	bucket := e.influx.Bucket

	found, err := store.FindBucket(ctx, bucket)
	if err != nil {
		e.logger.Error("could not look up bucket", "bucket", bucket, "error", err)
		return
	}
	if found {
		e.logger.Debug("bucket exists", "bucket", bucket)
		return
	}

	if err := store.CreateBucket(ctx, bucket); err != nil {
		e.logger.Error("could not create bucket", "bucket", bucket, "org", e.influx.Org, "error", err)
		return
	}
	e.logger.Info("created bucket", "bucket", bucket, "org", e.influx.Org)
}

// cycle performs one poll and write. It never fails; problems are logged
// and the point, if any, is dropped.
func (e *Exporter) cycle(ctx context.Context) {
	start := time.Now()

	snap, err := e.source.Status(ctx)
	if err != nil {
		audit.Record(e.audit, audit.PhasePoll, err, start)
		e.logPollError(err)
		return
	}

	res := schema.Transform(snap, e.schema, e.nominal)
	e.nominal = res.NominalPower

	if res.NominalPowerMissing {
		e.logger.Warn("nominal power unknown, WATTS will be 0; set APCUPSD_NOMINAL_POWER")
	}
	for key, convErr := range res.Skipped {
		e.logger.Warn("skipping unconvertible value", "key", key, "value", snap[key], "error", convErr)
	}

	point := influx.Point{
		Measurement: e.influx.Measurement,
		Tags:        res.Tags,
		Fields:      res.Fields,
		Time:        e.now().UTC(),
	}

	err = e.state.writer.WritePoint(ctx, point)
	watts := res.Watts
	audit.RecordEntry(e.audit, audit.Entry{
		Timestamp: start,
		Phase:     audit.PhaseWrite,
		Fields:    len(res.Fields),
		Watts:     &watts,
	}, err)
	if err != nil {
		e.logger.Error("failed to write point", "bucket", e.influx.Bucket, "error", err)
		return
	}

	e.logger.Debug("point written", "watts", res.Watts, "fields", len(res.Fields), "tags", len(res.Tags))
}

func (e *Exporter) logPollError(err error) {
	switch {
	case ups.IsTimeout(err):
		e.logger.Warn("UPS poll timed out", "error", err)
	case ups.IsRefused(err):
		e.logger.Warn("UPS refused the connection", "error", err)
	default:
		e.logger.Error("UPS poll failed", "error", err)
	}
}

func (e *Exporter) close() {
	if e.state.store != nil {
		e.state.store.Close()
	}
	e.state = state{}
	e.logger.Info("exporter stopped")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
