// Package influx writes UPS telemetry points to InfluxDB v2.
package influx

import (
	"context"
	"time"

	"github.com/jamesprial/apcupsd-influx/internal/config"
)

// Point is one time-stamped, tagged record.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Time        time.Time
}

// Writer writes points to a single bucket.
type Writer interface {
	WritePoint(ctx context.Context, p Point) error
}

// Store defines the database operations the exporter needs.
type Store interface {
	Ping(ctx context.Context) (bool, error)
	FindBucket(ctx context.Context, name string) (bool, error)
	CreateBucket(ctx context.Context, name string) error
	Writer(bucket string) Writer
	Close()
}

// Connector constructs a Store. The exporter calls it every time it has
// to (re)establish the database connection.
type Connector func(cfg config.InfluxConfig) (Store, error)
