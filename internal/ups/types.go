// Package ups reads UPS telemetry from an apcupsd network information
// server (NIS).
package ups

import (
	"context"
	"errors"
)

// ErrEmptyStatus is returned when the daemon answered without any
// KEY : VALUE lines.
var ErrEmptyStatus = errors.New("ups: empty status response")

// Snapshot is one poll of the UPS: status key to raw string value, with
// unit suffixes already stripped.
type Snapshot map[string]string

// Source defines the interface for polling UPS status.
type Source interface {
	Status(ctx context.Context) (Snapshot, error)
}
