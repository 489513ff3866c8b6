package ups

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// Compile-time interface check.
var _ Source = (*NISSource)(nil)

// NISSource implements Source by opening a fresh NIS connection for every
// poll, the same way apcaccess does.
type NISSource struct {
	address string
	timeout time.Duration
}

// NewNISSource returns a NISSource for the daemon at address (host:port).
// timeout bounds the dial and every read and write.
func NewNISSource(address string, timeout time.Duration) *NISSource {
	if address == "" {
		panic("ups: address must not be empty")
	}
	return &NISSource{address: address, timeout: timeout}
}

// Status requests the daemon's status and parses it into a Snapshot.
func (s *NISSource) Status(ctx context.Context) (Snapshot, error) {
	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.address, err)
	}
	defer func() { _ = conn.Close() }()

	raw, err := request(ctx, conn, "status", s.timeout)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", s.address, err)
	}

	snap, err := ParseStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", s.address, err)
	}
	return snap, nil
}

// IsTimeout reports whether err is a network or context timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// IsRefused reports whether err is a refused TCP connection.
func IsRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
