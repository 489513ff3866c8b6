package ups

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"time"
)

// errCommandTooLong is returned for a command that does not fit the
// 16-bit length prefix.
var errCommandTooLong = errors.New("ups: command exceeds 65535 bytes")

// request sends cmd over conn and returns the concatenated response
// records. Every NIS message is a 2-byte big-endian length followed by the
// payload; the daemon ends a response with a zero-length record. timeout
// bounds each read and write; ctx may tighten it.
func request(ctx context.Context, conn net.Conn, cmd string, timeout time.Duration) ([]byte, error) {
	if err := conn.SetDeadline(deadline(ctx, timeout)); err != nil {
		return nil, err
	}
	if err := writeRecord(conn, cmd); err != nil {
		return nil, fmt.Errorf("send %q: %w", cmd, err)
	}

	resp, err := readRecords(conn, func() error {
		return conn.SetReadDeadline(deadline(ctx, timeout))
	})
	if err != nil {
		return nil, fmt.Errorf("read %q response: %w", cmd, err)
	}
	return resp, nil
}

func writeRecord(w io.Writer, payload string) error {
	if len(payload) > math.MaxUint16 {
		return errCommandTooLong
	}

	frame := binary.BigEndian.AppendUint16(make([]byte, 0, 2+len(payload)), uint16(len(payload)))
	frame = append(frame, payload...)

	_, err := w.Write(frame)
	return err
}

// readRecords reads length-prefixed records until the zero-length
// terminator. beforeRead, when set, runs ahead of every record so that a
// slow daemon gets a fresh deadline per record.
func readRecords(r io.Reader, beforeRead func() error) ([]byte, error) {
	var (
		out bytes.Buffer
		hdr [2]byte
	)

	for {
		if beforeRead != nil {
			if err := beforeRead(); err != nil {
				return nil, err
			}
		}

		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint16(hdr[:])
		if n == 0 {
			return out.Bytes(), nil
		}

		if _, err := io.CopyN(&out, r, int64(n)); err != nil {
			return nil, err
		}
	}
}

// deadline is now+timeout, or ctx's deadline if that comes first.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}
