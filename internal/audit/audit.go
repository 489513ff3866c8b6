// Package audit keeps an optional journal of exporter cycles as
// newline-delimited JSON.
package audit

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrNilWriter is returned by Logger.Log when the logger was constructed
// with a nil writer.
var ErrNilWriter = errors.New("audit logger: writer is nil")

// Phases of an exporter cycle.
const (
	PhaseConnect = "connect"
	PhasePoll    = "poll"
	PhaseWrite   = "write"
)

// Entry captures the outcome of one cycle.
type Entry struct {
	Timestamp time.Time     `json:"timestamp"`
	Phase     string        `json:"phase"`
	Result    string        `json:"result"`
	Fields    int           `json:"fields,omitempty"`
	Watts     *int64        `json:"watts,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Logger writes Entry records as newline-delimited JSON to an io.Writer.
// It is safe for concurrent use.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger returns a Logger that writes to w. If w is nil the returned
// logger is also nil.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		return nil
	}
	return &Logger{w: w}
}

// Log serialises entry as a single JSON line and writes it to the underlying
// writer.
func (l *Logger) Log(entry Entry) error {
	if l == nil || l.w == nil {
		return ErrNilWriter
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	data = append(data, '\n')

	l.mu.Lock()
	_, err = l.w.Write(data)
	l.mu.Unlock()

	return err
}

// Record logs a cycle outcome, silently ignoring a nil logger. A nil err
// records "ok".
func Record(l *Logger, phase string, err error, start time.Time) {
	RecordEntry(l, Entry{Timestamp: start, Phase: phase}, err)
}

// RecordEntry is Record with extra details already filled into e.
func RecordEntry(l *Logger, e Entry, err error) {
	if l == nil {
		return
	}
	e.Result = "ok"
	if err != nil {
		e.Result = "error: " + err.Error()
	}
	e.Duration = time.Since(e.Timestamp)
	_ = l.Log(e)
}
