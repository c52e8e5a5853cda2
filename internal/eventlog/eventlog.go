// Package eventlog appends machine-readable loop events to a per-run JSONL
// file. The log is write-only diagnostics for post-hoc analysis; the loop
// never reads it back and holds no state of its own.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted over one run of the loop.
const (
	TypeRunStarted   = "run_started"
	TypeTaskSelected = "task_selected"
	TypeDecomposed   = "task_decomposed"
	TypeExecuted     = "task_executed"
	TypeVerified     = "task_verified"
	TypeSkipped      = "task_skipped"
	TypeRunFinished  = "run_finished"
)

// Event is one record in the run's event stream.
type Event struct {
	RunID     string `json:"run_id"`
	Level     string `json:"level"`
	EventType string `json:"event_type"`
	TaskID    string `json:"task_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Sink receives loop events. The zero-value-friendly NopSink discards them.
type Sink interface {
	Emit(event Event) error
}

// NewRunID returns a fresh identifier for one run of the loop.
func NewRunID() string {
	return "run-" + uuid.NewString()
}

// EventLog appends events to a JSONL file. Safe for concurrent use.
type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

// New opens (creating if needed) the event log at dir/<runID>.jsonl.
func New(dir, runID string) (*EventLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}

	path := filepath.Join(dir, runID+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	return &EventLog{file: file}, nil
}

// Emit implements Sink, appending one timestamped JSON line.
func (l *EventLog) Emit(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload := struct {
		TS string `json:"ts"`
		Event
	}{
		TS:    time.Now().UTC().Format(time.RFC3339),
		Event: event,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return err
	}

	return nil
}

// Close closes the underlying file. Safe to call on a nil log.
func (l *EventLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Event) error { return nil }
