package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("NewRunID() returned duplicate %q", a)
	}
	if !strings.HasPrefix(a, "run-") {
		t.Errorf("NewRunID() = %q, want run- prefix", a)
	}
}

func TestEmitAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()

	log, err := New(dir, runID)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	events := []Event{
		{RunID: runID, Level: "info", EventType: TypeRunStarted},
		{RunID: runID, Level: "info", EventType: TypeTaskSelected, TaskID: "bd-5", Payload: map[string]any{"priority": 0}},
		{RunID: runID, Level: "error", EventType: TypeRunFinished, Payload: "task bd-5 was not closed"},
	}
	for _, event := range events {
		if err := log.Emit(event); err != nil {
			t.Fatalf("Emit(%v) error = %v", event.EventType, err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, runID+".jsonl"))
	if err != nil {
		t.Fatalf("failed to open event log: %v", err)
	}
	defer f.Close()

	var decoded []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		decoded = append(decoded, entry)
	}

	if len(decoded) != len(events) {
		t.Fatalf("event log has %d lines, want %d", len(decoded), len(events))
	}
	if decoded[1]["event_type"] != TypeTaskSelected {
		t.Errorf("event_type = %v, want %q", decoded[1]["event_type"], TypeTaskSelected)
	}
	if decoded[1]["task_id"] != "bd-5" {
		t.Errorf("task_id = %v, want %q", decoded[1]["task_id"], "bd-5")
	}
	if decoded[0]["ts"] == nil {
		t.Error("events missing ts field")
	}
}

func TestCloseNilSafe(t *testing.T) {
	var log *EventLog
	if err := log.Close(); err != nil {
		t.Errorf("Close() on nil log error = %v", err)
	}
}
