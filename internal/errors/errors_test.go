package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestTrackerErrorMessage(t *testing.T) {
	err := NewTrackerError("failed to list ready tasks", ErrMalformedPayload).
		WithCommand("bd ready --json").
		WithOutput("unexpected end of JSON input")

	msg := err.Error()
	if !strings.Contains(msg, "tracker error") {
		t.Errorf("Error() = %q, want tracker error prefix", msg)
	}
	if !strings.Contains(msg, "cmd=bd ready --json") {
		t.Errorf("Error() = %q, want command context", msg)
	}
	if !strings.Contains(msg, "unexpected end of JSON input") {
		t.Errorf("Error() = %q, want tracker output", msg)
	}
}

func TestTrackerErrorUnwrap(t *testing.T) {
	err := NewTrackerError("failed to fetch detail", ErrMalformedPayload).WithTaskID("bd-7")

	if !Is(err, ErrMalformedPayload) {
		t.Error("Is(err, ErrMalformedPayload) = false, want true")
	}

	var trackerErr *TrackerError
	if !As(err, &trackerErr) {
		t.Fatal("As(err, *TrackerError) = false, want true")
	}
	if trackerErr.TaskID != "bd-7" {
		t.Errorf("TaskID = %q, want %q", trackerErr.TaskID, "bd-7")
	}
}

func TestAgentErrorMessage(t *testing.T) {
	err := NewAgentError("failed to start agent", ErrInvocationFailed).
		WithCommand("gemini --yolo").
		WithTaskID("bd-3")

	msg := err.Error()
	if !strings.Contains(msg, "agent error [cmd=gemini --yolo, task=bd-3]") {
		t.Errorf("Error() = %q, want full context prefix", msg)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"tracker not found", ErrTrackerNotFound, true},
		{"not a git repository", ErrNotGitRepository, true},
		{"task vanished", ErrTaskVanished, true},
		{"task not closed", ErrTaskNotClosed, true},
		{"wrapped task not closed", fmt.Errorf("verify bd-5: %w", ErrTaskNotClosed), true},
		{"malformed payload", ErrMalformedPayload, false},
		{"invocation failed", ErrInvocationFailed, false},
		{"plain error", New("boom"), false},
		{"tracker error default", NewTrackerError("list failed", nil), false},
		{"tracker error fatal", NewTrackerError("verify failed", ErrTaskVanished).WithFatal(), true},
		{"agent error", NewAgentError("start failed", ErrInvocationFailed), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
			if tt.err != nil {
				if got := IsTransient(tt.err); got == tt.want {
					t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, !tt.want)
				}
			}
		})
	}
}
