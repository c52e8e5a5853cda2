package shell

import (
	"context"
	"testing"

	"beadworker/internal/errors"
	"beadworker/internal/logging"
)

func TestRunCapturesTrimmedOutput(t *testing.T) {
	runner := NewExecRunner(logging.NopLogger())

	result, err := runner.Run(context.Background(), "", "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "hello" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello")
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
}

func TestRunReportsNonZeroExit(t *testing.T) {
	runner := NewExecRunner(logging.NopLogger())

	result, err := runner.Run(context.Background(), "", "sh", "-c", "echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for non-zero exit", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Stderr != "oops" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "oops")
	}
}

func TestRunFeedsStdin(t *testing.T) {
	runner := NewExecRunner(logging.NopLogger())

	result, err := runner.Run(context.Background(), "from stdin\n", "cat")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "from stdin" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "from stdin")
	}
}

func TestRunMissingExecutable(t *testing.T) {
	runner := NewExecRunner(logging.NopLogger())

	_, err := runner.Run(context.Background(), "", "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Fatal("Run() error = nil, want invocation failure")
	}
	if !errors.Is(err, errors.ErrInvocationFailed) {
		t.Errorf("Is(err, ErrInvocationFailed) = false, want true (err = %v)", err)
	}
}
