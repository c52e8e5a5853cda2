// Package shell provides process invocation for beadworker's external
// collaborators (the beads tracker and the agent CLI).
//
// The Runner interface abstracts command execution for testability: the
// tracker and worker packages run against fakes without spawning processes.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"beadworker/internal/errors"
	"beadworker/internal/logging"
)

// Result holds the captured outcome of a completed process.
// Stdout and Stderr are whitespace-trimmed.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution.
//
// Implementations make exactly one attempt per call and block until the
// process exits; there is no timeout beyond ctx cancellation.
type Runner interface {
	// Run starts name with args, feeding input as the entire standard
	// input when non-empty, and captures both output streams. A non-zero
	// exit code is reported in the Result, not as an error. An error is
	// returned only when the process could not be started at all.
	Run(ctx context.Context, input string, name string, args ...string) (Result, error)
}

// ExecRunner executes commands using os/exec.
type ExecRunner struct {
	logger *logging.Logger
}

// NewExecRunner creates a runner that logs invocation failures.
func NewExecRunner(logger *logging.Logger) *ExecRunner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &ExecRunner{logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, input string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		r.logger.Error("failed to invoke command",
			"command", commandLine(name, args),
			"error", err.Error())
		return Result{}, fmt.Errorf("%w: %s: %v", errors.ErrInvocationFailed, name, err)
	}

	return result, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
