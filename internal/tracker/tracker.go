// Package tracker adapts the external beads tracker CLI (`bd`) into typed
// task records. The tracker owns all task state; this package only reads
// snapshots of it. Mutation happens indirectly, by the agent invoking the
// tracker's close operation.
package tracker

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"beadworker/internal/errors"
	"beadworker/internal/logging"
	"beadworker/internal/shell"
)

// Task statuses reported by the tracker. Only the closed status matters to
// the loop; everything else counts as "not done".
const (
	StatusClosed = "closed"
)

// Issue types that trigger decomposition instead of execution.
const (
	IssueTypeEpic    = "epic"
	IssueTypeFeature = "feature"
)

// UnsetPriority is the effective priority of a task whose priority field is
// absent. It sorts after every real priority band, so such tasks are never
// selected while banded work exists.
const UnsetPriority = 999

// Task is a read-only snapshot of a tracker task. Snapshots are fetched
// fresh every loop iteration and never trusted across an agent invocation.
type Task struct {
	ID        string `json:"id"`
	Priority  *int   `json:"priority,omitempty"`
	IssueType string `json:"issue_type"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

// EffectivePriority returns the task's priority, or UnsetPriority when the
// tracker omitted the field.
func (t Task) EffectivePriority() int {
	if t.Priority == nil {
		return UnsetPriority
	}
	return *t.Priority
}

// IsComposite reports whether the task should be decomposed rather than
// executed directly.
func (t Task) IsComposite() bool {
	return t.IssueType == IssueTypeEpic || t.IssueType == IssueTypeFeature
}

// Store is the read-side contract with the task tracker. Implementations
// must treat every call as a fresh query; results are never cached.
type Store interface {
	// Ready returns the tasks the tracker currently considers unblocked
	// and actionable. Implementations degrade to an empty slice on
	// transient failures rather than returning an error.
	Ready(ctx context.Context) ([]Task, error)

	// Show returns the full detail record for a single task id, or nil
	// when the task is unavailable (missing, malformed, or the query
	// failed).
	Show(ctx context.Context, id string) (*Task, error)
}

// BeadsClient queries the beads tracker CLI.
type BeadsClient struct {
	command string
	runner  shell.Runner
	logger  *logging.Logger
}

// NewBeadsClient creates a client for the given tracker command (normally
// "bd").
func NewBeadsClient(command string, runner shell.Runner, logger *logging.Logger) *BeadsClient {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &BeadsClient{command: command, runner: runner, logger: logger}
}

// EnsureInstalled verifies the tracker executable is locatable. Without it
// no task can ever be selected, so callers treat a failure as fatal.
func (c *BeadsClient) EnsureInstalled() error {
	if _, err := exec.LookPath(c.command); err != nil {
		return errors.NewTrackerError("tracker executable not on PATH", errors.ErrTrackerNotFound).
			WithCommand(c.command).
			WithFatal()
	}
	return nil
}

// Ready implements Store. Non-zero exits and decode failures are logged and
// reported as "no work" so the loop can recover on its next iteration.
func (c *BeadsClient) Ready(ctx context.Context) ([]Task, error) {
	result, err := c.runner.Run(ctx, "", c.command, "ready", "--json")
	if err != nil {
		c.logger.Error("failed to query ready tasks", "error", err.Error())
		return nil, nil
	}
	if result.ExitCode != 0 {
		c.logger.Error("tracker ready query failed",
			"exit_code", result.ExitCode,
			"stderr", result.Stderr)
		return nil, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(result.Stdout), &tasks); err != nil {
		c.logger.Error("failed to decode ready tasks",
			"error", err.Error(),
			"output", truncate(result.Stdout, 512))
		return nil, nil
	}

	return tasks, nil
}

// Show implements Store. The tracker returns a JSON array with zero or one
// record; empty, malformed, and failed responses all yield nil.
func (c *BeadsClient) Show(ctx context.Context, id string) (*Task, error) {
	result, err := c.runner.Run(ctx, "", c.command, "show", id, "--json")
	if err != nil {
		c.logger.Error("failed to query task detail", "task_id", id, "error", err.Error())
		return nil, nil
	}
	if result.ExitCode != 0 {
		c.logger.Error("tracker show query failed",
			"task_id", id,
			"exit_code", result.ExitCode,
			"stderr", result.Stderr)
		return nil, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(result.Stdout), &tasks); err != nil {
		c.logger.Error("failed to decode task detail",
			"task_id", id,
			"error", err.Error())
		return nil, nil
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	return &tasks[0], nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
