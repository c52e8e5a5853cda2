// Package errors provides centralized error definitions and error handling
// utilities for beadworker. It defines domain-specific errors for the two
// external collaborators (the beads tracker and the agent CLI), sentinel
// errors for the loop's halt conditions, and classification helpers that
// separate fatal environment failures from transient data failures.
//
// # Error Types
//
// Domain-specific errors:
//   - TrackerError: errors from invoking or decoding the tracker CLI
//   - AgentError: errors from invoking the agent CLI
//
// # Classification
//
// The loop recovers from some failures by re-entering selection and halts on
// others. Two helpers encode that policy:
//   - IsFatal: the process cannot continue (missing tracker, not a git
//     work tree, a task that failed verification)
//   - IsTransient: the next selection cycle is expected to self-correct
//     (malformed payloads, a task disappearing between fetches)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Environment sentinel errors. These indicate the loop cannot function at all
// and are always fatal.
var (
	// ErrTrackerNotFound indicates the tracker executable is not on PATH.
	ErrTrackerNotFound = New("tracker executable not found")
	// ErrNotGitRepository indicates the working directory is not inside a
	// git work tree.
	ErrNotGitRepository = New("not in a git repository")
)

// Verification sentinel errors. These indicate an executed task is in an
// unknown or wrong terminal state and require human review.
var (
	// ErrTaskVanished indicates a task's detail could not be re-fetched
	// after an execute invocation.
	ErrTaskVanished = New("task detail unavailable after execution")
	// ErrTaskNotClosed indicates an executed task did not reach the closed
	// status.
	ErrTaskNotClosed = New("task was not closed by the agent")
)

// Transient sentinel errors. The loop recovers from these by re-selecting.
var (
	// ErrMalformedPayload indicates the tracker returned output that could
	// not be decoded.
	ErrMalformedPayload = New("malformed tracker payload")
	// ErrInvocationFailed indicates an external process could not be spawned.
	ErrInvocationFailed = New("process invocation failed")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// baseError provides common fields shared by domain error types.
type baseError struct {
	message string
	cause   error
	fatal   bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	return e.cause != nil && Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// TrackerError
// -----------------------------------------------------------------------------

// TrackerError represents errors from invoking or decoding the beads tracker.
//
// Example:
//
//	err := errors.NewTrackerError("failed to list ready tasks", errors.ErrMalformedPayload).
//		WithCommand("bd ready --json").
//		WithOutput(stderr)
type TrackerError struct {
	baseError
	Command string
	TaskID  string
	Output  string // Captured tracker stderr
}

// NewTrackerError creates a new TrackerError. Tracker errors are transient by
// default; the selection cycle re-queries on the next iteration.
func NewTrackerError(message string, cause error) *TrackerError {
	return &TrackerError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithCommand adds the invoked command line to the error context.
func (e *TrackerError) WithCommand(command string) *TrackerError {
	e.Command = command
	return e
}

// WithTaskID adds a task id to the error context.
func (e *TrackerError) WithTaskID(id string) *TrackerError {
	e.TaskID = id
	return e
}

// WithOutput adds captured tracker output to the error context.
func (e *TrackerError) WithOutput(output string) *TrackerError {
	e.Output = output
	return e
}

// WithFatal marks the error as fatal to the whole loop.
func (e *TrackerError) WithFatal() *TrackerError {
	e.fatal = true
	return e
}

// Error returns the formatted error message.
func (e *TrackerError) Error() string {
	var parts []string
	if e.Command != "" {
		parts = append(parts, fmt.Sprintf("cmd=%s", e.Command))
	}
	if e.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskID))
	}

	prefix := "tracker error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("tracker error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s\ntracker output: %s", msg, e.Output)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *TrackerError) Is(target error) bool {
	if _, ok := target.(*TrackerError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// AgentError
// -----------------------------------------------------------------------------

// AgentError represents errors from invoking the agent CLI. Agent errors are
// never fatal on their own: the loop judges outcomes by the task's resulting
// tracker status, not the agent's exit code.
type AgentError struct {
	baseError
	Command string
	TaskID  string
}

// NewAgentError creates a new AgentError.
func NewAgentError(message string, cause error) *AgentError {
	return &AgentError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithCommand adds the invoked command line to the error context.
func (e *AgentError) WithCommand(command string) *AgentError {
	e.Command = command
	return e
}

// WithTaskID adds a task id to the error context.
func (e *AgentError) WithTaskID(id string) *AgentError {
	e.TaskID = id
	return e
}

// Error returns the formatted error message.
func (e *AgentError) Error() string {
	var parts []string
	if e.Command != "" {
		parts = append(parts, fmt.Sprintf("cmd=%s", e.Command))
	}
	if e.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskID))
	}

	prefix := "agent error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("agent error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *AgentError) Is(target error) bool {
	if _, ok := target.(*AgentError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsFatal returns true if the error should halt the whole loop with a
// nonzero exit. Environment errors and verification failures are fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if Is(err, ErrTrackerNotFound) || Is(err, ErrNotGitRepository) ||
		Is(err, ErrTaskVanished) || Is(err, ErrTaskNotClosed) {
		return true
	}

	var trackerErr *TrackerError
	if As(err, &trackerErr) {
		return trackerErr.fatal
	}

	return false
}

// IsTransient returns true if the loop should recover by re-entering
// selection rather than halting.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !IsFatal(err)
}
