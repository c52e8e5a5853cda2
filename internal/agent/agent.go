// Package agent invokes the external autonomous agent CLI. The agent is the
// only entity permitted to mutate tracker state; this package just delivers
// an instruction payload and reports whether the agent exited cleanly.
package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"beadworker/internal/errors"
	"beadworker/internal/logging"

	"github.com/charmbracelet/lipgloss"
)

// ToolAll is the capability sentinel granting the agent every tool.
const ToolAll = "all"

// AllowAll is the capability set meaning "all capabilities granted".
var AllowAll = []string{ToolAll}

// Agent delivers one instruction payload per invocation.
type Agent interface {
	// Invoke blocks until the agent process terminates and returns true
	// iff it exited with code zero. Failures to start the process are
	// reported as false; the agent's console output is not captured.
	Invoke(ctx context.Context, prompt string, tools []string) bool
}

var announceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

// CLIAgent invokes an agent CLI (gemini by default) in non-interactive mode.
//
// The instruction payload is fed as the process's entire standard input.
// Stdout and stderr are inherited by the operator's terminal so the agent's
// live progress stays visible; the loop never inspects them.
type CLIAgent struct {
	command string
	model   string
	stdout  io.Writer
	stderr  io.Writer
	logger  *logging.Logger
}

// NewCLIAgent creates an agent invoker for the given command and model.
func NewCLIAgent(command, model string, logger *logging.Logger) *CLIAgent {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &CLIAgent{
		command: command,
		model:   model,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  logger,
	}
}

// WithOutput redirects the agent's passthrough streams. Used by tests.
func (a *CLIAgent) WithOutput(stdout, stderr io.Writer) *CLIAgent {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// Invoke implements Agent. No timeout is enforced; the call blocks until
// the agent terminates on its own or ctx is cancelled.
func (a *CLIAgent) Invoke(ctx context.Context, prompt string, tools []string) bool {
	args := BuildArgs(a.model, tools)

	fmt.Fprintln(a.stdout, announceStyle.Render(
		fmt.Sprintf(">>> Calling %s (%s) with tools: %s", a.command, a.model, strings.Join(tools, ", "))))
	a.logger.Info("invoking agent",
		"command", a.command,
		"model", a.model,
		"tools", tools)

	cmd := exec.CommandContext(ctx, a.command, args...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			a.logger.Warn("agent exited non-zero", "exit_code", exitErr.ExitCode())
		} else {
			a.logger.Error("failed to invoke agent", "command", a.command, "error", err.Error())
			fmt.Fprintf(a.stderr, "Failed to call %s: %v\n", a.command, err)
		}
		return false
	}

	return true
}

// BuildArgs assembles the agent command line: auto-approve mode, a fixed
// model selector, and one --allowed-tools flag per declared capability, or a
// single all flag when the set contains the ToolAll sentinel.
func BuildArgs(model string, tools []string) []string {
	args := []string{"--yolo", "--model", model}

	if len(tools) == 0 {
		return args
	}
	if slices.Contains(tools, ToolAll) {
		return append(args, "--allowed-tools=all")
	}
	for _, tool := range tools {
		args = append(args, "--allowed-tools="+tool)
	}
	return args
}
