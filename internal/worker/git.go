package worker

import (
	"context"

	"beadworker/internal/errors"
	"beadworker/internal/shell"
)

// EnsureWorkTree verifies the current working directory is inside a git
// work tree. The loop asks the agent to commit its work, so running outside
// version control is fatal at startup.
func EnsureWorkTree(ctx context.Context, runner shell.Runner) error {
	result, err := runner.Run(ctx, "", "git", "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return errors.Join(errors.ErrNotGitRepository, err)
	}
	if result.ExitCode != 0 {
		return errors.ErrNotGitRepository
	}
	return nil
}
