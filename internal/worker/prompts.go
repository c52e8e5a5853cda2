package worker

import "fmt"

// CloseReason is the fixed completion reason the agent must pass to the
// tracker's close operation.
const CloseReason = "Completed implementation, verified ACs, and checked file bounds."

// MaxFileLines is the per-file line ceiling the execute instruction imposes
// before requiring decomposition into smaller units.
const MaxFileLines = 600

// DecomposePrompt builds the instruction asking the agent to break an epic
// or feature into actionable child tasks. Decomposition never closes the
// parent; the children surface in the next ready-set query.
func DecomposePrompt(taskID string) string {
	return fmt.Sprintf(`load and use the spec skill to decompose %s into actionable
tasks. Ensure each task has clear acceptance criteria and verification instructions.
Focus on breaking it down into items that can be implemented in single sittings.
`, taskID)
}

// ExecutePrompt builds the instruction asking the agent to perform and close
// a single concrete unit of work, including the fixed quality gates and the
// tracker close action. trackerCmd is the tracker executable the agent must
// use for the close (normally "bd").
func ExecutePrompt(trackerCmd, taskID string) string {
	return fmt.Sprintf(`load and use the exec skill to perform: exec %[2]s --instructions '
    Activate skill-exec. Perform the requested work for %[2]s.

    CRITICAL QUALITY CHECKS:
    1. FILE SIZE: If any file you modify or create exceeds %[3]d lines, you MUST decompose it into smaller, logical modules or components. After decomposition, verify that the logic is preserved and there are no regressions.
    2. COMPILATION: Confirm the code compiles cleanly (e.g., npm run build, tsc, or equivalent).
    3. INSPECTION: Perform a thorough code inspection to confirm ALL acceptance criteria for %[2]s are met.

    FINALIZATION:
    - Commit your changes using conventional commit messages referencing %[2]s.
    - Close the bead using: %[1]s close %[2]s --reason "%[4]s"
'
`, trackerCmd, taskID, MaxFileLines, CloseReason)
}
