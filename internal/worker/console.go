package worker

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Operator-facing console styles. The loop's own output is deliberately
// sparse: the agent's live stream is the main thing the operator watches.
var (
	bannerStyle  = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const ruleWidth = 80

// console writes the loop's operator-facing status lines.
type console struct {
	out io.Writer
}

func (c console) banner(taskID, issueType, title string) {
	rule := ruleStyle.Render(strings.Repeat("-", ruleWidth))
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, bannerStyle.Render(fmt.Sprintf("🚀 Processing %s (%s): %s", taskID, issueType, title)))
	fmt.Fprintln(c.out, rule)
}

func (c console) info(format string, args ...any) {
	fmt.Fprintln(c.out, fmt.Sprintf(format, args...))
}

func (c console) success(format string, args ...any) {
	fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (c console) warn(format string, args ...any) {
	fmt.Fprintln(c.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}
