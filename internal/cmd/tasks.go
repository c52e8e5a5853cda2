package cmd

import (
	"fmt"

	"beadworker/internal/config"
	"beadworker/internal/logging"
	"beadworker/internal/shell"
	"beadworker/internal/tracker"
	"beadworker/internal/worker"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the high-priority ready tasks the loop would act on",
	Long: `List the tracker's ready tasks that fall in the urgent priority
bands, in the order the loop would select them. Read-only: nothing is
invoked or mutated.`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var (
	taskIDStyle   = lipgloss.NewStyle().Bold(true)
	taskTypeStyle = lipgloss.NewStyle().Faint(true)
)

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NopLogger()
	runner := shell.NewExecRunner(logger)

	store := tracker.NewBeadsClient(cfg.Tracker.Command, runner, logger)
	if err := store.EnsureInstalled(); err != nil {
		return err
	}

	ready, err := store.Ready(cmd.Context())
	if err != nil {
		return err
	}

	candidates := worker.SelectCandidates(ready, cfg.Loop.MaxPriority)
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No high-priority ready tasks.")
		return nil
	}

	for _, task := range candidates {
		fmt.Fprintf(cmd.OutOrStdout(), "P%d %s %s %s\n",
			task.EffectivePriority(),
			taskIDStyle.Render(task.ID),
			taskTypeStyle.Render("("+task.IssueType+")"),
			task.Title)
	}
	return nil
}
