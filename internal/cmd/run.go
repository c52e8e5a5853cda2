package cmd

import (
	"fmt"

	"beadworker/internal/agent"
	"beadworker/internal/config"
	"beadworker/internal/eventlog"
	"beadworker/internal/logging"
	"beadworker/internal/shell"
	"beadworker/internal/tracker"
	"beadworker/internal/worker"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the autonomous work loop",
	Long: `Run the work loop until the high-priority ready queue is exhausted.

Each iteration selects the most urgent ready task (priority 0 or 1),
asks the agent to decompose it (epics and features) or execute and close
it (everything else), then verifies the outcome against the tracker. An
executed task that does not end up closed halts the loop for manual
review.`,
	Args: cobra.NoArgs,
	RunE: runLoop,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "report the next task without invoking the agent")
	runCmd.Flags().Int("max-tasks", 0, "stop after processing this many tasks (0 = unlimited)")
	_ = viper.BindPFlag("loop.max_tasks", runCmd.Flags().Lookup("max-tasks"))

	rootCmd.AddCommand(runCmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	runner := shell.NewExecRunner(logger)
	ctx := cmd.Context()

	// Startup preconditions: both are fatal before any task is fetched.
	if err := worker.EnsureWorkTree(ctx, runner); err != nil {
		return err
	}

	store := tracker.NewBeadsClient(cfg.Tracker.Command, runner, logger)
	if err := store.EnsureInstalled(); err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	opts := worker.Options{
		TrackerCommand: cfg.Tracker.Command,
		MaxPriority:    cfg.Loop.MaxPriority,
		MaxTasks:       cfg.Loop.MaxTasks,
		DryRun:         dryRun,
	}

	w := worker.New(
		store,
		agent.NewCLIAgent(cfg.Agent.Command, cfg.Agent.Model, logger),
		nil,
		logger,
		opts,
	)

	if cfg.Events.Dir != "" {
		events, err := eventlog.New(cfg.Events.Dir, w.RunID())
		if err != nil {
			logger.Warn("failed to open event log, continuing without it", "error", err.Error())
		} else {
			defer events.Close()
			w.WithEvents(events)
		}
	}

	return w.Run(ctx)
}
