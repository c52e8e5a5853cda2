// Package worker implements the autonomous bead execution loop: select the
// highest-priority ready task from the tracker, delegate decomposition or
// execution to the external agent, and verify the outcome before moving on.
//
// The loop is fully sequential. At most one external process runs at a time
// and the controller blocks on each until completion. All task state lives
// in the tracker; the loop holds only transient snapshots and never mutates
// tracker state directly — the agent is the only entity permitted to do
// that, so outcomes are observable only by re-querying.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"

	"beadworker/internal/agent"
	"beadworker/internal/errors"
	"beadworker/internal/eventlog"
	"beadworker/internal/logging"
	"beadworker/internal/tracker"
)

// Options controls task selection and loop termination.
type Options struct {
	// TrackerCommand is the tracker executable named in execute prompts.
	TrackerCommand string
	// MaxPriority is the highest priority band still acted on.
	MaxPriority int
	// MaxTasks stops the loop cleanly after this many processed tasks;
	// 0 means run until the ready queue is exhausted.
	MaxTasks int
	// DryRun reports what the next iteration would do without invoking
	// the agent, then stops.
	DryRun bool
}

// DefaultOptions returns the options the original loop ran with: the top
// two priority bands, no task cap.
func DefaultOptions() Options {
	return Options{
		TrackerCommand: "bd",
		MaxPriority:    1,
	}
}

// Worker drives the work loop against a task store and an agent.
type Worker struct {
	store   tracker.Store
	agent   agent.Agent
	events  eventlog.Sink
	logger  *logging.Logger
	console console
	runID   string
	opts    Options
}

// New creates a Worker. A nil events sink or logger is replaced with a
// no-op implementation.
func New(store tracker.Store, ag agent.Agent, events eventlog.Sink, logger *logging.Logger, opts Options) *Worker {
	if events == nil {
		events = eventlog.NopSink{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	if opts.TrackerCommand == "" {
		opts.TrackerCommand = "bd"
	}
	return &Worker{
		store:   store,
		agent:   ag,
		events:  events,
		logger:  logger,
		console: console{out: os.Stdout},
		runID:   eventlog.NewRunID(),
		opts:    opts,
	}
}

// WithOutput redirects the loop's operator-facing status lines. Used by
// tests.
func (w *Worker) WithOutput(out io.Writer) *Worker {
	w.console = console{out: out}
	return w
}

// WithEvents replaces the event sink. Lets callers open a per-run event
// log named after this worker's run ID.
func (w *Worker) WithEvents(events eventlog.Sink) *Worker {
	if events == nil {
		events = eventlog.NopSink{}
	}
	w.events = events
	return w
}

// RunID returns the identifier for this run of the loop.
func (w *Worker) RunID() string {
	return w.runID
}

// Run executes the loop until the ready queue is exhausted (nil) or a fatal
// condition halts it (non-nil, see errors.IsFatal). Agent failures are not
// fatal by themselves: the execute branch is judged solely by the task's
// resulting tracker status, and the decompose branch is not judged at all.
func (w *Worker) Run(ctx context.Context) error {
	log := w.logger.WithRun(w.runID)
	log.Info("run started",
		"max_priority", w.opts.MaxPriority,
		"max_tasks", w.opts.MaxTasks,
		"dry_run", w.opts.DryRun)
	w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeRunStarted})

	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// SELECT: always a fresh query; earlier snapshots are never
		// trusted across an agent invocation.
		ready, err := w.store.Ready(ctx)
		if err != nil {
			log.Warn("ready query failed, treating as empty", "error", err.Error())
			ready = nil
		}

		candidates := SelectCandidates(ready, w.opts.MaxPriority)
		if len(candidates) == 0 {
			w.console.success("✅ No more high-priority ready tasks. Task list clear.")
			log.Info("run finished", "processed", processed)
			w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeRunFinished,
				Payload: map[string]any{"processed": processed}})
			return nil
		}

		selected := candidates[0]
		if selected.ID == "" {
			w.console.warn("Found a task without an ID, skipping...")
			log.Warn("selected task has no id, skipping")
			w.emit(eventlog.Event{Level: "warn", EventType: eventlog.TypeSkipped,
				Payload: "missing id"})
			continue
		}

		taskLog := log.WithTask(selected.ID)

		// The ready listing may be stale by now; re-fetch detail for
		// the latest state before branching.
		detail, err := w.store.Show(ctx, selected.ID)
		if err != nil {
			taskLog.Warn("detail query failed, skipping", "error", err.Error())
			detail = nil
		}
		if detail == nil {
			w.console.warn("Could not load details for %s. Skipping.", selected.ID)
			w.emit(eventlog.Event{Level: "warn", EventType: eventlog.TypeSkipped,
				TaskID: selected.ID, Payload: "detail unavailable"})
			continue
		}

		w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeTaskSelected,
			TaskID: detail.ID, Payload: map[string]any{
				"priority":   detail.EffectivePriority(),
				"issue_type": detail.IssueType,
			}})

		if w.opts.DryRun {
			w.reportDryRun(*detail)
			return nil
		}

		w.console.banner(detail.ID, detail.IssueType, detail.Title)

		if detail.IsComposite() {
			w.decompose(ctx, taskLog, *detail)
		} else {
			if err := w.execute(ctx, taskLog, *detail); err != nil {
				w.emit(eventlog.Event{Level: "error", EventType: eventlog.TypeRunFinished,
					TaskID: detail.ID, Payload: err.Error()})
				return err
			}
		}

		processed++
		if w.opts.MaxTasks > 0 && processed >= w.opts.MaxTasks {
			w.console.info("Reached max tasks (%d), stopping.", w.opts.MaxTasks)
			log.Info("run finished at max tasks", "processed", processed)
			w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeRunFinished,
				Payload: map[string]any{"processed": processed, "max_tasks": true}})
			return nil
		}
	}
}

// decompose asks the agent to break an epic or feature into actionable
// children. The result is not checked: decomposition never closes the
// parent, it only may create children that surface in the next SELECT.
func (w *Worker) decompose(ctx context.Context, log *logging.Logger, task tracker.Task) {
	w.console.info("📋 Decomposing %s...", task.IssueType)
	log.WithPhase("decompose").Info("requesting decomposition", "issue_type", task.IssueType)

	ok := w.agent.Invoke(ctx, DecomposePrompt(task.ID), agent.AllowAll)

	log.WithPhase("decompose").Info("decomposition invocation returned", "agent_ok", ok)
	w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeDecomposed,
		TaskID: task.ID, Payload: map[string]any{"agent_ok": ok}})
}

// execute asks the agent to perform and close one concrete unit of work,
// then verifies the task actually reached the closed status. The agent's
// exit code is advisory; only the re-fetched status decides the outcome.
func (w *Worker) execute(ctx context.Context, log *logging.Logger, task tracker.Task) error {
	execLog := log.WithPhase("execute")

	ok := w.agent.Invoke(ctx, ExecutePrompt(w.opts.TrackerCommand, task.ID), agent.AllowAll)
	execLog.Info("execute invocation returned", "agent_ok", ok)
	w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeExecuted,
		TaskID: task.ID, Payload: map[string]any{"agent_ok": ok}})

	// VERIFY: the agent is the only entity that mutates tracker state,
	// so its effect is observable only by re-querying.
	verifyLog := log.WithPhase("verify")
	final, err := w.store.Show(ctx, task.ID)
	if err != nil {
		verifyLog.Error("verification fetch failed", "error", err.Error())
		return fmt.Errorf("verify %s: %w", task.ID, errors.ErrTaskVanished)
	}
	if final == nil {
		w.console.warn("⚠️  Could not verify status of %s.", task.ID)
		verifyLog.Error("task detail unavailable after execution")
		return fmt.Errorf("verify %s: %w", task.ID, errors.ErrTaskVanished)
	}

	if final.Status != tracker.StatusClosed {
		w.console.warn("⚠️  Task %s was not closed by the agent. Halting for manual review.", task.ID)
		verifyLog.Error("task not closed", "status", final.Status)
		w.emit(eventlog.Event{Level: "error", EventType: eventlog.TypeVerified,
			TaskID: task.ID, Payload: map[string]any{"status": final.Status}})
		return fmt.Errorf("task %s has status %q: %w", task.ID, final.Status, errors.ErrTaskNotClosed)
	}

	w.console.success("✅ Successfully processed %s.", task.ID)
	verifyLog.Info("task closed")
	w.emit(eventlog.Event{Level: "info", EventType: eventlog.TypeVerified,
		TaskID: task.ID, Payload: map[string]any{"status": final.Status}})
	return nil
}

func (w *Worker) reportDryRun(task tracker.Task) {
	action := "execute"
	if task.IsComposite() {
		action = "decompose"
	}
	w.console.info("[dry-run] Would %s %s (%s, priority %d): %s",
		action, task.ID, task.IssueType, task.EffectivePriority(), task.Title)
	w.logger.WithRun(w.runID).Info("dry run stopping",
		"task_id", task.ID, "action", action)
}

func (w *Worker) emit(event eventlog.Event) {
	event.RunID = w.runID
	if err := w.events.Emit(event); err != nil {
		w.logger.Warn("failed to emit event", "event_type", event.EventType, "error", err.Error())
	}
}
