package moderation

import (
	"context"
	"log/slog"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
)

// Cleanup step names, in execution order.
const (
	StepDeleteFile  = "delete_file"
	StepClearAvatar = "clear_avatar"
	StepNotifyUser  = "notify_user"
)

// StepOutcome records how one cleanup step ended.
type StepOutcome struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CleanupReport lists the outcome of every step that was attempted.
type CleanupReport struct {
	Steps []StepOutcome `json:"steps"`
}

// Succeeded reports whether the named step ran and succeeded.
func (r CleanupReport) Succeeded(step string) bool {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.OK
		}
	}
	return false
}

// Complete reports whether every step succeeded.
func (r CleanupReport) Complete() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return len(r.Steps) > 0
}

type cleanupStep struct {
	name string
	run  func(ctx context.Context) error
}

// runCleanup executes steps in order. A failed step is logged and recorded and the
// remaining steps still run; nothing is rolled back.
func runCleanup(ctx context.Context, steps []cleanupStep, observe func(step string, ok bool)) CleanupReport {
	logger := logging.FromContext(ctx)
	report := CleanupReport{Steps: make([]StepOutcome, 0, len(steps))}

	for _, step := range steps {
		outcome := StepOutcome{Step: step.name, OK: true}
		if err := step.run(ctx); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			logger.Error("cleanup step failed", slog.String("step", step.name), slog.String("error", err.Error()))
		} else {
			logger.Info("cleanup step completed", slog.String("step", step.name))
		}
		if observe != nil {
			observe(step.name, outcome.OK)
		}
		report.Steps = append(report.Steps, outcome)
	}

	return report
}
