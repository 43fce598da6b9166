// Package playback replays scripted attempt outcomes through the resilience
// engine, standing in for the playback controller. It demonstrates the
// caller-side contract: the engine only returns delays, the runner owns the
// cancellable timers.
package playback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/suzukaplayer/resilience/internal/core/domain"
	"github.com/suzukaplayer/resilience/internal/engine"
	"github.com/suzukaplayer/resilience/internal/infra/probe"
)

// Runner feeds scenario steps into the coordinator and executes its
// decisions. TimeScale compresses retry delays for fast replays; 0 means
// real time.
type Runner struct {
	coord     *engine.Coordinator
	checker   *probe.Checker
	timeScale float64
}

// NewRunner creates a runner. checker may be nil to skip connectivity gating.
func NewRunner(coord *engine.Coordinator, checker *probe.Checker, timeScale float64) *Runner {
	if timeScale <= 0 {
		timeScale = 1
	}
	return &Runner{coord: coord, checker: checker, timeScale: timeScale}
}

// Run replays the scenario. Retry delays are waited out (scaled) and are
// cancellable through ctx, matching how the player discards a pending retry
// when the user jumps elsewhere.
func (r *Runner) Run(ctx context.Context, sc *Scenario) error {
	slog.Info("Replaying scenario", "name", sc.Name, "steps", len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.OK {
			r.coord.RecordSuccess(step.Index)
			slog.Info("Playback succeeded", "step", i, "index", step.Index)
			continue
		}

		// Before attempting an online URL the controller may consult the
		// connectivity probe; an offline verdict is reported as a failure
		// like any other.
		if r.checker != nil && isOnlineURL(step.URL) && !r.checker.Online(ctx) {
			slog.Warn("Network offline, attempt will fail fast", "step", i, "index", step.Index)
		}

		decision := r.coord.RecordError(step.Index, step.URL, step.Error)

		switch decision.Action {
		case domain.ActionRetry:
			slog.Info("Retrying after backoff",
				"step", i,
				"index", step.Index,
				"kind", decision.Kind,
				"delay", decision.Delay)
			if err := r.wait(ctx, decision.Delay); err != nil {
				return err
			}

		case domain.ActionSkip:
			if decision.Kind.Permanent() {
				slog.Info("Permanent failure, skipping item", "step", i, "index", step.Index, "kind", decision.Kind)
			} else {
				slog.Info("Retries exhausted, skipping item", "step", i, "index", step.Index, "kind", decision.Kind)
			}

		case domain.ActionRequireIntervention:
			slog.Warn("Auto-advance paused",
				"step", i,
				"index", step.Index,
				"remaining", decision.Delay)
		}
	}

	view := r.coord.Status()
	slog.Info("Scenario finished", "level", view.Level, "message", view.Message)
	return nil
}

// wait sleeps for the scaled delay or until the context is cancelled.
func (r *Runner) wait(ctx context.Context, delay time.Duration) error {
	scaled := time.Duration(float64(delay) / r.timeScale)
	if scaled <= 0 {
		return nil
	}

	timer := time.NewTimer(scaled)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isOnlineURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
