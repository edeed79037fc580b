package runner

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/pkgmgr"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/rs/zerolog"
)

// Outcome is the result of one step
type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomePlanned   Outcome = "planned"
	OutcomePresent   Outcome = "present"
	OutcomeInstalled Outcome = "installed"
	OutcomeFailed    Outcome = "failed"
	OutcomeNotRun    Outcome = "not-run"
)

// StepResult reports what happened to one step
type StepResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Package  string        `json:"package,omitempty"`
	Optional bool          `json:"optional"`
	Outcome  Outcome       `json:"outcome"`
	Reason   string        `json:"reason,omitempty"`
	Command  []string      `json:"command,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// Report is the result of a run
type Report struct {
	Manager string `json:"manager"`
	DryRun  bool   `json:"dry_run"`
	// Bootstrap is "planned" or "installed" when the manager was missing
	Bootstrap    string       `json:"bootstrap,omitempty"`
	RefreshError string       `json:"refresh_error,omitempty"`
	Steps        []StepResult `json:"steps"`
}

// Count returns the number of steps with outcome
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failed returns the failed steps
func (r Report) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Outcome == OutcomeFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Options configures a Runner
type Options struct {
	DryRun bool
	// Info is the detected platform; WSL hosts skip GUI steps
	Info platform.Info
	// OnStep is called after each step completes
	OnStep func(StepResult)
}

// Runner installs steps through a package manager
type Runner struct {
	manager pkgmgr.Manager
	opts    Options
	logger  zerolog.Logger
}

// New creates a Runner
func New(manager pkgmgr.Manager, opts Options) *Runner {
	return &Runner{
		manager: manager,
		opts:    opts,
		logger: logging.GetLogger("runner").With().
			Str("manager", manager.Name()).
			Bool("dry_run", opts.DryRun).
			Logger(),
	}
}

// Run processes steps in order
func (r *Runner) Run(ctx context.Context, steps []Step) (Report, error) {
	report := Report{
		Manager: r.manager.Name(),
		DryRun:  r.opts.DryRun,
		Steps:   make([]StepResult, 0, len(steps)),
	}

	available := r.manager.Available(ctx)
	if !available {
		if r.opts.DryRun {
			report.Bootstrap = string(OutcomePlanned)
		} else {
			r.logger.Info().Msg("Package manager missing, bootstrapping")
			if err := r.manager.Bootstrap(ctx); err != nil {
				report.Steps = r.notRun(steps, "package manager unavailable")
				return report, err
			}
			report.Bootstrap = string(OutcomeInstalled)
			available = true
		}
	}

	refreshed := false
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			report.Steps = append(report.Steps, r.notRun(steps[i:], "cancelled")...)
			return report, errors.Wrap(err, errors.ErrCancelled, "package installation cancelled")
		}

		result := r.runStep(ctx, step, available, &refreshed, &report)
		report.Steps = append(report.Steps, result)
		if r.opts.OnStep != nil {
			r.opts.OnStep(result)
		}

		if result.Outcome == OutcomeFailed && !step.Optional {
			report.Steps = append(report.Steps, r.notRun(steps[i+1:], "stopped after required step "+step.ID+" failed")...)
			return report, errors.Wrapf(result.Err, errors.ErrStepRequiredFailed, "required package %q failed", step.ID)
		}
	}

	r.logger.Info().
		Int("installed", report.Count(OutcomeInstalled)).
		Int("present", report.Count(OutcomePresent)).
		Int("failed", report.Count(OutcomeFailed)).
		Msg("Package run complete")

	return report, nil
}

func (r *Runner) runStep(ctx context.Context, step Step, available bool, refreshed *bool, report *Report) StepResult {
	start := time.Now()
	result := StepResult{ID: step.ID, Name: step.Name, Optional: step.Optional}
	if result.Name == "" {
		result.Name = step.ID
	}

	pkg, ok := step.PackageFor(r.manager.Name())
	if !ok {
		result.Outcome = OutcomeSkipped
		result.Reason = "not available for " + r.manager.Name()
		return result
	}
	result.Package = pkg

	if step.GUI && r.opts.Info.WSL {
		result.Outcome = OutcomeSkipped
		result.Reason = "GUI package skipped on WSL"
		return result
	}

	logger := r.logger.With().Str("step", step.ID).Str("package", pkg).Logger()

	if available {
		installed, err := r.manager.IsInstalled(ctx, pkg)
		if err != nil {
			logger.Debug().Err(err).Msg("Installed check failed, assuming missing")
		}
		if installed {
			result.Outcome = OutcomePresent
			result.Duration = time.Since(start)
			return result
		}
	}

	result.Command = r.manager.InstallCommand(pkg)

	if r.opts.DryRun {
		result.Outcome = OutcomePlanned
		result.Reason = "would run: " + strings.Join(result.Command, " ")
		return result
	}

	if !*refreshed {
		*refreshed = true
		if err := r.manager.Refresh(ctx); err != nil {
			logger.Warn().Err(err).Msg("Package index refresh failed")
			report.RefreshError = err.Error()
		}
	}

	if err := r.manager.Install(ctx, pkg); err != nil {
		logger.Error().Err(err).Bool("optional", step.Optional).Msg("Package install failed")
		result.Outcome = OutcomeFailed
		result.Err = err
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	logger.Info().Dur("duration", time.Since(start)).Msg("Package installed")
	result.Outcome = OutcomeInstalled
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) notRun(steps []Step, reason string) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		name := step.Name
		if name == "" {
			name = step.ID
		}
		results = append(results, StepResult{
			ID:       step.ID,
			Name:     name,
			Optional: step.Optional,
			Outcome:  OutcomeNotRun,
			Reason:   reason,
		})
	}
	return results
}
