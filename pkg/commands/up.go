package commands

import (
	"context"
	"time"

	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/runner"
)

// PhaseStatus is how a phase of Up ended
type PhaseStatus string

const (
	PhaseOK      PhaseStatus = "ok"
	PhasePartial PhaseStatus = "partial"
	PhaseFailed  PhaseStatus = "failed"
	PhaseSkipped PhaseStatus = "skipped"
	PhaseNotRun  PhaseStatus = "not-run"
)

// Phase names, in the order Up runs them
const (
	PhaseFetch     = "fetch"
	PhasePackages  = "packages"
	PhaseDotfiles  = "dotfiles"
	PhaseShell     = "shell"
	PhaseTemplates = "templates"
	PhaseMCP       = "mcp"
)

// PhaseResult reports one phase of Up
type PhaseResult struct {
	Name     string        `json:"name"`
	Status   PhaseStatus   `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	// Result is the phase command's own result
	Result interface{} `json:"result,omitempty"`
}

// UpOptions holds options for Up
type UpOptions struct {
	DryRun bool
	// OnStep is passed to the packages phase
	OnStep func(runner.StepResult)
	// OnPhase is called as each phase completes
	OnPhase func(PhaseResult)
}

// UpResult is the outcome of a full bootstrap
type UpResult struct {
	DryRun bool          `json:"dry_run"`
	Phases []PhaseResult `json:"phases"`
}

// HasFailures reports whether any phase failed or partially failed
func (r *UpResult) HasFailures() bool {
	for _, p := range r.Phases {
		if p.Status == PhaseFailed || p.Status == PhasePartial {
			return true
		}
	}
	return false
}

// Phase returns the named phase, nil when it is not part of the result
func (r *UpResult) Phase(name string) *PhaseResult {
	for i := range r.Phases {
		if r.Phases[i].Name == name {
			return &r.Phases[i]
		}
	}
	return nil
}

type failureReporter interface {
	HasFailures() bool
}

type phase struct {
	name string
	// skip returns a reason when the phase has nothing to do
	skip func() string
	run  func(ctx context.Context) (interface{}, error)
}

// Up runs fetch, packages, dotfiles, shell, templates and mcp in that order.
// An error from a phase (a failed required package, an unreachable
// repository) stops the run and marks the remaining phases not-run.
// Per-file failures mark the phase partial and the run continues.
func Up(ctx context.Context, env Env, opts UpOptions) (*UpResult, error) {
	logger := logging.GetLogger("commands.up")
	if err := env.validate(); err != nil {
		return nil, err
	}

	phases := []phase{
		{
			name: PhaseFetch,
			skip: func() string {
				if env.Config.Repo.URL == "" {
					return "repo.url not configured"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return Fetch(ctx, env, FetchOptions{DryRun: opts.DryRun})
			},
		},
		{
			name: PhasePackages,
			skip: func() string {
				if len(env.Config.Packages) == 0 {
					return "no packages configured"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return InstallPackages(ctx, env, InstallPackagesOptions{DryRun: opts.DryRun, OnStep: opts.OnStep})
			},
		},
		{
			name: PhaseDotfiles,
			skip: func() string {
				if len(env.Config.Dotfiles.Files) == 0 {
					return "no dotfiles configured"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return SyncDotfiles(ctx, env, SyncDotfilesOptions{DryRun: opts.DryRun})
			},
		},
		{
			name: PhaseShell,
			skip: func() string {
				if len(env.shells(nil)) == 0 {
					return "no shell configured or detected"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return ApplyShell(ctx, env, ApplyShellOptions{DryRun: opts.DryRun})
			},
		},
		{
			name: PhaseTemplates,
			skip: func() string {
				if len(env.Config.Templates) == 0 {
					return "no templates configured"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return RenderTemplates(ctx, env, RenderTemplatesOptions{DryRun: opts.DryRun})
			},
		},
		{
			name: PhaseMCP,
			skip: func() string {
				if len(env.Config.MCP.Servers) == 0 {
					return "no MCP servers configured"
				}
				return ""
			},
			run: func(ctx context.Context) (interface{}, error) {
				return ScaffoldMCP(ctx, env, ScaffoldMCPOptions{DryRun: opts.DryRun})
			},
		},
	}

	result := &UpResult{DryRun: opts.DryRun, Phases: make([]PhaseResult, 0, len(phases))}
	report := func(p PhaseResult) {
		result.Phases = append(result.Phases, p)
		if opts.OnPhase != nil {
			opts.OnPhase(p)
		}
	}

	for i, ph := range phases {
		if reason := ph.skip(); reason != "" {
			report(PhaseResult{Name: ph.name, Status: PhaseSkipped, Reason: reason})
			continue
		}

		logger.Info().Str("phase", ph.name).Bool("dry_run", opts.DryRun).Msg("Starting phase")
		start := time.Now()
		out, err := ph.run(ctx)

		pr := PhaseResult{Name: ph.name, Status: PhaseOK, Duration: time.Since(start), Result: out}
		if err != nil {
			pr.Status = PhaseFailed
			pr.Error = err.Error()
			report(pr)

			for _, rest := range phases[i+1:] {
				report(PhaseResult{Name: rest.name, Status: PhaseNotRun, Reason: "stopped after " + ph.name + " failed"})
			}
			logger.Error().Err(err).Str("phase", ph.name).Msg("Phase failed, stopping")
			return result, err
		}
		if fr, ok := out.(failureReporter); ok && fr.HasFailures() {
			pr.Status = PhasePartial
		}
		report(pr)
	}

	return result, nil
}
