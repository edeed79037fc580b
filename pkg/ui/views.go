package ui

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/commands"
	"github.com/arthur-debert/devstrap/pkg/dotfiles"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/repo"
	"github.com/arthur-debert/devstrap/pkg/runner"
	"github.com/arthur-debert/devstrap/pkg/style"
)

const timeLayout = "2006-01-02 15:04:05"

func (r *textRenderer) render(result interface{}) {
	switch v := result.(type) {
	case *commands.DetectResult:
		r.renderDetect(v)
	case *commands.InstallPackagesResult:
		r.renderPackages(v)
	case *commands.PackageListResult:
		r.renderPackageList(v)
	case *commands.FilesResult:
		r.renderFiles(v)
	case *commands.BackupResult:
		r.renderBackup(v)
	case *commands.BackupListResult:
		r.renderBackupList(v)
	case *commands.PruneResult:
		r.renderPrune(v)
	case *commands.RestoreResult:
		r.renderRestore(v)
	case *repo.Result:
		r.renderFetch(v)
	case *commands.InitConfigResult:
		r.renderInitConfig(v)
	case *commands.ShowConfigResult:
		r.printf("%s", strings.TrimRight(v.TOML, "\n"))
	case *commands.UpResult:
		r.renderUp(v)
	case fmt.Stringer:
		r.printf("%s", v.String())
	default:
		r.printf("%+v", result)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (r *textRenderer) renderDetect(v *commands.DetectResult) {
	info := v.Platform
	r.heading("Platform", "")
	r.printf("  OS:           %s/%s", info.OS, info.Arch)
	if info.DistroID != "" {
		distro := info.DistroID
		if len(info.DistroLike) > 0 {
			distro += " (like " + strings.Join(info.DistroLike, ", ") + ")"
		}
		if info.PrettyName != "" {
			distro = info.PrettyName + ", " + distro
		}
		r.printf("  Distribution: %s", distro)
	}
	if info.Kernel != "" {
		r.printf("  Kernel:       %s", info.Kernel)
	}
	r.printf("  WSL:          %s", yesNo(info.WSL))

	switch {
	case v.Unsupported != "":
		r.printf("  Manager:      %s", r.muted("none ("+v.Unsupported+")"))
	case v.Available:
		r.printf("  Manager:      %s (installed)", v.Manager)
	case v.Installer != nil:
		r.printf("  Manager:      %s (missing, will install via %s)", v.Manager, v.Installer.Description)
	default:
		r.printf("  Manager:      %s (missing)", v.Manager)
	}
	if len(v.Shells) > 0 {
		r.printf("  Shells:       %s", strings.Join(v.Shells, ", "))
	}
}

func (r *textRenderer) renderPackages(v *commands.InstallPackagesResult) {
	report := v.Report
	title := "Packages"
	if report.Manager != "" {
		title += " (" + report.Manager + ")"
	}
	r.heading(title, "packages")

	switch report.Bootstrap {
	case string(runner.OutcomePlanned):
		r.status(style.StatusQueue, report.Manager, "would be installed first")
	case string(runner.OutcomeInstalled):
		r.status(style.StatusSuccess, report.Manager, "installed")
	}
	if report.RefreshError != "" {
		r.status(style.StatusError, "index refresh", report.RefreshError)
	}

	for _, step := range report.Steps {
		r.status(style.StatusFor(string(step.Outcome), report.DryRun), step.Name, stepDetail(step))
	}

	parts := []string{}
	for _, outcome := range []runner.Outcome{
		runner.OutcomeInstalled, runner.OutcomePlanned, runner.OutcomePresent,
		runner.OutcomeSkipped, runner.OutcomeFailed, runner.OutcomeNotRun,
	} {
		if n := report.Count(outcome); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, outcome))
		}
	}
	if len(parts) > 0 {
		r.printf("  %s", r.muted(strings.Join(parts, ", ")))
	}
}

func stepDetail(step runner.StepResult) string {
	switch step.Outcome {
	case runner.OutcomeFailed:
		return step.Error
	case runner.OutcomePlanned, runner.OutcomeSkipped, runner.OutcomeNotRun:
		return step.Reason
	case runner.OutcomeInstalled:
		return step.Package + " installed"
	case runner.OutcomePresent:
		return step.Package + " already installed"
	}
	return ""
}

func (r *textRenderer) renderPackageList(v *commands.PackageListResult) {
	rows := make([][]string, 0, len(v.Packages))
	for _, p := range v.Packages {
		pkg := p.Package
		if !p.Available {
			pkg = "-"
		}
		var flags []string
		if p.Optional {
			flags = append(flags, "optional")
		}
		if p.GUI {
			flags = append(flags, "gui")
		}
		rows = append(rows, []string{p.ID, p.Name, pkg, strings.Join(flags, ",")})
	}
	r.heading("Packages for "+v.Manager, "packages")
	r.table([]string{"ID", "NAME", "PACKAGE", "FLAGS"}, rows)
}

func (r *textRenderer) fileResults(results []filesync.Result, dryRun bool) {
	for _, res := range results {
		detail := string(res.Outcome)
		switch {
		case res.Failed():
			detail = res.Error
		case res.Changed() && (dryRun || res.DryRun):
			detail = "would write"
		}
		r.status(style.StatusFor(string(res.Outcome), dryRun || res.DryRun), r.path(res.Path), detail)
	}
}

func (r *textRenderer) summary(s filesync.Summary, dryRun bool) {
	written := "written"
	if dryRun {
		written = "to write"
	}
	r.printf("  %s", r.muted(fmt.Sprintf("%d %s, %d unchanged, %d failed", s.Written, written, s.Unchanged, s.Failed)))
}

func (r *textRenderer) renderFiles(v *commands.FilesResult) {
	title := strings.ToUpper(v.Command[:1]) + v.Command[1:]
	if v.Command == "mcp" {
		title = "MCP servers"
	}
	r.heading(title, v.Command)

	if v.Skipped != "" {
		r.status(style.StatusSkipped, v.Skipped, "")
		return
	}
	if v.Backup != nil {
		r.status(style.StatusFor("written", v.DryRun), "backup "+v.Backup.ID,
			fmt.Sprintf("%d file(s) saved before replacing", len(v.Backup.Entries)))
	}
	r.fileResults(v.Results, v.DryRun)
	if len(v.Pruned) > 0 {
		r.status(style.StatusOK, "pruned backups", strings.Join(v.Pruned, ", "))
	}
	r.summary(v.Summary, v.DryRun)
}

func (r *textRenderer) renderBackup(v *commands.BackupResult) {
	r.heading("Backup", "backup")
	if v.Backup == nil {
		r.status(style.StatusSkipped, "nothing to back up", "")
		return
	}
	verb := "created"
	if v.DryRun {
		verb = "would be created"
	}
	r.status(style.StatusFor("written", v.DryRun), v.Backup.ID,
		fmt.Sprintf("%s with %d file(s) in %s", verb, len(v.Backup.Entries), r.path(v.Backup.Dir)))
	for _, e := range v.Backup.Entries {
		r.printf("    %s", r.muted(r.path(e.Original)))
	}
}

func (r *textRenderer) renderBackupList(v *commands.BackupListResult) {
	if len(v.Backups) == 0 {
		r.printf("No backups in %s", r.path(v.Dir))
		return
	}
	rows := make([][]string, 0, len(v.Backups))
	for i, b := range v.Backups {
		id := b.ID
		if i == 0 {
			id += " (" + dotfiles.Latest + ")"
		}
		rows = append(rows, []string{id, b.Created.Local().Format(timeLayout), b.Host, fmt.Sprint(len(b.Entries))})
	}
	r.table([]string{"ID", "CREATED", "HOST", "FILES"}, rows)
}

func (r *textRenderer) renderPrune(v *commands.PruneResult) {
	r.heading("Prune backups", "backup")
	if len(v.Removed) == 0 {
		r.status(style.StatusOK, fmt.Sprintf("nothing to prune (keeping %d)", v.Keep), "")
		return
	}
	for _, id := range v.Removed {
		detail := "removed"
		if v.DryRun {
			detail = "would be removed"
		}
		r.status(style.StatusFor("written", v.DryRun), id, detail)
	}
}

func (r *textRenderer) renderRestore(v *commands.RestoreResult) {
	r.heading("Restore "+v.ID, "restore")
	if v.Declined {
		r.status(style.StatusSkipped, "restore cancelled", "")
		return
	}
	r.fileResults(v.Results, v.DryRun)
	r.summary(v.Summary, v.DryRun)
}

func (r *textRenderer) renderFetch(v *repo.Result) {
	r.heading("Dotfiles repository", "dotfiles")
	detail := r.path(v.Dir)
	switch {
	case v.DryRun && v.Action == repo.ActionCloned:
		detail = "would clone into " + detail
	case v.DryRun:
		detail = "would pull " + detail
	case v.Action == repo.ActionCloned:
		detail = "cloned into " + detail
	case v.Action == repo.ActionPulled:
		detail = "pulled " + detail
	default:
		detail = detail + " already up to date"
	}
	if v.Head != "" {
		detail += " at " + v.Head
	}
	r.status(style.StatusFor(string(v.Action), v.DryRun), v.URL+"@"+v.Ref, detail)
}

func (r *textRenderer) renderInitConfig(v *commands.InitConfigResult) {
	if v.Result.Outcome == filesync.OutcomeUnchanged {
		r.printf("%s already holds the default configuration", r.path(v.Path))
		return
	}
	if v.Result.DryRun {
		r.printf("Would write the default configuration to %s", r.path(v.Path))
		return
	}
	r.printf("Wrote the default configuration to %s", r.path(v.Path))
}

func (r *textRenderer) renderUp(v *commands.UpResult) {
	for i, phase := range v.Phases {
		if i > 0 {
			r.printf("")
		}
		switch phase.Status {
		case commands.PhaseSkipped, commands.PhaseNotRun:
			r.heading(phase.Name, phase.Name)
			r.status(style.StatusSkipped, string(phase.Status), phase.Reason)
			continue
		}
		if phase.Result != nil {
			r.render(phase.Result)
		}
		if phase.Status == commands.PhaseFailed {
			r.status(style.StatusError, "phase failed", phase.Error)
		}
	}
}
