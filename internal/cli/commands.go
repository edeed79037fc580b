package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/devstrap/internal/version"
	"github.com/arthur-debert/devstrap/pkg/cobrax/topics"
	"github.com/arthur-debert/devstrap/pkg/commands"
	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/runner"
)

// runFunc is the body of a command once the app is ready
type runFunc func(cmd *cobra.Command, args []string, a *app) error

func (o *globalOptions) run(deps Deps, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.newApp(cmd, deps)
		if err != nil {
			return err
		}
		return fn(cmd, args, a)
	}
}

func newUpCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Short:   MsgUpShort,
		Long:    MsgUpLong,
		Example: MsgUpExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			logger := logging.GetLogger("cli.up")
			done := logging.LogOperationStart(logger, "up")
			defer done()

			res, err := commands.Up(cmd.Context(), a.env, commands.UpOptions{
				DryRun: opts.dryRun,
				OnStep: func(step runner.StepResult) {
					logger.Info().Str("step", step.ID).Str("outcome", string(step.Outcome)).Msg("Step finished")
				},
				OnPhase: func(phase commands.PhaseResult) {
					logger.Info().Str("phase", phase.Name).Str("status", string(phase.Status)).Msg("Phase finished")
				},
			})
			return a.finish(res, err)
		}),
	}
}

func newDetectCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "detect",
		Short:   MsgDetectShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.Detect(cmd.Context(), a.env)
			return a.finish(res, err)
		}),
	}
}

func newPackagesCmd(opts *globalOptions, deps Deps) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:               "packages [ids...]",
		Short:             MsgPackagesShort,
		Long:              MsgPackagesLong,
		Example:           MsgPackagesExample,
		GroupID:           "core",
		ValidArgsFunction: packageIDCompletion(opts),
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			if list {
				res, err := commands.ListPackages(cmd.Context(), a.env)
				return a.finish(res, err)
			}
			res, err := commands.InstallPackages(cmd.Context(), a.env, commands.InstallPackagesOptions{
				DryRun: opts.dryRun,
				IDs:    args,
			})
			return a.finish(res, err)
		}),
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, MsgFlagList)
	return cmd
}

// packageIDCompletion completes the configured package ids not yet given
func packageIDCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, err := paths.New()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile, Paths: p})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		given := make(map[string]bool, len(args))
		for _, arg := range args {
			given[arg] = true
		}
		var ids []string
		for _, pkg := range cfg.Packages {
			if !given[pkg.ID] {
				ids = append(ids, pkg.ID)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

func newDotfilesCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "dotfiles",
		Short:   MsgDotfilesShort,
		Long:    MsgDotfilesLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.SyncDotfiles(cmd.Context(), a.env, commands.SyncDotfilesOptions{DryRun: opts.dryRun})
			return a.finish(res, err)
		}),
	}
}

func newShellCmd(opts *globalOptions, deps Deps) *cobra.Command {
	var (
		shells []string
		remove bool
	)
	cmd := &cobra.Command{
		Use:     "shell",
		Short:   MsgShellShort,
		Long:    MsgShellLong,
		Example: MsgShellExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			for _, shell := range shells {
				if !contains(config.SupportedShells, shell) {
					return errors.Newf(errors.ErrInvalidInput, "unsupported shell %q", shell).
						WithDetail("supported", config.SupportedShells)
				}
			}
			res, err := commands.ApplyShell(cmd.Context(), a.env, commands.ApplyShellOptions{
				DryRun: opts.dryRun,
				Shells: shells,
				Remove: remove,
			})
			return a.finish(res, err)
		}),
	}
	cmd.Flags().StringSliceVarP(&shells, "shell", "s", nil, MsgFlagShell)
	cmd.Flags().BoolVar(&remove, "remove", false, MsgFlagRemove)
	_ = cmd.RegisterFlagCompletionFunc("shell", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.SupportedShells, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newTemplatesCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
		Short:   MsgTemplatesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.RenderTemplates(cmd.Context(), a.env, commands.RenderTemplatesOptions{DryRun: opts.dryRun})
			return a.finish(res, err)
		}),
	}
}

func newMCPCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "mcp",
		Short:   MsgMCPShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.ScaffoldMCP(cmd.Context(), a.env, commands.ScaffoldMCPOptions{DryRun: opts.dryRun})
			return a.finish(res, err)
		}),
	}
}

func newFetchCmd(opts *globalOptions, deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "fetch",
		Short:   MsgFetchShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.Fetch(cmd.Context(), a.env, commands.FetchOptions{DryRun: opts.dryRun})
			return a.finish(res, err)
		}),
	}
}

func newBackupCmd(opts *globalOptions, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		GroupID: "backup",
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.CreateBackup(cmd.Context(), a.env, commands.BackupOptions{DryRun: opts.dryRun})
			return a.finish(res, err)
		}),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgBackupListShort,
		Args:    cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.ListBackups(cmd.Context(), a.env)
			return a.finish(res, err)
		}),
	}

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: MsgPruneShort,
		Args:  cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			if keep < 0 {
				return errors.New(errors.ErrInvalidInput, "--keep must not be negative")
			}
			popts := commands.PruneOptions{DryRun: opts.dryRun}
			if cmd.Flags().Changed("keep") {
				popts.Keep = &keep
			}
			res, err := commands.PruneBackups(cmd.Context(), a.env, popts)
			return a.finish(res, err)
		}),
	}
	prune.Flags().IntVar(&keep, "keep", 0, MsgFlagKeep)

	cmd.AddCommand(list, prune)
	return cmd
}

func newRestoreCmd(opts *globalOptions, deps Deps) *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:     "restore [id]",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		Example: MsgRestoreExample,
		GroupID: "backup",
		Args:    cobra.MaximumNArgs(1),
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			res, err := commands.Restore(cmd.Context(), a.env, commands.RestoreOptions{
				DryRun:  opts.dryRun,
				ID:      id,
				Only:    only,
				Confirm: a.dialog.Confirm,
			})
			return a.finish(res, err)
		}),
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, MsgFlagOnly)
	return cmd
}

func newConfigCmd(opts *globalOptions, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.InitConfig(a.env, commands.InitConfigOptions{
				DryRun: opts.dryRun,
				Path:   opts.configFile,
				Force:  force,
			})
			return a.finish(res, err)
		}),
	}
	initCmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)

	show := &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: opts.run(deps, func(cmd *cobra.Command, args []string, a *app) error {
			res, err := commands.ShowConfig(a.env)
			return a.finish(res, err)
		}),
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}

func newTopicsCmd(tm *topics.Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return tm.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tm.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			topic, ok := tm.Get(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, MsgErrTopic, args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), tm.Render(topic))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
