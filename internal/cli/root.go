// Package cli wires the devstrap commands into a cobra command tree.
package cli

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/devstrap/internal/version"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/ui"
)

// NewRootCmd creates the root command with the process dependencies
func NewRootCmd() *cobra.Command {
	root, _ := newRoot(Deps{}.withDefaults())
	return root
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context, args []string, deps Deps) int {
	deps = deps.withDefaults()
	root, opts := newRoot(deps)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !stderrors.Is(err, errFailures) {
		renderError(opts, deps, err)
	}
	return 1
}

// renderError prints err in the selected format on stderr
func renderError(opts *globalOptions, deps Deps, err error) {
	format, perr := ui.ParseFormat(opts.format)
	if perr != nil {
		format = ui.FormatAuto
	}
	if format == ui.FormatAuto {
		format = ui.DetectFormat(deps.Stderr, deps.Getenv)
	}
	renderer, rerr := ui.NewRenderer(format, deps.Stderr, ui.Options{Getenv: deps.Getenv})
	if rerr != nil {
		return
	}
	if werr := renderer.RenderError(err); werr != nil {
		log.Error().Err(err).Msg("Command failed")
	}
}

func newRoot(deps Deps) (*cobra.Command, *globalOptions) {
	initTemplateFormatting()
	opts := &globalOptions{format: ui.FormatAuto.String()}

	rootCmd := &cobra.Command{
		Use:     "devstrap",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.CommandPath(), args)
			styledHelp = ui.DetectFormat(deps.Stdout, deps.Getenv) == ui.FormatTerminal
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.format, "format", opts.format, MsgFlagFormat)
	flags.BoolVarP(&opts.yes, "yes", "y", false, MsgFlagYes)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "COMMANDS:"},
		&cobra.Group{ID: "backup", Title: "BACKUPS:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(
		newUpCmd(opts, deps),
		newDetectCmd(opts, deps),
		newPackagesCmd(opts, deps),
		newDotfilesCmd(opts, deps),
		newShellCmd(opts, deps),
		newTemplatesCmd(opts, deps),
		newMCPCmd(opts, deps),
		newFetchCmd(opts, deps),
		newBackupCmd(opts, deps),
		newRestoreCmd(opts, deps),
		newConfigCmd(opts, deps),
		newVersionCmd(),
		newCompletionCmd(),
	)

	if tm, err := newTopics(opts, deps); err == nil {
		rootCmd.AddCommand(newTopicsCmd(tm))
		tm.Install(rootCmd)
		rootCmd.SetHelpCommandGroupID("misc")
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd, opts
}
