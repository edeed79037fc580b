package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Bootstrap a developer workstation"
	MsgUpShort         = "Run every bootstrap phase in order"
	MsgDetectShort     = "Show the detected platform and package manager"
	MsgPackagesShort   = "Install the configured packages"
	MsgDotfilesShort   = "Sync dotfiles into the home directory"
	MsgShellShort      = "Write the shell RC blocks"
	MsgTemplatesShort  = "Render the configured templates"
	MsgMCPShort        = "Scaffold the MCP servers package.json"
	MsgBackupShort     = "Back up the files dotfiles would replace"
	MsgBackupListShort = "List dotfile backups"
	MsgPruneShort      = "Remove old dotfile backups"
	MsgRestoreShort    = "Restore files from a dotfile backup"
	MsgFetchShort      = "Clone or update the dotfiles repository"
	MsgConfigShort     = "Manage the devstrap configuration"
	MsgConfigInitShort = "Write the default configuration file"
	MsgConfigShowShort = "Print the merged configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Report what would change without changing anything"
	MsgFlagConfig  = "Configuration file (default $XDG_CONFIG_HOME/devstrap/devstrap.toml)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagYes     = "Answer yes to every confirmation"
	MsgFlagList    = "List the packages for the detected manager instead of installing"
	MsgFlagShell   = "Shell to write the RC block for (repeatable; default: configured or login shell)"
	MsgFlagRemove  = "Remove the RC block instead of writing it"
	MsgFlagKeep    = "Number of backups to keep (default dotfiles.backup.keep)"
	MsgFlagOnly    = "Only restore these original paths (repeatable)"
	MsgFlagForce   = "Overwrite an existing configuration file"

	// Version output
	MsgVersionFormat = "devstrap version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"

	// Error messages
	MsgErrPaths  = "failed to resolve directories"
	MsgErrConfig = "failed to load configuration"
	MsgErrTopic  = "unknown help topic %q; run 'devstrap topics' for the list"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/up-long.txt
	msgUpLongRaw string
	MsgUpLong    = strings.TrimSpace(msgUpLongRaw)

	//go:embed msgs/up-example.txt
	msgUpExampleRaw string
	MsgUpExample    = strings.TrimSpace(msgUpExampleRaw)

	//go:embed msgs/packages-long.txt
	msgPackagesLongRaw string
	MsgPackagesLong    = strings.TrimSpace(msgPackagesLongRaw)

	//go:embed msgs/packages-example.txt
	msgPackagesExampleRaw string
	MsgPackagesExample    = strings.TrimSpace(msgPackagesExampleRaw)

	//go:embed msgs/dotfiles-long.txt
	msgDotfilesLongRaw string
	MsgDotfilesLong    = strings.TrimSpace(msgDotfilesLongRaw)

	//go:embed msgs/shell-long.txt
	msgShellLongRaw string
	MsgShellLong    = strings.TrimSpace(msgShellLongRaw)

	//go:embed msgs/shell-example.txt
	msgShellExampleRaw string
	MsgShellExample    = strings.TrimSpace(msgShellExampleRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/restore-example.txt
	msgRestoreExampleRaw string
	MsgRestoreExample    = strings.TrimSpace(msgRestoreExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
