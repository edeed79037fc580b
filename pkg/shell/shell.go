package shell

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/platform"
)

// Supported shells
const (
	Bash = "bash"
	Zsh  = "zsh"
	Fish = "fish"
	Pwsh = "pwsh"
)

// BlockID is the id of the RC block devstrap manages
const BlockID = "devstrap"

// DetectShell returns the login shell named by $SHELL. On Windows without
// $SHELL it is pwsh. Unknown shells return "".
func DetectShell(getenv func(string) string, goos string) string {
	value := getenv("SHELL")
	if value == "" {
		if goos == platform.OSWindows {
			return Pwsh
		}
		return ""
	}

	name := strings.TrimSuffix(filepath.Base(strings.ReplaceAll(value, "\\", "/")), ".exe")
	switch name {
	case Bash, Zsh, Fish, Pwsh:
		return name
	case "powershell":
		return Pwsh
	default:
		return ""
	}
}

// RCFile returns the startup file devstrap writes for shell
func RCFile(shell, goos, home string) (string, error) {
	switch shell {
	case Bash:
		if goos == platform.OSDarwin {
			return filepath.Join(home, ".bash_profile"), nil
		}
		return filepath.Join(home, ".bashrc"), nil
	case Zsh:
		return filepath.Join(home, ".zshrc"), nil
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	case Pwsh:
		if goos == platform.OSWindows {
			return filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"), nil
		}
		return filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1"), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unsupported shell %q", shell)
	}
}
