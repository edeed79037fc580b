package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/config"
)

const header = "Managed by devstrap; edit the devstrap config instead."

// Render returns the block body for shell
func Render(shell string, cfg config.ShellConfig) string {
	var lines []string
	emit := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	emit("# %s", header)

	// prepend in reverse so the first entry ends up first in PATH
	for i := len(cfg.Path) - 1; i >= 0; i-- {
		dir := homeVar(cfg.Path[i])
		switch shell {
		case Fish:
			emit("fish_add_path -g %s", dquote(dir))
		case Pwsh:
			emit("if (-not (($env:PATH -split [IO.Path]::PathSeparator) -contains %s)) { $env:PATH = %s + [IO.Path]::PathSeparator + $env:PATH }",
				pquote(dir), pquote(dir))
		default:
			emit(`case ":$PATH:" in *":%s:"*) ;; *) export PATH="%s:$PATH" ;; esac`, escapeDouble(dir), escapeDouble(dir))
		}
	}

	for _, name := range sortedKeys(cfg.Env) {
		value := homeVar(cfg.Env[name])
		switch shell {
		case Fish:
			emit("set -gx %s %s", name, dquote(value))
		case Pwsh:
			emit("$env:%s = %s", name, pquote(value))
		default:
			emit("export %s=%s", name, dquote(value))
		}
	}

	for _, name := range sortedKeys(cfg.Aliases) {
		value := cfg.Aliases[name]
		switch shell {
		case Fish:
			emit("alias %s %s", name, squote(value))
		case Pwsh:
			if strings.ContainsAny(value, " \t") {
				emit("function %s { %s @args }", name, value)
			} else {
				emit("Set-Alias -Name %s -Value %s", name, value)
			}
		default:
			emit("alias %s=%s", name, squote(value))
		}
	}

	for _, file := range cfg.Source {
		path := dquote(homeVar(file))
		switch shell {
		case Fish:
			emit("test -f %s; and source %s", path, path)
		case Pwsh:
			path = pquote(homeVar(file))
			emit("if (Test-Path %s) { . %s }", path, path)
		default:
			emit("[ -f %s ] && . %s", path, path)
		}
	}

	lines = append(lines, cfg.Lines...)

	return strings.Join(lines, "\n") + "\n"
}

// homeVar rewrites a leading ~ to $HOME, which every supported shell expands
// inside double quotes
func homeVar(path string) string {
	if path == "~" {
		return "$HOME"
	}
	if strings.HasPrefix(path, "~/") {
		return "$HOME" + path[1:]
	}
	return path
}

func escapeDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return r.Replace(s)
}

func dquote(s string) string {
	return `"` + escapeDouble(s) + `"`
}

// pquote quotes for PowerShell, whose escape character is the backtick
func pquote(s string) string {
	r := strings.NewReplacer("`", "``", `"`, "`\"")
	return `"` + r.Replace(s) + `"`
}

func squote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
