package pkgmgr

import "github.com/arthur-debert/devstrap/pkg/platform"

// pkgToken marks where package names go in an argument list. Lists without it
// get the names appended.
const pkgToken = "{pkg}"

type spec struct {
	binary string
	// fallbacks are absolute locations tried when binary is not on PATH
	fallbacks []string
	sudo      bool
	install   []string
	// check runs a separate command; exit status 0 means installed
	check []string
	// checkOutput additionally requires non-empty output from check
	checkOutput bool
	refresh     []string
}

var drivers = map[string]spec{
	platform.Brew: {
		binary:    "brew",
		fallbacks: []string{"/opt/homebrew/bin/brew", "/usr/local/bin/brew", "/home/linuxbrew/.linuxbrew/bin/brew"},
		install:   []string{"install"},
		check:     []string{"brew", "list", "--versions"},
		// brew update runs implicitly before install
	},
	platform.Apt: {
		binary:  "apt-get",
		sudo:    true,
		install: []string{"install", "-y", "--no-install-recommends"},
		check:   []string{"dpkg", "-s"},
		refresh: []string{"update"},
	},
	platform.Dnf: {
		binary:  "dnf",
		sudo:    true,
		install: []string{"install", "-y"},
		check:   []string{"rpm", "-q"},
	},
	platform.Pacman: {
		binary:  "pacman",
		sudo:    true,
		install: []string{"-S", "--noconfirm", "--needed"},
		check:   []string{"pacman", "-Q"},
		refresh: []string{"-Sy"},
	},
	platform.Zypper: {
		binary:  "zypper",
		sudo:    true,
		install: []string{"--non-interactive", "install"},
		check:   []string{"rpm", "-q"},
		refresh: []string{"--non-interactive", "refresh"},
	},
	platform.Apk: {
		binary:  "apk",
		sudo:    true,
		install: []string{"add"},
		check:   []string{"apk", "info", "-e"},
		refresh: []string{"update"},
	},
	platform.Winget: {
		binary:  "winget",
		install: []string{"install", "-e", "--id", pkgToken, "--accept-package-agreements", "--accept-source-agreements"},
		check:   []string{"winget", "list", "-e", "--id", pkgToken},
	},
	platform.Scoop: {
		binary:  "scoop",
		install: []string{"install"},
		check:   []string{"scoop", "prefix"},
	},
	platform.Choco: {
		binary:      "choco",
		install:     []string{"install", "-y"},
		check:       []string{"choco", "list", "--exact", "--limit-output"},
		checkOutput: true,
	},
}

// Supported returns whether name has a driver
func Supported(name string) bool {
	_, ok := drivers[name]
	return ok
}

func expand(args []string, pkgs []string) []string {
	out := make([]string, 0, len(args)+len(pkgs))
	placed := false
	for _, arg := range args {
		if arg == pkgToken {
			out = append(out, pkgs...)
			placed = true
			continue
		}
		out = append(out, arg)
	}
	if !placed {
		out = append(out, pkgs...)
	}
	return out
}
