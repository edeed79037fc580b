package platform

import (
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
)

// Package manager names
const (
	Brew   = "brew"
	Apt    = "apt"
	Dnf    = "dnf"
	Pacman = "pacman"
	Zypper = "zypper"
	Apk    = "apk"
	Winget = "winget"
	Scoop  = "scoop"
	Choco  = "choco"
)

// Installer describes how to obtain a package manager whose binary is missing
type Installer struct {
	Description string   `json:"description"`
	Command     []string `json:"command"`
}

// Target is the routing decision for a platform
type Target struct {
	Manager string `json:"manager"`
	// Installer is nil when the manager ships with the OS
	Installer *Installer `json:"installer,omitempty"`
}

var (
	homebrewInstaller = &Installer{
		Description: "official Homebrew install script",
		Command: []string{"/bin/bash", "-c",
			`NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`},
	}
	scoopInstaller = &Installer{
		Description: "scoop install script via PowerShell",
		Command: []string{"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command",
			"Invoke-RestMethod -Uri https://get.scoop.sh | Invoke-Expression"},
	}
	chocoInstaller = &Installer{
		Description: "Chocolatey install script via PowerShell",
		Command: []string{"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command",
			"[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; " +
				"Invoke-Expression ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))"},
	}
)

// linuxFamilies maps distribution ids to their native manager. Entries ending
// in * match by prefix.
var linuxFamilies = []struct {
	manager string
	ids     []string
}{
	{Apt, []string{"debian", "ubuntu", "linuxmint", "pop", "elementary", "kali", "raspbian"}},
	{Dnf, []string{"fedora", "rhel", "centos", "rocky", "almalinux", "amzn"}},
	{Pacman, []string{"arch", "manjaro", "endeavouros", "garuda"}},
	{Zypper, []string{"opensuse*", "suse", "sles"}},
	{Apk, []string{"alpine"}},
}

// overrides lists the managers a user may force per OS
var overrides = map[string][]string{
	OSDarwin:  {Brew},
	OSWindows: {Winget, Scoop, Choco},
	OSLinux:   {Apt, Dnf, Pacman, Zypper, Apk, Brew},
}

var installers = map[string]*Installer{
	Brew:  homebrewInstaller,
	Scoop: scoopInstaller,
	Choco: chocoInstaller,
}

// Resolve routes info to a package manager. A non-empty override forces a
// manager and must be valid for the OS.
func Resolve(info Info, override string) (Target, error) {
	allowed, known := overrides[info.OS]
	if !known {
		return Target{}, unsupported(info, "no package manager for this operating system")
	}

	if override != "" {
		if !contains(allowed, override) {
			return Target{}, errors.Newf(errors.ErrUnsupportedPlatform,
				"package manager %q is not available on %s", override, info.OS).
				WithDetail("os", info.OS).
				WithDetail("manager", override)
		}
		return target(override), nil
	}

	switch info.OS {
	case OSDarwin:
		return target(Brew), nil
	case OSWindows:
		return target(Winget), nil
	}

	candidates := append([]string{info.DistroID}, info.DistroLike...)
	for _, id := range candidates {
		if id == "" {
			continue
		}
		if manager := linuxManager(id); manager != "" {
			return target(manager), nil
		}
	}
	return Target{}, unsupported(info, "unrecognised Linux distribution")
}

// ManagersFor returns the managers valid on os, native one first
func ManagersFor(os string) []string {
	return append([]string(nil), overrides[os]...)
}

func target(manager string) Target {
	return Target{Manager: manager, Installer: installers[manager]}
}

func linuxManager(id string) string {
	for _, family := range linuxFamilies {
		for _, candidate := range family.ids {
			if prefix, ok := strings.CutSuffix(candidate, "*"); ok {
				if strings.HasPrefix(id, prefix) {
					return family.manager
				}
			} else if candidate == id {
				return family.manager
			}
		}
	}
	return ""
}

func unsupported(info Info, msg string) error {
	return errors.New(errors.ErrUnsupportedPlatform, msg).
		WithDetail("os", info.OS).
		WithDetail("distro", info.DistroID)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
