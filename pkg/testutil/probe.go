package testutil

import (
	"io/fs"

	"github.com/arthur-debert/devstrap/pkg/platform"
)

// UbuntuOSRelease is a minimal /etc/os-release for an Ubuntu host
const UbuntuOSRelease = `NAME="Ubuntu"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="24.04"
PRETTY_NAME="Ubuntu 24.04 LTS"
`

// FakeProbe is a scripted platform.Probe
type FakeProbe struct {
	OS     string
	Arch   string
	Env    map[string]string
	Files  map[string]string
	Kernel string
}

var _ platform.Probe = (*FakeProbe)(nil)

// NewUbuntuProbe returns a probe describing an amd64 Ubuntu host
func NewUbuntuProbe() *FakeProbe {
	return &FakeProbe{
		OS:     platform.OSLinux,
		Arch:   "amd64",
		Env:    map[string]string{"SHELL": "/bin/zsh"},
		Files:  map[string]string{"/etc/os-release": UbuntuOSRelease},
		Kernel: "6.8.0-31-generic",
	}
}

// NewDarwinProbe returns a probe describing an arm64 macOS host
func NewDarwinProbe() *FakeProbe {
	return &FakeProbe{
		OS:     platform.OSDarwin,
		Arch:   "arm64",
		Env:    map[string]string{"SHELL": "/bin/zsh"},
		Files:  map[string]string{},
		Kernel: "23.4.0",
	}
}

func (p *FakeProbe) GOOS() string                   { return p.OS }
func (p *FakeProbe) GOARCH() string                 { return p.Arch }
func (p *FakeProbe) Getenv(key string) string       { return p.Env[key] }
func (p *FakeProbe) KernelRelease() (string, error) { return p.Kernel, nil }

func (p *FakeProbe) ReadFile(path string) ([]byte, error) {
	if content, ok := p.Files[path]; ok {
		return []byte(content), nil
	}
	return nil, fs.ErrNotExist
}
