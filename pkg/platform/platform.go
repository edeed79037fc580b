package platform

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/knadh/koanf/parsers/dotenv"
)

// Operating systems devstrap knows how to route
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

// osReleasePaths are tried in order on Linux
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Info describes the host
type Info struct {
	OS         string   `json:"os"`
	Arch       string   `json:"arch"`
	DistroID   string   `json:"distro_id,omitempty"`
	DistroLike []string `json:"distro_like,omitempty"`
	VersionID  string   `json:"version_id,omitempty"`
	PrettyName string   `json:"pretty_name,omitempty"`
	Kernel     string   `json:"kernel,omitempty"`
	WSL        bool     `json:"wsl"`
}

// String returns a one line description such as "linux/amd64 ubuntu 24.04 (WSL)"
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.OS)
	if i.Arch != "" {
		b.WriteString("/" + i.Arch)
	}
	if i.DistroID != "" {
		b.WriteString(" " + i.DistroID)
	}
	if i.VersionID != "" {
		b.WriteString(" " + i.VersionID)
	}
	if i.WSL {
		b.WriteString(" (WSL)")
	}
	return b.String()
}

// Probe reads the host facts Detect needs
type Probe interface {
	GOOS() string
	GOARCH() string
	Getenv(key string) string
	ReadFile(path string) ([]byte, error)
	KernelRelease() (string, error)
}

// HostProbe reads the real host
type HostProbe struct{}

// NewHostProbe returns a Probe for the running host
func NewHostProbe() Probe {
	return HostProbe{}
}

func (HostProbe) GOOS() string                         { return runtime.GOOS }
func (HostProbe) GOARCH() string                       { return runtime.GOARCH }
func (HostProbe) Getenv(key string) string             { return os.Getenv(key) }
func (HostProbe) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (HostProbe) KernelRelease() (string, error)       { return kernelRelease() }

// Detect gathers Info about the host through probe
func Detect(ctx context.Context, probe Probe) (Info, error) {
	logger := logging.GetLogger("platform")

	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	info := Info{OS: probe.GOOS(), Arch: probe.GOARCH()}

	kernel, err := probe.KernelRelease()
	if err != nil {
		logger.Debug().Err(err).Msg("Could not read kernel release")
	}
	info.Kernel = kernel

	if info.OS != OSLinux {
		return info, nil
	}

	var data []byte
	for _, path := range osReleasePaths {
		if data, err = probe.ReadFile(path); err == nil {
			break
		}
	}
	if data == nil {
		logger.Warn().Msg("No os-release file found, distribution unknown")
	} else {
		release, err := ParseOSRelease(data)
		if err != nil {
			return info, errors.Wrap(err, errors.ErrDetect, "failed to parse os-release")
		}
		info.DistroID = release.DistroID
		info.DistroLike = release.DistroLike
		info.VersionID = release.VersionID
		info.PrettyName = release.PrettyName
	}

	info.WSL = isWSL(probe, kernel)

	logger.Debug().
		Str("distro", info.DistroID).
		Strs("like", info.DistroLike).
		Bool("wsl", info.WSL).
		Msg("Detected platform")

	return info, nil
}

func isWSL(probe Probe, kernel string) bool {
	if probe.Getenv("WSL_DISTRO_NAME") != "" || probe.Getenv("WSL_INTEROP") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(kernel), "microsoft")
}

// ParseOSRelease parses the KEY=value contents of an os-release file
func ParseOSRelease(data []byte) (Info, error) {
	values, err := dotenv.Parser().Unmarshal(data)
	if err != nil {
		return Info{}, fmt.Errorf("invalid os-release: %w", err)
	}

	fields := make(map[string]string, len(values))
	for k, v := range values {
		fields[strings.ToUpper(k)] = strings.TrimSpace(fmt.Sprint(v))
	}

	return Info{
		OS:         OSLinux,
		DistroID:   strings.ToLower(fields["ID"]),
		DistroLike: strings.Fields(strings.ToLower(fields["ID_LIKE"])),
		VersionID:  fields["VERSION_ID"],
		PrettyName: fields["PRETTY_NAME"],
	}, nil
}
