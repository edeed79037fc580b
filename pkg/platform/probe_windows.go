//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func kernelRelease() (string, error) {
	v := windows.RtlGetVersion()
	return fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber), nil
}
