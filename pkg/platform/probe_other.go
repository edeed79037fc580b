//go:build !unix && !windows

package platform

func kernelRelease() (string, error) {
	return "", nil
}
