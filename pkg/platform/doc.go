// Package platform detects the host platform and routes it to a system
// package manager.
//
// Detection gathers an Info (OS, distro id, WSL flag) through an injectable
// Probe. Resolve is a pure function from Info to a Target: the package manager
// name plus the installer routine used when that manager is missing.
package platform
