// Package platform detects the target identifier used to select manifest
// entries for the running host.
package platform

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// TargetDarwin is the fixed target for macOS hosts
const TargetDarwin = "darwin"

// TargetLinux is the generic fallback when the distribution cannot be
// determined
const TargetLinux = "linux"

// osReleasePath is the well-known distribution descriptor on Linux
const osReleasePath = "/etc/os-release"

// DetectTarget maps the current host to a target identifier. macOS is always
// "darwin"; Linux hosts report the os-release ID (e.g. "ubuntu", "fedora",
// "pop") and fall back to "linux" when the descriptor or its ID field is
// missing. Detection never fails.
func DetectTarget() string {
	return detect(runtime.GOOS, osReleasePath)
}

// DetectTargetFrom is DetectTarget with explicit inputs, for tests
func DetectTargetFrom(goos, osRelease string) string {
	return detect(goos, osRelease)
}

func detect(goos, osRelease string) string {
	if goos == "darwin" {
		return TargetDarwin
	}

	f, err := os.Open(osRelease)
	if err != nil {
		return TargetLinux
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if id, ok := strings.CutPrefix(line, "ID="); ok {
			id = strings.Trim(id, `"`)
			if id != "" {
				return id
			}
		}
	}
	return TargetLinux
}

// IsLinuxFamily reports whether a target identifier refers to a Linux
// distribution (anything that is not darwin)
func IsLinuxFamily(target string) bool {
	return target != TargetDarwin
}
