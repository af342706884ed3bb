package common

import (
	"fmt"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/bnmkit/sdkgen/internal/codegen/common.Version=x.y.z"
var Version = ""

// GetVersion returns the version string that was set at build time via ldflags.
// Returns "0.0.1-dev" if Version is empty (development builds only).
func GetVersion() (string, error) {
	if Version == "" {
		return "0.0.1-dev", nil
	}

	version := strings.TrimPrefix(Version, "v")
	baseVersion := strings.SplitN(version, "-", 2)[0]
	if !strings.Contains(baseVersion, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", Version)
	}

	return version, nil
}

// FileHeader returns the banner written at the top of every generated file.
// It carries no timestamp so repeated runs produce identical output.
func FileHeader(commentPrefix, lang string) string {
	version, err := GetVersion()
	if err != nil {
		version = "unknown"
	}
	return fmt.Sprintf("%s Auto-generated %s binding by sdkgen %s. DO NOT EDIT.", commentPrefix, lang, version)
}
