package config

import (
	"os"
	"runtime/debug"
	"strings"
)

// Version is set at build time with -ldflags "-X tvcharts/internal/config.Version=..."
var Version = ""

// GetVersion returns the build version, APP_VERSION, or the module version
// recorded in the binary, in that order.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}
	return buildVersion(debug.ReadBuildInfo)
}

func buildVersion(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return "dev+" + s.Value[:7]
		}
	}
	return "dev"
}
