package config

import (
	"runtime/debug"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Setenv("APP_VERSION", "1.2.3")
	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("Expected version from APP_VERSION, got %s", got)
	}

	Version = "2.0.0"
	defer func() { Version = "" }()
	if got := GetVersion(); got != "2.0.0" {
		t.Errorf("Expected linker version to win, got %s", got)
	}
}

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want string
	}{
		{"no build info", nil, false, "dev"},
		{"module version", &debug.BuildInfo{Main: debug.Module{Version: "v1.4.0"}}, true, "v1.4.0"},
		{
			"vcs revision",
			&debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			},
			true,
			"dev+0123456",
		},
		{"devel without vcs", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true, "dev"},
	}

	for _, tt := range tests {
		got := buildVersion(func() (*debug.BuildInfo, bool) { return tt.info, tt.ok })
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}
