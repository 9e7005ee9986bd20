package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		},
	}

	t.Run("fills defaults", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromBuildInfo(info)
		if Version != "v0.3.1" || Commit != "abc123" || Date != "2024-05-01T10:00:00Z" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		reset(t, "v1.0.0", "feed", "today")
		fromBuildInfo(info)
		if Version != "v1.0.0" || Commit != "feed" || Date != "today" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("devel build keeps dev", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		if Version != "dev" {
			t.Errorf("Version = %s, want dev", Version)
		}
	})
}

func TestTemplate(t *testing.T) {
	reset(t, "v1.2.3", "abc", "2024-01-01")
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: abc") {
		t.Errorf("String() = %q", got)
	}
}
