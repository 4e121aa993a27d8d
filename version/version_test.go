package version

import (
	"runtime/debug"
	"testing"
)

func TestFromSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc1234def5678"},
		{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}
	got := fromSettings(Info{Version: "dev"}, settings)
	if got.Commit != "abc1234" {
		t.Errorf("Commit = %q, want abc1234", got.Commit)
	}
	if got.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", got.BuildTime)
	}
	if !got.Dirty {
		t.Error("expected Dirty")
	}
}

func TestLinkTimeValuesWin(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "ffffffffff"},
		{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
	}
	got := fromSettings(Info{Version: "1.2.0", Commit: "abc1234", BuildTime: "2026-02-01T00:00:00Z"}, settings)
	if got.Commit != "abc1234" || got.BuildTime != "2026-02-01T00:00:00Z" {
		t.Errorf("link-time values overwritten: %+v", got)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.2.0", Commit: "abc1234"}, "1.2.0 (abc1234)"},
		{Info{Version: "1.2.0", Commit: "abc1234", Dirty: true, BuildTime: "2026-01-15T10:30:00Z"}, "1.2.0 (abc1234-dirty, built 2026-01-15T10:30:00Z)"},
	}
	for _, tc := range tests {
		if got := tc.info.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestGet(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "9.9.9"
	if got := Get(); got.Version != "9.9.9" {
		t.Errorf("Version = %q", got.Version)
	}
}
