package platform

import (
	"path/filepath"
	"testing"
)

// envOf adapts a map to a getenv function.
func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

// TestPathsForOverrides verifies per-OS environment overrides and their absence.
func TestPathsForOverrides(t *testing.T) {
	env := envOf(map[string]string{
		"XDG_CONFIG_HOME": "/xdg/config",
		"XDG_DATA_HOME":   "/xdg/data",
		"APPDATA":         `C:\Roaming`,
		"LOCALAPPDATA":    `C:\Local`,
	})
	base := BaseDirs{Config: "/base/config", Data: "/base/data"}

	cases := []struct {
		goos       string
		getenv     func(string) string
		wantConfig string
		wantData   string
	}{
		{"linux", env, filepath.Join("/xdg/config", "tagboard", "config.toml"), filepath.Join("/xdg/data", "tagboard")},
		{"linux", nil, filepath.Join("/base/config", "tagboard", "config.toml"), filepath.Join("/base/data", "tagboard")},
		{"windows", env, filepath.Join(`C:\Roaming`, "tagboard", "config.toml"), filepath.Join(`C:\Local`, "tagboard")},
		{"darwin", env, filepath.Join("/base/config", "tagboard", "config.toml"), filepath.Join("/base/data", "tagboard")},
	}
	for _, tc := range cases {
		p, err := PathsFor(tc.goos, tc.getenv, base, "tagboard")
		if err != nil {
			t.Fatalf("%s: PathsFor() error = %v", tc.goos, err)
		}
		if p.ConfigPath != tc.wantConfig || p.DataDir != tc.wantData {
			t.Fatalf("%s: got %#v", tc.goos, p)
		}
		if p.LogDir != filepath.Join(tc.wantData, "log") {
			t.Fatalf("%s: unexpected log dir %q", tc.goos, p.LogDir)
		}
	}
}

// TestPathsForRejectsEmptyInputs verifies blank base dirs and names fail.
func TestPathsForRejectsEmptyInputs(t *testing.T) {
	if _, err := PathsFor("darwin", nil, BaseDirs{Data: "/data"}, "tagboard"); err == nil {
		t.Fatal("expected error for empty config base")
	}
	if _, err := PathsFor("darwin", nil, BaseDirs{Config: "/cfg", Data: "/data"}, "  "); err == nil {
		t.Fatal("expected error for empty app name")
	}
}

// TestInstanceName verifies defaults and the dev suffix.
func TestInstanceName(t *testing.T) {
	cases := map[Options]string{
		{}:                                "tagboard",
		{AppName: " board "}:              "board",
		{DevMode: true}:                   "tagboard-dev",
		{AppName: "board", DevMode: true}: "board-dev",
	}
	for opts, want := range cases {
		if got := opts.InstanceName(); got != want {
			t.Fatalf("InstanceName(%#v) = %q, want %q", opts, got, want)
		}
	}
}

// TestDefaultPathsWithOptionsDevMode verifies the dev instance gets its own directories.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	p, err := DefaultPathsWithOptions(Options{AppName: "tagboard", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "tagboard-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", p.ConfigPath)
	}
	if filepath.Base(p.DataDir) != "tagboard-dev" || filepath.Dir(p.LogDir) != p.DataDir {
		t.Fatalf("expected dev data and log dirs, got %#v", p)
	}
}
