package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("unexpected store driver %q", cfg.Store.Driver)
	}
	if cfg.Board.TitleLimit != 40 || cfg.Board.TagsLimit != 3 {
		t.Fatalf("unexpected card limits %d/%d", cfg.Board.TitleLimit, cfg.Board.TagsLimit)
	}
	if len(cfg.Board.HiddenColumns) != 0 {
		t.Fatalf("expected every column visible, got %v", cfg.Board.HiddenColumns)
	}
	if cfg.Server.MCPEndpoint != "/mcp" || cfg.Server.APIEndpoint != "/api/v1" {
		t.Fatalf("unexpected endpoints %#v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != defaults.Store.Driver || cfg.Server.HTTPBind != defaults.Server.HTTPBind {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[store]
driver = "sqlite"

[board]
hidden_columns = ["Done"]
title_limit = 24
tags_limit = 1

[logging]
level = "debug"

[logging.dev_file]
enabled = false

[server]
http_bind = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Fatalf("unexpected store driver %q", cfg.Store.Driver)
	}
	if !slices.Equal(cfg.HiddenColumnIDs(), []string{"done"}) {
		t.Fatalf("unexpected hidden columns %v", cfg.HiddenColumnIDs())
	}
	if cfg.Board.TitleLimit != 24 || cfg.Board.TagsLimit != 1 {
		t.Fatalf("unexpected card limits %d/%d", cfg.Board.TitleLimit, cfg.Board.TagsLimit)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging config %#v", cfg.Logging)
	}
	if cfg.Logging.DevFile.Dir != ".tagboard/log" {
		t.Fatalf("expected default dev log dir kept, got %q", cfg.Logging.DevFile.Dir)
	}
	if cfg.Server.HTTPBind != ":9090" || cfg.Server.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected server config %#v", cfg.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"driver":   "[store]\ndriver = \"postgres\"\n",
		"column":   "[board]\nhidden_columns = [\"blocked\"]\n",
		"dup":      "[board]\nhidden_columns = [\"todo\", \"TODO\"]\n",
		"title":    "[board]\ntitle_limit = 0\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
		"endpoint": "[server]\nmcp_endpoint = \"mcp\"\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := Load(path, Default()); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
