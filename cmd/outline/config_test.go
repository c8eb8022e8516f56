package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig(filepath.Join(dir, "missing.toml"), filepath.Join(dir, ".outline", "config"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Display.Indent != defaultIndent {
		t.Errorf("Indent = %d, want %d", cfg.Display.Indent, defaultIndent)
	}
	if cfg.Log.Level != defaultLevel {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, defaultLevel)
	}
	if cfg.Store.Path == "" {
		t.Error("Store.Path is empty")
	}
}

func TestLoadConfigUserFile(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "config.toml")
	os.WriteFile(user, []byte(`
[store]
path = "/var/lib/outline/orders.db"

[display]
indent = 4
width = 100

[log]
level = "debug"
`), 0600)

	cfg, err := loadConfig(user, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store.Path != "/var/lib/outline/orders.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Display.Indent != 4 || cfg.Display.Width != 100 {
		t.Errorf("Display = %+v", cfg.Display)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfigProjectOverrides(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "config.toml")
	os.WriteFile(user, []byte(`
[store]
path = "/home/me/orders.db"
[display]
indent = 4
`), 0600)

	project := filepath.Join(dir, ".outline", "config")
	os.MkdirAll(filepath.Dir(project), 0700)
	os.WriteFile(project, []byte(`[store]
	path = data/orders.db
[display]
	indent = 3
`), 0600)

	cfg, err := loadConfig(user, project)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if want := filepath.Join(dir, "data", "orders.db"); cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
	if cfg.Display.Indent != 3 {
		t.Errorf("Indent = %d, want 3", cfg.Display.Indent)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "config.toml")
	os.WriteFile(user, []byte("[store\npath = 1"), 0600)

	if _, err := loadConfig(user, ""); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{
		"debug": "DEBUG",
		"INFO":  "INFO",
		"warn":  "WARN",
		"error": "ERROR",
		"":      "WARN",
		"loud":  "WARN",
	} {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
