package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
locations = ["0", "2"]
presence_dir = "/var/run/tai/presence"
create_interfaces = false
log_level = "debug"
startup_timeout = "10s"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if len(cfg.Locations) != 2 || cfg.Locations[0] != "0" || cfg.Locations[1] != "2" {
		t.Errorf("Locations = %v, want [0 2]", cfg.Locations)
	}
	if cfg.PresenceDir != "/var/run/tai/presence" {
		t.Errorf("PresenceDir = %q", cfg.PresenceDir)
	}
	if cfg.CreateInterfaces {
		t.Error("CreateInterfaces should be false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.StartupTimeout != 10*time.Second {
		t.Errorf("StartupTimeout = %v, want 10s", cfg.StartupTimeout)
	}
	// Unset file values leave defaults alone.
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 30s", cfg.ShutdownTimeout)
	}
}

func TestApplyFileConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, `
locations = ["3"]
log_level = "error"
`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Locations = []string{"1"}
	cfg.LogLevel = "warn"
	changed := map[string]bool{"location": true, "log-level": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0] != "1" {
		t.Errorf("flag-set locations overridden by file: %v", cfg.Locations)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("flag-set log level overridden by file: %q", cfg.LogLevel)
	}
}

func TestLoadFileConfig_BadToml(t *testing.T) {
	path := writeConfig(t, `locations = [`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	path := writeConfig(t, `startup_timeout = "banana"`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}
