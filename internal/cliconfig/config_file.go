package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type fileConfig struct {
	Locations        []string `toml:"locations"`
	PresenceDir      string   `toml:"presence_dir"`
	CreateInterfaces *bool    `toml:"create_interfaces"`
	LogLevel         string   `toml:"log_level"`
	StartupTimeout   string   `toml:"startup_timeout"`
	ShutdownTimeout  string   `toml:"shutdown_timeout"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.taid/config.toml, if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".taid", "config.toml")
	}
	return ""
}

// FileExists reports whether the path names an existing file.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setStringSlice("location", fc.Locations, &cfg.Locations)
	s.setString("presence-dir", fc.PresenceDir, &cfg.PresenceDir)
	s.setBool("create-interfaces", fc.CreateInterfaces, &cfg.CreateInterfaces)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("startup-timeout", fc.StartupTimeout, &cfg.StartupTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}
