package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (TAI_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if v := os.Getenv("TAI_LOCATIONS"); v != "" {
		s.setStringSlice("location", splitList(v), &cfg.Locations)
	}
	s.setString("presence-dir", os.Getenv("TAI_PRESENCE_DIR"), &cfg.PresenceDir)
	s.setString("log-level", os.Getenv("TAI_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("create-interfaces", os.Getenv("TAI_CREATE_INTERFACES"), &cfg.CreateInterfaces)

	if err := s.setDuration("startup-timeout", os.Getenv("TAI_STARTUP_TIMEOUT"), &cfg.StartupTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("TAI_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
