package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
)

// Config holds the configuration for the platform agent.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// Locations are the module locations created at startup. Each is a
	// character sequence parsing to a non-negative module index.
	Locations []string

	// CreateInterfaces controls whether the fixed interfaces (one netif,
	// NumHostIf hostifs) are created under each module at startup.
	CreateInterfaces bool

	// PresenceDir, when set, is the directory watched by the presence
	// plugin for module hot-plug events.
	PresenceDir string

	// StartupTimeout bounds driving a single module to READY.
	StartupTimeout time.Duration

	// ShutdownTimeout bounds waiting for module workers on Stop.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with all topology slots populated.
func DefaultConfig() Config {
	locations := make([]string, domain.NumModule)
	for i := range locations {
		locations[i] = strconv.Itoa(i)
	}
	return Config{
		Locations:        locations,
		CreateInterfaces: true,
		StartupTimeout:   30 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Locations) > domain.NumModule {
		return fmt.Errorf("%d locations exceed the %d module slots: %w",
			len(c.Locations), domain.NumModule, domain.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Locations))
	for _, loc := range c.Locations {
		n, err := strconv.Atoi(loc)
		if err != nil || n < 0 || n >= domain.NumModule {
			return fmt.Errorf("location %q: %w", loc, domain.ErrInvalidConfig)
		}
		if seen[loc] {
			return fmt.Errorf("duplicate location %q: %w", loc, domain.ErrInvalidConfig)
		}
		seen[loc] = true
	}
	if c.StartupTimeout <= 0 {
		return fmt.Errorf("startup timeout must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive: %w", domain.ErrInvalidConfig)
	}
	return nil
}
