package tai

import (
	"context"

	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// Plugin extends a running host. Implementations are registered with
// WithPlugin; the host initializes them after the topology is READY.
type Plugin interface {
	// Name identifies the plugin in logs and errors.
	Name() string

	// Initialize starts the plugin. The context is canceled when the
	// host stops; long-running work should watch it.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to every plugin at initialization.
type PluginConfig struct {
	// Host is the running host the plugin operates on.
	Host *Host

	// Logger is the host's logger.
	Logger log.Logger

	// PresenceDir is the directory watched for module presence files,
	// if configured.
	PresenceDir string
}
