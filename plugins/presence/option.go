package presence

import "github.com/hongliMurphy/oopt-tai/pkg/tai"

// WithPresenceWatch returns a tai Option that enables presence-file driven
// module insertion and removal.
//
// Usage:
//
//	host, err := tai.New(cfg,
//	    presence.WithPresenceWatch(presence.Config{
//	        Dir: "/var/run/tai/presence",
//	    }),
//	)
func WithPresenceWatch(cfg Config) tai.Option {
	plugin := New(cfg)
	return tai.WithPlugin(plugin)
}

// WithDefaultPresenceWatch returns a tai Option that enables presence
// watching on the host's configured presence directory.
//
// Usage:
//
//	host, err := tai.New(cfg, presence.WithDefaultPresenceWatch())
func WithDefaultPresenceWatch() tai.Option {
	return WithPresenceWatch(DefaultConfig())
}
