// Package presence hot-plugs modules from presence files. When enabled, it
// watches a directory for files named module-<location>: creating such a
// file inserts a module at that location and removing it retires the
// module's machine.
package presence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hongliMurphy/oopt-tai/pkg/log"
	"github.com/hongliMurphy/oopt-tai/pkg/tai"
)

// Plugin implements presence-file driven module insertion and removal.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	dir    string
	prefix string

	// Runtime state
	host   *tai.Host
	logger log.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds configuration options for the presence plugin.
type Config struct {
	// Dir is the directory to watch. When empty, the host's configured
	// presence directory is used.
	Dir string

	// Prefix is the presence file prefix. The rest of the file name is
	// the module location. Default: "module-"
	Prefix string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Prefix: "module-",
	}
}

// New creates a new presence plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Prefix == "" {
		cfg.Prefix = "module-"
	}
	return &Plugin{
		dir:    cfg.Dir,
		prefix: cfg.Prefix,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "presence"
}

// Initialize starts the directory watcher. With no directory configured the
// plugin stays dormant.
func (p *Plugin) Initialize(ctx context.Context, cfg tai.PluginConfig) error {
	p.mu.Lock()
	if p.dir == "" {
		p.dir = cfg.PresenceDir
	}
	p.host = cfg.Host
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.dir == "" {
		p.logger.Warn("presence plugin disabled: no directory configured")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("presence plugin initialized", log.String("dir", p.dir))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watcher. Modules it inserted stay managed by the host.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("presence: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(p.dir); err != nil {
		p.logger.Error("presence: failed to watch directory",
			log.String("dir", p.dir), log.Err(err))
		return
	}

	// Pick up presence files that existed before the watch started.
	p.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			location, ok := p.location(filepath.Base(event.Name))
			if !ok {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				p.add(ctx, location)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				p.remove(ctx, location)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("presence: watcher error", log.Err(err))
		}
	}
}

// scan inserts a module for every presence file already in the directory.
func (p *Plugin) scan(ctx context.Context) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		p.logger.Error("presence: failed to read directory",
			log.String("dir", p.dir), log.Err(err))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if location, ok := p.location(e.Name()); ok {
			p.add(ctx, location)
		}
	}
}

// location extracts the module location from a presence file name.
func (p *Plugin) location(name string) (string, bool) {
	rest := strings.TrimPrefix(name, p.prefix)
	if rest == name || rest == "" {
		return "", false
	}
	return rest, true
}

func (p *Plugin) add(ctx context.Context, location string) {
	id, err := p.host.AddModule(ctx, location)
	switch {
	case errors.Is(err, tai.ErrItemAlreadyExists):
		p.logger.Debug("presence: module already managed", log.String("location", location))
	case err != nil:
		p.logger.Warn("presence: module insertion failed",
			log.String("location", location), log.Err(err))
	default:
		p.logger.Info("presence: module inserted",
			log.String("location", location), log.Stringer("module", id))
	}
}

func (p *Plugin) remove(ctx context.Context, location string) {
	var id tai.ObjectID
	found := false
	for _, m := range p.host.Modules() {
		if m.Location == location {
			id = m.ID
			found = true
			break
		}
	}
	if !found {
		p.logger.Debug("presence: no module at location", log.String("location", location))
		return
	}

	if err := p.host.StopModule(ctx, id); err != nil {
		p.logger.Warn("presence: module removal failed",
			log.String("location", location), log.Err(err))
		return
	}
	p.logger.Info("presence: module removed",
		log.String("location", location), log.Stringer("module", id))
}

// Ensure Plugin implements tai.Plugin.
var _ tai.Plugin = (*Plugin)(nil)
