package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hongliMurphy/oopt-tai/internal/adapters/sim"
	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/pkg/fsm"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// transitionLog collects handler invocations across module workers.
type transitionLog struct {
	mu     sync.Mutex
	events []transitionEvent
}

type transitionEvent struct {
	module   domain.ObjectID
	previous fsm.State
	current  fsm.State
}

func (l *transitionLog) handle(module domain.ObjectID, previous, current fsm.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, transitionEvent{module, previous, current})
}

func (l *transitionLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func testConfig(locations ...string) Config {
	cfg := DefaultConfig()
	cfg.Locations = locations
	cfg.StartupTimeout = 5 * time.Second
	cfg.ShutdownTimeout = 5 * time.Second
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty locations", func(c *Config) { c.Locations = nil }, false},
		{"too many locations", func(c *Config) {
			c.Locations = []string{"0", "1", "2", "3", "4"}
		}, true},
		{"bad location", func(c *Config) { c.Locations = []string{"x"} }, true},
		{"negative location", func(c *Config) { c.Locations = []string{"-2"} }, true},
		{"duplicate location", func(c *Config) { c.Locations = []string{"1", "1"} }, true},
		{"zero startup timeout", func(c *Config) { c.StartupTimeout = 0 }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestAgentStart_BringsModulesToReady(t *testing.T) {
	hw := sim.NewHardware()
	events := &transitionLog{}
	a := NewAgent(testConfig("0", "2"), hw, log.NewNoopLogger(), events.handle)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Shutdown(ctx)

	modules := a.Platform().Modules()
	if len(modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(modules))
	}
	for _, m := range modules {
		if !m.FSM().Configured() {
			t.Errorf("module %v not configured after Start", m.ID())
		}
		if !hw.Configured(m.ID()) {
			t.Errorf("module %v hardware not programmed", m.ID())
		}
	}

	// Two accepted transitions per module.
	if got := events.count(); got != 4 {
		t.Errorf("handler saw %d transitions, want 4", got)
	}

	// Interfaces exist under each module.
	m := modules[0]
	netifID := domain.NewObjectID(domain.ObjectTypeNetIf, m.ID().ModuleIndex(), 0)
	if _, err := a.Platform().FSMOf(netifID); err != nil {
		t.Errorf("netif %v not created: %v", netifID, err)
	}
	for i := 0; i < domain.NumHostIf; i++ {
		hostifID := domain.NewObjectID(domain.ObjectTypeHostIf, m.ID().ModuleIndex(), uint8(i))
		if _, err := a.Platform().FSMOf(hostifID); err != nil {
			t.Errorf("hostif %v not created: %v", hostifID, err)
		}
	}
}

func TestAgentShutdown_ReachesEnd(t *testing.T) {
	hw := sim.NewHardware()
	a := NewAgent(testConfig("1"), hw, log.NewNoopLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	for _, m := range a.Platform().Modules() {
		if got := m.FSM().State(); got != fsm.StateEnd {
			t.Errorf("module %v in %v after shutdown, want end", m.ID(), got)
		}
		if hw.Configured(m.ID()) {
			t.Errorf("module %v hardware still programmed after shutdown", m.ID())
		}
	}

	// Shutdown twice is harmless: machines are already terminal.
	if err := a.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestAgentAddModule_Duplicate(t *testing.T) {
	hw := sim.NewHardware()
	a := NewAgent(testConfig("0"), hw, log.NewNoopLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Shutdown(ctx)

	if _, err := a.AddModule(ctx, "0"); !errors.Is(err, domain.ErrItemAlreadyExists) {
		t.Errorf("duplicate AddModule = %v, want ErrItemAlreadyExists", err)
	}
}

func TestAgentStopModule(t *testing.T) {
	hw := sim.NewHardware()
	a := NewAgent(testConfig(), hw, log.NewNoopLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Shutdown(ctx)

	id, err := a.AddModule(ctx, "3")
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	if err := a.StopModule(ctx, id); err != nil {
		t.Fatalf("StopModule: %v", err)
	}

	f, _ := a.Platform().FSMOf(id)
	if f.State() != fsm.StateEnd {
		t.Errorf("module in %v after StopModule, want end", f.State())
	}

	// Stopping a terminated module is a no-op.
	if err := a.StopModule(ctx, id); err != nil {
		t.Errorf("second StopModule: %v", err)
	}
}
