package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/internal/ports"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

// Platform is the factory and registry for the basic platform's entities.
// It routes creation requests by object type, binds interfaces to their
// owning module's machine, and resolves identifiers back to live entities.
type Platform struct {
	hw     ports.Hardware
	logger log.Logger

	mu      sync.Mutex
	modules map[domain.ObjectID]*Module
	netifs  map[domain.ObjectID]*NetIf
	hostifs map[domain.ObjectID]*HostIf
}

// New creates an empty platform over the given hardware.
func New(hw ports.Hardware, logger log.Logger) *Platform {
	return &Platform{
		hw:      hw,
		logger:  logger,
		modules: make(map[domain.ObjectID]*Module),
		netifs:  make(map[domain.ObjectID]*NetIf),
		hostifs: make(map[domain.ObjectID]*HostIf),
	}
}

// Create constructs an entity of the given type from its attributes and
// returns its identity. For interfaces, moduleID names the owning module,
// which must already exist; for modules it is ignored. A failed creation
// leaves no partial object and issues no identity. An identity already held
// by a live entity is rejected with ErrItemAlreadyExists.
func (p *Platform) Create(t domain.ObjectType, moduleID domain.ObjectID, attrs domain.Attributes) (domain.ObjectID, error) {
	switch t {
	case domain.ObjectTypeModule:
		return p.createModule(attrs)
	case domain.ObjectTypeNetIf:
		return p.createNetIf(moduleID, attrs)
	case domain.ObjectTypeHostIf:
		return p.createHostIf(moduleID, attrs)
	default:
		return 0, fmt.Errorf("create %v: %w", t, domain.ErrNotSupported)
	}
}

// Remove is a known, permanent limitation of this platform.
func (p *Platform) Remove(id domain.ObjectID) error {
	return domain.ErrNotSupported
}

// ObjectType recovers the entity class from an identifier. Pure function
// over the identity codec.
func (p *Platform) ObjectType(id domain.ObjectID) domain.ObjectType {
	return id.Type()
}

// ModuleID recovers the owning module's identifier from any entity
// identifier. Pure function over the identity codec.
func (p *Platform) ModuleID(id domain.ObjectID) domain.ObjectID {
	return id.ModuleID()
}

func (p *Platform) createModule(attrs domain.Attributes) (domain.ObjectID, error) {
	f := NewFSM(p.hw, p.logger)
	m, err := NewModule(attrs, f)
	if err != nil {
		return 0, err
	}
	if err := f.SetModule(m); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.modules[m.ID()]; ok {
		return 0, fmt.Errorf("module %v: %w", m.ID(), domain.ErrItemAlreadyExists)
	}
	p.modules[m.ID()] = m

	p.logger.Info("module created",
		log.Stringer("oid", m.ID()), log.String("location", m.Location()))
	return m.ID(), nil
}

func (p *Platform) createNetIf(moduleID domain.ObjectID, attrs domain.Attributes) (domain.ObjectID, error) {
	m, err := p.Module(moduleID)
	if err != nil {
		return 0, err
	}
	n, err := NewNetIf(m, attrs)
	if err != nil {
		return 0, err
	}
	if err := m.FSM().SetNetIf(n); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.netifs[n.ID()]; ok {
		return 0, fmt.Errorf("netif %v: %w", n.ID(), domain.ErrItemAlreadyExists)
	}
	p.netifs[n.ID()] = n

	p.logger.Info("netif created",
		log.Stringer("oid", n.ID()), log.Stringer("module", m.ID()))
	return n.ID(), nil
}

func (p *Platform) createHostIf(moduleID domain.ObjectID, attrs domain.Attributes) (domain.ObjectID, error) {
	m, err := p.Module(moduleID)
	if err != nil {
		return 0, err
	}
	h, err := NewHostIf(m, attrs)
	if err != nil {
		return 0, err
	}
	if err := m.FSM().SetHostIf(h, int(h.Index())); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.hostifs[h.ID()]; ok {
		return 0, fmt.Errorf("hostif %v: %w", h.ID(), domain.ErrItemAlreadyExists)
	}
	p.hostifs[h.ID()] = h

	p.logger.Info("hostif created",
		log.Stringer("oid", h.ID()), log.Stringer("module", m.ID()),
		log.Int("slot", int(h.Index())))
	return h.ID(), nil
}

// Module resolves a module identifier to its live entity.
func (p *Platform) Module(id domain.ObjectID) (*Module, error) {
	if id.Type() != domain.ObjectTypeModule {
		return nil, fmt.Errorf("%v is not a module id: %w", id, domain.ErrItemNotFound)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.modules[id]
	if !ok {
		return nil, fmt.Errorf("module %v: %w", id, domain.ErrItemNotFound)
	}
	return m, nil
}

// Modules returns all live modules sorted by module index.
func (p *Platform) Modules() []*Module {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Module, 0, len(p.modules))
	for _, m := range p.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// FSMOf resolves the machine governing any live entity, module or
// interface, from its identifier alone.
func (p *Platform) FSMOf(id domain.ObjectID) (*FSM, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch id.Type() {
	case domain.ObjectTypeModule:
		if m, ok := p.modules[id]; ok {
			return m.FSM(), nil
		}
	case domain.ObjectTypeNetIf:
		if n, ok := p.netifs[id]; ok {
			return n.FSM(), nil
		}
	case domain.ObjectTypeHostIf:
		if h, ok := p.hostifs[id]; ok {
			return h.FSM(), nil
		}
	}
	return nil, fmt.Errorf("object %v: %w", id, domain.ErrItemNotFound)
}
