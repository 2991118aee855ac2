package platform

import (
	"fmt"
	"strconv"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
)

// Module is the root hardware unit. It owns its machine; the network and
// host interfaces created under it attach to the same machine.
type Module struct {
	id       domain.ObjectID
	location string
	fsm      *FSM
}

// NewModule constructs a module from its creation attributes. The location
// attribute is mandatory; its integer value becomes the module index in the
// identity. The machine is created by the caller and exclusively owned by
// the module.
func NewModule(attrs domain.Attributes, f *FSM) (*Module, error) {
	loc, ok := attrs.String(domain.ModuleAttrLocation)
	if !ok || loc == "" {
		return nil, fmt.Errorf("module location: %w", domain.ErrMandatoryAttributeMissing)
	}
	idx, err := strconv.Atoi(loc)
	if err != nil || idx < 0 || idx >= domain.NumModule {
		return nil, fmt.Errorf("module location %q: %w", loc, domain.ErrInvalidParameter)
	}
	return &Module{
		id:       domain.NewObjectID(domain.ObjectTypeModule, uint8(idx), 0),
		location: loc,
		fsm:      f,
	}, nil
}

// ID returns the module's identity.
func (m *Module) ID() domain.ObjectID { return m.id }

// Location returns the location attribute the module was created with.
func (m *Module) Location() string { return m.location }

// FSM returns the machine owned by the module.
func (m *Module) FSM() *FSM { return m.fsm }
