package platform

import (
	"fmt"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
)

// HostIf is a client-side interface of a module, one per physical host
// port. Like NetIf it only references the module's identity and machine.
type HostIf struct {
	id    domain.ObjectID
	index uint8
	fsm   *FSM
}

// NewHostIf constructs a host interface under the given module. The index
// attribute is mandatory and non-negative; the slot range is enforced at
// binding, not here.
func NewHostIf(m *Module, attrs domain.Attributes) (*HostIf, error) {
	idx, ok := attrs.Int(domain.HostIfAttrIndex)
	if !ok || idx < 0 {
		return nil, fmt.Errorf("hostif index: %w", domain.ErrMandatoryAttributeMissing)
	}
	return &HostIf{
		id:    domain.NewObjectID(domain.ObjectTypeHostIf, m.ID().ModuleIndex(), uint8(idx)),
		index: uint8(idx),
		fsm:   m.FSM(),
	}, nil
}

// ID returns the interface's identity.
func (h *HostIf) ID() domain.ObjectID { return h.id }

// Index returns the interface's slot index under its module.
func (h *HostIf) Index() uint8 { return h.index }

// FSM returns the owning module's machine.
func (h *HostIf) FSM() *FSM { return h.fsm }
