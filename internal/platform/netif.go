package platform

import (
	"fmt"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
)

// NetIf is the line-side interface of a module. It holds no ownership of
// the module; it reads the module's identity and machine handle at
// construction and nothing more.
type NetIf struct {
	id    domain.ObjectID
	index uint8
	fsm   *FSM
}

// NewNetIf constructs a network interface under the given module. The index
// attribute is mandatory and non-negative.
func NewNetIf(m *Module, attrs domain.Attributes) (*NetIf, error) {
	idx, ok := attrs.Int(domain.NetIfAttrIndex)
	if !ok || idx < 0 {
		return nil, fmt.Errorf("netif index: %w", domain.ErrMandatoryAttributeMissing)
	}
	return &NetIf{
		id:    domain.NewObjectID(domain.ObjectTypeNetIf, m.ID().ModuleIndex(), uint8(idx)),
		index: uint8(idx),
		fsm:   m.FSM(),
	}, nil
}

// ID returns the interface's identity.
func (n *NetIf) ID() domain.ObjectID { return n.id }

// Index returns the interface's slot index under its module.
func (n *NetIf) Index() uint8 { return n.index }

// FSM returns the owning module's machine.
func (n *NetIf) FSM() *FSM { return n.fsm }
