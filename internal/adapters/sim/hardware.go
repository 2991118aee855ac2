// Package sim provides an in-memory hardware implementation. It stands in
// for real register programming in tests, in the interactive shell, and on
// hosts without transponder hardware.
package sim

import (
	"sync"

	"github.com/hongliMurphy/oopt-tai/internal/domain"
)

// Hardware implements ports.Hardware with an in-memory register shadow.
type Hardware struct {
	mu         sync.Mutex
	configured map[domain.ObjectID]bool
	txDis      map[domain.ObjectID]bool
}

// NewHardware creates an empty simulated register file.
func NewHardware() *Hardware {
	return &Hardware{
		configured: make(map[domain.ObjectID]bool),
		txDis:      make(map[domain.ObjectID]bool),
	}
}

// Configure marks the module's registers as programmed.
func (h *Hardware) Configure(module domain.ObjectID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.configured[module] = true
	return nil
}

// Shutdown releases the module's simulated registers.
func (h *Hardware) Shutdown(module domain.ObjectID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.configured, module)
	for id := range h.txDis {
		if id.ModuleID() == module.ModuleID() {
			delete(h.txDis, id)
		}
	}
	return nil
}

// SetTxDis writes the transmitter-disable shadow register.
func (h *Hardware) SetTxDis(netif domain.ObjectID, disable bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txDis[netif] = disable
	return nil
}

// TxDis reads the transmitter-disable shadow register. Unwritten registers
// read as enabled transmit.
func (h *Hardware) TxDis(netif domain.ObjectID) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.txDis[netif], nil
}

// Configured reports whether the module's registers have been programmed.
// Test helper.
func (h *Hardware) Configured(module domain.ObjectID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.configured[module]
}
