package ports

import "github.com/hongliMurphy/oopt-tai/internal/domain"

// Hardware abstracts register programming for transponder hardware. The
// state machine callbacks are the only callers; they guarantee single
// threaded access per module, so implementations need to be safe only
// across distinct modules.
type Hardware interface {
	// Configure programs the module's registers when it leaves
	// WAITING_CONFIGURATION. Returning an error keeps the machine in its
	// current state.
	Configure(module domain.ObjectID) error

	// Shutdown releases the module's hardware when its machine reaches the
	// terminal state.
	Shutdown(module domain.ObjectID) error

	// SetTxDis writes the transmitter-disable control of a network
	// interface.
	SetTxDis(netif domain.ObjectID, disable bool) error

	// TxDis reads the transmitter-disable control of a network interface.
	TxDis(netif domain.ObjectID) (bool, error)
}
