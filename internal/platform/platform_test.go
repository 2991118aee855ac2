package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hongliMurphy/oopt-tai/internal/adapters/sim"
	"github.com/hongliMurphy/oopt-tai/internal/domain"
	"github.com/hongliMurphy/oopt-tai/pkg/fsm"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
)

func newTestPlatform() (*Platform, *sim.Hardware) {
	hw := sim.NewHardware()
	return New(hw, log.NewNoopLogger()), hw
}

func locationAttrs(loc string) domain.Attributes {
	return domain.Attributes{{ID: domain.ModuleAttrLocation, Value: loc}}
}

// driveToReady steps a module's machine through the expected sequence
// INIT -> WAITING_CONFIGURATION -> READY without a worker goroutine.
func driveToReady(t *testing.T, f *FSM) {
	t.Helper()
	for _, s := range []fsm.State{fsm.StateWaitingConfiguration, fsm.StateReady} {
		if err := f.Transit(s); err != nil {
			t.Fatalf("Transit(%v): %v", s, err)
		}
		if got := f.Step(); got != s {
			t.Fatalf("Step() = %v, want %v", got, s)
		}
	}
}

func TestCreateModule(t *testing.T) {
	p, _ := newTestPlatform()

	id, err := p.Create(domain.ObjectTypeModule, 0, locationAttrs("2"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id.Type() != domain.ObjectTypeModule {
		t.Errorf("id.Type() = %v, want module", id.Type())
	}
	if id.ModuleIndex() != 2 {
		t.Errorf("id.ModuleIndex() = %d, want 2", id.ModuleIndex())
	}

	m, err := p.Module(id)
	if err != nil {
		t.Fatalf("Module: %v", err)
	}
	if m.Location() != "2" {
		t.Errorf("Location() = %q, want \"2\"", m.Location())
	}
	if m.FSM() == nil || m.FSM().State() != fsm.StateInit {
		t.Error("new module must own a fresh machine in StateInit")
	}
}

func TestCreateModule_MissingLocation(t *testing.T) {
	p, _ := newTestPlatform()

	id, err := p.Create(domain.ObjectTypeModule, 0, domain.Attributes{})
	if !errors.Is(err, domain.ErrMandatoryAttributeMissing) {
		t.Errorf("err = %v, want ErrMandatoryAttributeMissing", err)
	}
	if id != 0 {
		t.Errorf("failed creation issued identity %v", id)
	}
}

func TestCreateModule_BadLocation(t *testing.T) {
	tests := []string{"not-a-number", "-1", "4"}
	for _, loc := range tests {
		p, _ := newTestPlatform()
		if _, err := p.Create(domain.ObjectTypeModule, 0, locationAttrs(loc)); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("location %q: err = %v, want ErrInvalidParameter", loc, err)
		}
	}
}

func TestCreateModule_Duplicate(t *testing.T) {
	p, _ := newTestPlatform()

	if _, err := p.Create(domain.ObjectTypeModule, 0, locationAttrs("1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := p.Create(domain.ObjectTypeModule, 0, locationAttrs("1")); !errors.Is(err, domain.ErrItemAlreadyExists) {
		t.Errorf("duplicate create: err = %v, want ErrItemAlreadyExists", err)
	}
}

func TestCreateNetIf(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, err := p.Create(domain.ObjectTypeModule, 0, locationAttrs("2"))
	if err != nil {
		t.Fatalf("create module: %v", err)
	}

	id, err := p.Create(domain.ObjectTypeNetIf, moduleID,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})
	if err != nil {
		t.Fatalf("create netif: %v", err)
	}
	if id.Type() != domain.ObjectTypeNetIf || id.ModuleIndex() != 2 || id.Index() != 0 {
		t.Errorf("netif id = %v, want (netif, 2, 0)", id)
	}

	m, _ := p.Module(moduleID)
	if m.FSM().NetIf() == nil {
		t.Error("netif was not bound to the module's machine")
	}
}

func TestCreateNetIf_NoModule(t *testing.T) {
	p, _ := newTestPlatform()
	missing := domain.NewObjectID(domain.ObjectTypeModule, 3, 0)

	_, err := p.Create(domain.ObjectTypeNetIf, missing,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestCreateHostIf(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("1"))

	// Index attribute absent.
	if _, err := p.Create(domain.ObjectTypeHostIf, moduleID, domain.Attributes{}); !errors.Is(err, domain.ErrMandatoryAttributeMissing) {
		t.Errorf("missing index: err = %v, want ErrMandatoryAttributeMissing", err)
	}

	// Both valid slots succeed and differ only in the index field.
	var ids [domain.NumHostIf]domain.ObjectID
	for i := 0; i < domain.NumHostIf; i++ {
		id, err := p.Create(domain.ObjectTypeHostIf, moduleID,
			domain.Attributes{{ID: domain.HostIfAttrIndex, Value: i}})
		if err != nil {
			t.Fatalf("create hostif %d: %v", i, err)
		}
		ids[i] = id
	}
	if ids[0].Type() != ids[1].Type() || ids[0].ModuleIndex() != ids[1].ModuleIndex() {
		t.Error("sibling hostif ids should differ only in the index field")
	}
	if ids[0].Index() != 0 || ids[1].Index() != 1 {
		t.Errorf("hostif indices = %d, %d; want 0, 1", ids[0].Index(), ids[1].Index())
	}

	// Out of slot range: binding fails, nothing is registered.
	badID := domain.NewObjectID(domain.ObjectTypeHostIf, 1, uint8(domain.NumHostIf))
	if _, err := p.Create(domain.ObjectTypeHostIf, moduleID,
		domain.Attributes{{ID: domain.HostIfAttrIndex, Value: domain.NumHostIf}}); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("out-of-range slot: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := p.FSMOf(badID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Error("failed hostif creation must leave no registered object")
	}
}

func TestCreate_UnknownType(t *testing.T) {
	p, _ := newTestPlatform()
	if _, err := p.Create(domain.ObjectType(42), 0, nil); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("err = %v, want ErrNotSupported", err)
	}
}

func TestRemove_NotSupported(t *testing.T) {
	p, _ := newTestPlatform()
	id, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("0"))
	if err := p.Remove(id); !errors.Is(err, domain.ErrNotSupported) {
		t.Errorf("Remove = %v, want ErrNotSupported", err)
	}
}

func TestObjectTypeAndModuleID(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("2"))
	netifID, _ := p.Create(domain.ObjectTypeNetIf, moduleID,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})

	if got := p.ObjectType(netifID); got != domain.ObjectTypeNetIf {
		t.Errorf("ObjectType = %v, want netif", got)
	}
	if got := p.ModuleID(netifID); got != moduleID {
		t.Errorf("ModuleID = %v, want %v", got, moduleID)
	}
}

func TestTxDis_StateGated(t *testing.T) {
	p, hw := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("2"))
	netifID, _ := p.Create(domain.ObjectTypeNetIf, moduleID,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})

	m, _ := p.Module(moduleID)
	f := m.FSM()

	// Access before READY is rejected without touching hardware.
	if err := f.SetTxDis(true); !errors.Is(err, domain.ErrUninitialized) {
		t.Errorf("SetTxDis before ready = %v, want ErrUninitialized", err)
	}
	if _, err := f.TxDis(); !errors.Is(err, domain.ErrUninitialized) {
		t.Errorf("TxDis before ready = %v, want ErrUninitialized", err)
	}
	if got, _ := hw.TxDis(netifID); got {
		t.Error("rejected accessor must not have written hardware")
	}

	driveToReady(t, f)

	if !hw.Configured(moduleID) {
		t.Error("reaching READY must program the module's hardware")
	}
	if err := f.SetTxDis(true); err != nil {
		t.Fatalf("SetTxDis after ready: %v", err)
	}
	got, err := f.TxDis()
	if err != nil || !got {
		t.Errorf("TxDis = %v, %v; want true, nil", got, err)
	}
}

func TestReadyRequiresNetIf(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("0"))
	m, _ := p.Module(moduleID)
	f := m.FSM()

	f.Transit(fsm.StateWaitingConfiguration)
	f.Step()
	f.Transit(fsm.StateReady)
	if got := f.Step(); got != fsm.StateWaitingConfiguration {
		t.Errorf("machine left waiting-configuration without a netif: %v", got)
	}
}

func TestReadyToEnd_ShutsDownHardware(t *testing.T) {
	p, hw := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("3"))
	p.Create(domain.ObjectTypeNetIf, moduleID,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})
	m, _ := p.Module(moduleID)
	f := m.FSM()

	driveToReady(t, f)
	f.Transit(fsm.StateEnd)
	if got := f.Step(); got != fsm.StateEnd {
		t.Fatalf("Step() = %v, want StateEnd", got)
	}
	if hw.Configured(moduleID) {
		t.Error("reaching END must release the module's hardware")
	}
}

func TestWaitFor(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("1"))
	p.Create(domain.ObjectTypeNetIf, moduleID,
		domain.Attributes{{ID: domain.NetIfAttrIndex, Value: 0}})
	m, _ := p.Module(moduleID)
	f := m.FSM()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go f.Run(ctx)

	f.Transit(fsm.StateWaitingConfiguration)
	if err := f.WaitFor(ctx, fsm.StateWaitingConfiguration); err != nil {
		t.Fatalf("WaitFor(waiting-configuration): %v", err)
	}
	f.Transit(fsm.StateReady)
	if err := f.WaitFor(ctx, fsm.StateReady); err != nil {
		t.Fatalf("WaitFor(ready): %v", err)
	}
	if !f.Configured() {
		t.Error("machine should report configured after READY")
	}

	// Waiting for the current state returns immediately.
	if err := f.WaitFor(ctx, fsm.StateReady); err != nil {
		t.Errorf("WaitFor on current state: %v", err)
	}
}

func TestOnTransition_Forwarding(t *testing.T) {
	p, _ := newTestPlatform()
	moduleID, _ := p.Create(domain.ObjectTypeModule, 0, locationAttrs("0"))
	m, _ := p.Module(moduleID)
	f := m.FSM()

	var got []fsm.State
	f.OnTransition(func(prev, next fsm.State) {
		got = append(got, next)
	})

	f.Transit(fsm.StateWaitingConfiguration)
	f.Step()

	if len(got) != 1 || got[0] != fsm.StateWaitingConfiguration {
		t.Errorf("forwarded transitions = %v, want [waiting-configuration]", got)
	}
}
