package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/hongliMurphy/oopt-tai/pkg/tai"
)

// shell is the interactive command loop over a running host.
type shell struct {
	host *tai.Host
	rl   *readline.Instance
}

func newShell(host *tai.Host) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "taish> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{host: host, rl: rl}, nil
}

// run reads commands until EOF, exit, or context cancellation.
func (s *shell) run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "list", "ls":
			s.cmdList()

		case "status", "st":
			s.cmdStatus(args)

		case "transit", "t":
			s.cmdTransit(args)

		case "set":
			s.cmdSet(args)

		case "get":
			s.cmdGet(args)

		case "oid":
			s.cmdOID(args)

		case "add":
			s.cmdAdd(ctx, args)

		case "stop":
			s.cmdStop(ctx, args)

		case "exit", "quit", "q":
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "unknown command %q, try 'help'\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  list                      list managed modules
  status <oid>              show the state of the machine governing <oid>
  transit <oid> <state>     request a transition (waiting-configuration, ready, end)
  set tx-dis <oid> on|off   write the tx-disable control
  get tx-dis <oid>          read the tx-disable control
  oid <hex>                 decode an object identifier
  add <location>            insert a module at <location>
  stop <oid>                retire a module's machine
  exit                      leave the shell
`)
}

func (s *shell) cmdList() {
	modules := s.host.Modules()
	if len(modules) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "no modules")
		return
	}
	for _, m := range modules {
		fmt.Fprintf(s.rl.Stdout(), "%-18s location=%-4s state=%-22s configured=%t\n",
			m.ID, m.Location, m.State, m.Configured)
	}
}

func (s *shell) cmdStatus(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: status <oid>")
		return
	}
	id, err := parseOID(args[0])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	st, err := s.host.State(id)
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	configured, _ := s.host.Configured(id)
	fmt.Fprintf(s.rl.Stdout(), "state=%s configured=%t\n", st, configured)
}

func (s *shell) cmdTransit(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: transit <oid> <state>")
		return
	}
	id, err := parseOID(args[0])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	next, err := parseState(args[1])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	if err := s.host.RequestTransition(id, next); err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "requested %s\n", next)
}

func (s *shell) cmdSet(args []string) {
	if len(args) != 3 || args[0] != "tx-dis" {
		fmt.Fprintln(s.rl.Stdout(), "usage: set tx-dis <oid> on|off")
		return
	}
	id, err := parseOID(args[1])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	var disable bool
	switch strings.ToLower(args[2]) {
	case "on", "true", "1":
		disable = true
	case "off", "false", "0":
		disable = false
	default:
		fmt.Fprintln(s.rl.Stdout(), "usage: set tx-dis <oid> on|off")
		return
	}
	if err := s.host.SetTxDis(id, disable); err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "ok")
}

func (s *shell) cmdGet(args []string) {
	if len(args) != 2 || args[0] != "tx-dis" {
		fmt.Fprintln(s.rl.Stdout(), "usage: get tx-dis <oid>")
		return
	}
	id, err := parseOID(args[1])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	disabled, err := s.host.TxDis(id)
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	if disabled {
		fmt.Fprintln(s.rl.Stdout(), "tx-dis on")
	} else {
		fmt.Fprintln(s.rl.Stdout(), "tx-dis off")
	}
}

func (s *shell) cmdOID(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: oid <hex>")
		return
	}
	id, err := parseOID(args[0])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "type=%s module-index=%d index=%d module-id=%s\n",
		id.Type(), id.ModuleIndex(), id.Index(), id.ModuleID())
}

func (s *shell) cmdAdd(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: add <location>")
		return
	}
	id, err := s.host.AddModule(ctx, args[0])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "module %s ready\n", id)
}

func (s *shell) cmdStop(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: stop <oid>")
		return
	}
	id, err := parseOID(args[0])
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	if err := s.host.StopModule(ctx, id); err != nil {
		fmt.Fprintln(s.rl.Stdout(), err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "stopped")
}

func parseOID(arg string) (tai.ObjectID, error) {
	raw, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad object id %q", arg)
	}
	return tai.ObjectID(raw), nil
}

func parseState(arg string) (tai.State, error) {
	switch strings.ToLower(arg) {
	case "init":
		return tai.StateInit, nil
	case "waiting-configuration", "waiting":
		return tai.StateWaitingConfiguration, nil
	case "ready":
		return tai.StateReady, nil
	case "end":
		return tai.StateEnd, nil
	default:
		return 0, fmt.Errorf("unknown state %q", arg)
	}
}
