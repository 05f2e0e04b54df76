package debugger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thelolagemann/gbcore/pkg/utils"
)

// ErrInvalidCommand is returned for input outside the command set. It
// is recoverable: the input is reported and the user re-prompted.
var ErrInvalidCommand = errors.New("invalid command")

// CommandKind is one of the debugger commands.
type CommandKind uint8

const (
	// CommandStep executes one instruction and pauses again.
	CommandStep CommandKind = iota
	// CommandBreak adds (or re-arms) a breakpoint.
	CommandBreak
	// CommandContinue runs until the next breakpoint.
	CommandContinue
	// CommandDelete removes a breakpoint by index.
	CommandDelete
	// CommandList lists the breakpoints.
	CommandList
	// CommandRegisters dumps the registers.
	CommandRegisters
	// CommandQuit stops the run.
	CommandQuit
)

func (k CommandKind) String() string {
	switch k {
	case CommandStep:
		return "step"
	case CommandBreak:
		return "break"
	case CommandContinue:
		return "continue"
	case CommandDelete:
		return "delete"
	case CommandList:
		return "list"
	case CommandRegisters:
		return "regs"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed command line.
type Command struct {
	Kind CommandKind

	// Address is the breakpoint address of CommandBreak.
	Address uint16
	// Index is the 1-based breakpoint index of CommandDelete.
	Index int
}

// Help lists the command set.
const Help = `commands:
  step (or empty line)   execute one instruction
  break, b <addr>        set a breakpoint (0x hex or decimal)
  continue, c            run until the next breakpoint
  delete, d <index>      delete a breakpoint
  list, l                list breakpoints
  regs, r                dump registers
  quit, q                stop`

// Parse parses a single command line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CommandStep}, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	noArgs := func(kind CommandKind) (Command, error) {
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrInvalidCommand, kind)
		}
		return Command{Kind: kind}, nil
	}

	switch name {
	case "step":
		return noArgs(CommandStep)
	case "continue", "c":
		return noArgs(CommandContinue)
	case "list", "l":
		return noArgs(CommandList)
	case "regs", "r":
		return noArgs(CommandRegisters)
	case "quit", "q":
		return noArgs(CommandQuit)
	case "break", "b":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: usage: break <addr>", ErrInvalidCommand)
		}
		addr, err := utils.ParseUint[uint16](args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad address %q", ErrInvalidCommand, args[0])
		}
		return Command{Kind: CommandBreak, Address: addr}, nil
	case "delete", "d":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: usage: delete <index>", ErrInvalidCommand)
		}
		index, err := utils.ParseUint[uint16](args[0])
		if err != nil || index == 0 {
			return Command{}, fmt.Errorf("%w: bad index %q", ErrInvalidCommand, args[0])
		}
		return Command{Kind: CommandDelete, Index: int(index)}, nil
	}

	return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, line)
}
