// Package debugger gates the execute loop with breakpoints and single
// stepping, driven by a closed set of commands read from a
// CommandSource.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thelolagemann/gbcore/pkg/log"
)

// ErrQuit is returned by Before when the user quits.
var ErrQuit = errors.New("debugger: quit")

// State is the run mode of the Controller.
type State uint8

const (
	// Running executes freely until an armed breakpoint is reached.
	Running State = iota
	// PausedAtBreakpoint waits for a command before the instruction
	// at a breakpoint.
	PausedAtBreakpoint
	// SteppingOneInstruction waits for a command before every
	// instruction.
	SteppingOneInstruction
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case PausedAtBreakpoint:
		return "PausedAtBreakpoint"
	case SteppingOneInstruction:
		return "SteppingOneInstruction"
	default:
		return "Unknown"
	}
}

// CommandSource supplies command lines and receives the replies.
type CommandSource interface {
	// Next blocks until a command line is available.
	Next(ctx context.Context) (string, error)
	// Reply sends a message back to the user.
	Reply(msg string) error
}

// Target is what the debugger inspects while paused. *cpu.CPU
// satisfies it.
type Target interface {
	String() string
	Disassemble(pc uint16) (string, error)
}

// Breakpoint is an entry of the breakpoint list.
type Breakpoint struct {
	// Index is the 1-based display index, stable across deletions.
	Index   int
	Address uint16
	// Armed breakpoints pause execution. A breakpoint disarms when
	// it is hit, and is re-armed by breaking on its address again.
	Armed bool
}

// Controller decides, before each instruction, whether execution
// should pause, and if so blocks on its CommandSource until a
// command resumes it.
type Controller struct {
	state State

	// deleted entries are left nil so indices stay stable
	breakpoints []*Breakpoint
	armed       int

	source  CommandSource
	target  Target
	onPause func(paused bool)
	log     log.Logger
}

// Opt configures a Controller.
type Opt func(c *Controller)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Opt {
	return func(c *Controller) {
		c.log = l
	}
}

// WithTarget sets the Target used by the regs command and pause
// notifications.
func WithTarget(t Target) Opt {
	return func(c *Controller) {
		c.target = t
	}
}

// OnPause registers fn to be called with true when Before starts
// waiting for commands, and with false when it returns.
func OnPause(fn func(paused bool)) Opt {
	return func(c *Controller) {
		c.onPause = fn
	}
}

// Stepping starts the Controller in SteppingOneInstruction, pausing
// before the first instruction.
func Stepping() Opt {
	return func(c *Controller) {
		c.state = SteppingOneInstruction
	}
}

// New returns a Controller reading commands from source.
func New(source CommandSource, opts ...Opt) *Controller {
	c := &Controller{
		source: source,
		log:    log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether Before can pause. When it returns false the
// run loop may skip the debugger entirely.
func (c *Controller) Active() bool {
	return c.state != Running || c.armed > 0
}

// Break adds a breakpoint at addr and returns its index. Breaking on
// an address already in the list re-arms that entry instead.
func (c *Controller) Break(addr uint16) int {
	for _, bp := range c.breakpoints {
		if bp != nil && bp.Address == addr {
			if !bp.Armed {
				bp.Armed = true
				c.armed++
			}
			return bp.Index
		}
	}

	bp := &Breakpoint{Index: len(c.breakpoints) + 1, Address: addr, Armed: true}
	c.breakpoints = append(c.breakpoints, bp)
	c.armed++
	return bp.Index
}

// Delete removes the breakpoint with the given 1-based index. The
// indices of the remaining breakpoints do not change.
func (c *Controller) Delete(index int) error {
	if index < 1 || index > len(c.breakpoints) || c.breakpoints[index-1] == nil {
		return fmt.Errorf("%w: no breakpoint %d", ErrInvalidCommand, index)
	}
	if c.breakpoints[index-1].Armed {
		c.armed--
	}
	c.breakpoints[index-1] = nil
	return nil
}

// Breakpoints returns the surviving breakpoints in index order.
func (c *Controller) Breakpoints() []Breakpoint {
	var bps []Breakpoint
	for _, bp := range c.breakpoints {
		if bp != nil {
			bps = append(bps, *bp)
		}
	}
	return bps
}

// Before is called before the instruction at pc executes. It returns
// once execution may proceed, or with ErrQuit or the source's error.
func (c *Controller) Before(ctx context.Context, pc uint16) error {
	if bp := c.hit(pc); bp != nil {
		bp.Armed = false
		c.armed--
		c.state = PausedAtBreakpoint
		c.log.Debugf("breakpoint %d hit at 0x%04X", bp.Index, pc)
		if err := c.source.Reply(fmt.Sprintf("breakpoint %d hit at 0x%04X", bp.Index, pc)); err != nil {
			return err
		}
	}
	if c.state == Running {
		return nil
	}

	if c.onPause != nil {
		c.onPause(true)
		defer c.onPause(false)
	}
	if err := c.source.Reply(c.where(pc)); err != nil {
		return err
	}
	for {
		line, err := c.source.Next(ctx)
		if err != nil {
			return err
		}

		resume, reply, err := c.Execute(line)
		if err != nil {
			if !errors.Is(err, ErrInvalidCommand) {
				return err
			}
			reply = err.Error()
		}
		if reply != "" {
			if err := c.source.Reply(reply); err != nil {
				return err
			}
		}
		if resume {
			return nil
		}
	}
}

// Execute parses and applies one command line, returning whether
// execution resumes and the acknowledgment for the user.
func (c *Controller) Execute(line string) (bool, string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return false, "", err
	}
	c.log.Debugf("debugger command: %s", cmd.Kind)

	switch cmd.Kind {
	case CommandStep:
		c.state = SteppingOneInstruction
		return true, "", nil
	case CommandContinue:
		c.state = Running
		return true, "continuing", nil
	case CommandBreak:
		index := c.Break(cmd.Address)
		return false, fmt.Sprintf("breakpoint %d at 0x%04X", index, cmd.Address), nil
	case CommandDelete:
		if err := c.Delete(cmd.Index); err != nil {
			return false, "", err
		}
		return false, fmt.Sprintf("deleted breakpoint %d", cmd.Index), nil
	case CommandList:
		return false, c.list(), nil
	case CommandRegisters:
		if c.target == nil {
			return false, "no target", nil
		}
		return false, c.target.String(), nil
	case CommandQuit:
		return false, "", ErrQuit
	}
	return false, "", fmt.Errorf("%w: %q", ErrInvalidCommand, line)
}

// hit returns the armed breakpoint at pc, if any.
func (c *Controller) hit(pc uint16) *Breakpoint {
	if c.armed == 0 {
		return nil
	}
	for _, bp := range c.breakpoints {
		if bp != nil && bp.Armed && bp.Address == pc {
			return bp
		}
	}
	return nil
}

func (c *Controller) list() string {
	bps := c.Breakpoints()
	if len(bps) == 0 {
		return "no breakpoints"
	}
	var b strings.Builder
	for i, bp := range bps {
		if i > 0 {
			b.WriteByte('\n')
		}
		state := "armed"
		if !bp.Armed {
			state = "disarmed"
		}
		fmt.Fprintf(&b, "%d: 0x%04X (%s)", bp.Index, bp.Address, state)
	}
	return b.String()
}

// where describes the paused location.
func (c *Controller) where(pc uint16) string {
	if c.target == nil {
		return fmt.Sprintf("0x%04X", pc)
	}
	text, err := c.target.Disassemble(pc)
	if err != nil {
		return fmt.Sprintf("0x%04X: %v", pc, err)
	}
	return fmt.Sprintf("0x%04X: %s", pc, text)
}
