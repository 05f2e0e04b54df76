// Package machine wires the bus, CPU, interrupt controller and
// debugger together and owns the run loop.
package machine

import (
	"context"
	"errors"
	"fmt"
	io2 "io"
	"os"

	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/debugger"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/io"
	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/stats"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

const (
	// softwareBreakpoint is LD B,B.
	softwareBreakpoint = 0x40
	// initialSP is the stack pointer left by the boot ROM.
	initialSP = 0xFFFE
)

// Machine is a CPU running a program from a flat 64KB bus.
type Machine struct {
	CPU        *cpu.CPU
	Bus        *io.Bus
	Interrupts *interrupts.Service
	Serial     *serial.Controller
	// Debugger is nil unless debugging or breakpoints were requested.
	Debugger *debugger.Controller

	log.Logger

	table     *opcodes.Table
	histogram *stats.Histogram
	status    Status
	steps     uint64

	maxSteps           uint64
	softwareBreakpoint bool
	origin             uint16
	serialOut          io2.Writer

	debug       bool
	source      debugger.CommandSource
	breakpoints []uint16
}

// New returns a Machine with program loaded at address 0.
func New(program []byte, opts ...Opt) *Machine {
	m := &Machine{
		Bus:        io.NewBus(),
		Interrupts: interrupts.NewService(),
		Logger:     log.NewNullLogger(),
		table:      opcodes.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	// map the interrupt registers onto the bus
	m.Bus.ReserveAddress(types.IF, m.Interrupts.Flag, m.Interrupts.SetFlag)
	m.Bus.ReserveAddress(types.IE, m.Interrupts.EnableMask, m.Interrupts.SetEnableMask)
	m.Serial = serial.NewController(m.Bus, m.Interrupts)
	if m.serialOut != nil {
		m.Serial.Attach(serial.NewWriterDevice(m.serialOut))
	}
	m.Bus.Load(0, program)

	m.CPU = cpu.NewCPU(m.Bus, m.table, m.Interrupts)
	m.CPU.PC = m.origin
	m.CPU.SP = initialSP

	// a source with no breakpoints to stop at would never be asked
	// for a command, so start paused and let it set some
	if m.source != nil && len(m.breakpoints) == 0 {
		m.debug = true
	}
	if m.debug || len(m.breakpoints) > 0 {
		if m.source == nil {
			m.source = debugger.NewConsole(os.Stdin, os.Stdout)
		}
		dopts := []debugger.Opt{
			debugger.WithLogger(m.Logger),
			debugger.WithTarget(m.CPU),
			debugger.OnPause(m.paused),
		}
		if m.debug {
			dopts = append(dopts, debugger.Stepping())
		}
		m.Debugger = debugger.New(m.source, dopts...)
		for _, addr := range m.breakpoints {
			m.Debugger.Break(addr)
		}
	}

	primary, secondary := m.table.Len()
	m.Debugf("loaded %d byte program, table %016x (%d+%d entries)", len(program), m.table.Checksum(), primary, secondary)
	return m
}

// paused tracks the debugger waiting for commands.
func (m *Machine) paused(p bool) {
	if p {
		m.status = Paused
	} else {
		m.status = Running
	}
}

// Status returns the current status.
func (m *Machine) Status() Status {
	return m.status
}

// Steps returns the number of instructions retired.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Step runs the debugger gate, then executes one instruction.
func (m *Machine) Step(ctx context.Context) (cpu.StepResult, error) {
	if m.Debugger != nil && m.Debugger.Active() {
		if err := m.Debugger.Before(ctx, m.CPU.PC); err != nil {
			return cpu.StepResult{Address: m.CPU.PC}, err
		}
	}

	result, err := m.CPU.Step()
	if err != nil {
		return result, err
	}
	m.steps++

	if m.histogram != nil {
		m.histogram.Count(result.Instruction)
	}
	if result.Interrupted {
		m.Debugf("%s interrupt serviced after 0x%04X", interrupts.Name(result.Interrupt), result.Address)
	}
	return result, nil
}

// Run executes instructions until the step limit, a software
// breakpoint, a debugger quit, an error or ctx is cancelled. A clean
// stop returns nil.
func (m *Machine) Run(ctx context.Context) error {
	m.status = Running
	m.Infof("running from 0x%04X", m.CPU.PC)

	for {
		select {
		case <-ctx.Done():
			m.status = Halted
			return ctx.Err()
		default:
		}

		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			m.status = Halted
			m.Infof("stopped after %d instructions at 0x%04X", m.steps, m.CPU.PC)
			return nil
		}

		result, err := m.Step(ctx)
		if err != nil {
			if errors.Is(err, debugger.ErrQuit) {
				m.status = Halted
				m.Infof("quit at 0x%04X", m.CPU.PC)
				return nil
			}
			// cancelled while paused in the debugger
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				m.status = Halted
				return err
			}
			m.status = Errored
			m.Errorf("%v", err)
			m.Errorf("%s", m.CPU)
			return err
		}

		if m.softwareBreakpoint && !result.Instruction.Prefixed && result.Instruction.Opcode == softwareBreakpoint {
			m.status = Halted
			m.Infof("software breakpoint at 0x%04X", result.Address)
			return nil
		}
	}
}

// State returns an uncompressed snapshot of the CPU, the interrupt
// controller, the serial port and memory.
func (m *Machine) State() *types.State {
	s := types.NewState()
	m.save(s)
	s.WriteData(m.Bus.Snapshot())
	return s
}

// SaveState returns a compressed snapshot, see State.
func (m *Machine) SaveState() ([]byte, error) {
	return m.State().Compress()
}

// SaveStateFile writes a compressed snapshot to filename.
func (m *Machine) SaveStateFile(filename string) error {
	return m.State().SaveToFile(filename)
}

// save writes every component except memory.
func (m *Machine) save(s *types.State) {
	m.CPU.Save(s)
	m.Serial.Save(s)
}

// LoadState restores a snapshot taken by SaveState.
func (m *Machine) LoadState(data []byte) error {
	s, err := types.StateFromCompressed(data)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	return m.Restore(s)
}

// LoadStateFile restores a snapshot written by SaveStateFile.
func (m *Machine) LoadStateFile(filename string) error {
	s, err := types.LoadStateFile(filename)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	return m.Restore(s)
}

// Restore loads a snapshot taken by State. The same snapshot can be
// restored any number of times.
func (m *Machine) Restore(s *types.State) error {
	if want := m.stateSize(); len(s.Bytes()) != want {
		return fmt.Errorf("loading state: %w: %d bytes, expected %d", types.ErrCorruptState, len(s.Bytes()), want)
	}

	s.ResetPosition()
	m.CPU.Load(s)
	m.Serial.Load(s)
	memory := make([]byte, io.Size)
	s.ReadData(memory)
	m.Bus.Restore(memory)
	return nil
}

// stateSize is the length of an uncompressed snapshot.
func (m *Machine) stateSize() int {
	s := types.NewState()
	m.save(s)
	return len(s.Bytes()) + io.Size
}
