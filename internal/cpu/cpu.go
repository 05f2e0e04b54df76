package cpu

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Bus is the memory the CPU reads and writes through. Addresses wrap
// at 64K.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU represents the SM83 core. It is responsible for decoding and
// executing instructions, one per Step.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	IRQ *interrupts.Service

	bus   Bus
	table *opcodes.Table

	// resolved caches operand resolution per opcode space and opcode
	resolved [2][256]*instruction
}

// StepResult describes a retired instruction.
type StepResult struct {
	// Address is the address the instruction was fetched from.
	Address     uint16
	Instruction *opcodes.Descriptor

	// Interrupted is set when an interrupt was vectored after the
	// instruction retired.
	Interrupted bool
	Interrupt   interrupts.Source
}

// NewCPU creates a new CPU instance reading and writing through bus
// and decoding with table. A nil irq gets a fresh interrupt service.
func NewCPU(bus Bus, table *opcodes.Table, irq *interrupts.Service) *CPU {
	if irq == nil {
		irq = interrupts.NewService()
	}
	c := &CPU{
		bus:   bus,
		table: table,
		IRQ:   irq,
	}
	// create register pairs
	c.BC = &types.RegisterPair{High: &c.B, Low: &c.C}
	c.DE = &types.RegisterPair{High: &c.D, Low: &c.E}
	c.HL = &types.RegisterPair{High: &c.H, Low: &c.L}

	return c
}

// Step executes the instruction at PC, then services at most one
// interrupt. On error the CPU is left untouched.
func (c *CPU) Step() (StepResult, error) {
	ins, err := c.fetch()
	if err != nil {
		return StepResult{Address: c.PC}, err
	}

	pc := c.PC
	next, o := c.execute(ins)
	c.F.apply(ins.Flags, o)
	c.PC = next

	result := StepResult{Address: pc, Instruction: ins.Descriptor}
	result.Interrupt, result.Interrupted = c.serviceInterrupt()
	return result, nil
}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface.
func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F.SetByte(s.Read8())
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.IRQ.Load(s)
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F.Byte())
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	c.IRQ.Save(s)
}
