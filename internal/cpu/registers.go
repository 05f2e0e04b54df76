package cpu

import (
	"fmt"

	"github.com/thelolagemann/gbcore/internal/types"
)

// Registers contains the 8-bit registers, the flags, and the 16-bit
// register pairs viewing B:C, D:E and H:L.
type Registers struct {
	A types.Register
	B types.Register
	C types.Register
	D types.Register
	E types.Register
	H types.Register
	L types.Register

	// F holds the flags.
	F Flags

	BC *types.RegisterPair
	DE *types.RegisterPair
	HL *types.RegisterPair
}

// reg8 names an 8-bit register.
type reg8 uint8

const (
	regA reg8 = iota
	regB
	regC
	regD
	regE
	regH
	regL
)

// reg16 names a 16-bit register or register pair.
type reg16 uint8

const (
	regBC reg16 = iota
	regDE
	regHL
	regSP
	regAF
)

var reg8Names = [...]string{"A", "B", "C", "D", "E", "H", "L"}

var reg16Names = [...]string{"BC", "DE", "HL", "SP", "AF"}

func (r reg8) String() string {
	return reg8Names[r]
}

func (r reg16) String() string {
	return reg16Names[r]
}

// register returns a pointer to the given 8-bit register.
func (c *CPU) register(r reg8) *types.Register {
	switch r {
	case regA:
		return &c.A
	case regB:
		return &c.B
	case regC:
		return &c.C
	case regD:
		return &c.D
	case regE:
		return &c.E
	case regH:
		return &c.H
	case regL:
		return &c.L
	}
	panic(fmt.Sprintf("invalid register index: %d", r))
}

// registerPair returns the value of the given 16-bit register.
func (c *CPU) registerPair(r reg16) uint16 {
	switch r {
	case regBC:
		return c.BC.Uint16()
	case regDE:
		return c.DE.Uint16()
	case regHL:
		return c.HL.Uint16()
	case regSP:
		return c.SP
	case regAF:
		return uint16(c.A)<<8 | uint16(c.F.Byte())
	}
	panic(fmt.Sprintf("invalid register pair index: %d", r))
}

// setRegisterPair sets the given 16-bit register.
func (c *CPU) setRegisterPair(r reg16, value uint16) {
	switch r {
	case regBC:
		c.BC.SetUint16(value)
	case regDE:
		c.DE.SetUint16(value)
	case regHL:
		c.HL.SetUint16(value)
	case regSP:
		c.SP = value
	case regAF:
		c.A = uint8(value >> 8)
		c.F.SetByte(uint8(value))
	default:
		panic(fmt.Sprintf("invalid register pair index: %d", r))
	}
}

// String returns a one line register dump.
func (c *CPU) String() string {
	return fmt.Sprintf("A: %02X F: %s B: %02X C: %02X D: %02X E: %02X H: %02X L: %02X SP: %04X PC: %04X",
		c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP, c.PC)
}
