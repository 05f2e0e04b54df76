package cpu

import (
	"strconv"
	"strings"

	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

// operandKind is the addressing mode of an operand token.
type operandKind uint8

const (
	operandReg8         operandKind = iota // A, B, C, D, E, H, L
	operandReg16                           // BC, DE, HL, SP, AF
	operandIndirect                        // (BC), (DE), (HL)
	operandIndirectInc                     // (HL+)
	operandIndirectDec                     // (HL-)
	operandHighC                           // (C), 0xFF00 + C
	operandHighImm8                        // (a8), 0xFF00 + d8
	operandImm8                            // d8
	operandImm16                           // d16
	operandAddr16                          // (a16)
	operandJump16                          // a16, a jump or call target
	operandRel8                            // r8, a signed offset
	operandSPRel8                          // SP+r8
	operandCondition                       // NZ, Z, NC, C
	operandNumber                          // bit index or restart vector
)

// condition is a branch condition.
type condition uint8

const (
	conditionNZ condition = iota
	conditionZ
	conditionNC
	conditionC
)

type operand struct {
	kind operandKind

	reg8  reg8
	reg16 reg16
	cond  condition
	n     uint16
}

// operandTokens maps the table's operand tokens (upper-cased) to
// operands. Conditions and numbers are resolved by position.
var operandTokens = map[string]operand{
	"A": {kind: operandReg8, reg8: regA},
	"B": {kind: operandReg8, reg8: regB},
	"C": {kind: operandReg8, reg8: regC},
	"D": {kind: operandReg8, reg8: regD},
	"E": {kind: operandReg8, reg8: regE},
	"H": {kind: operandReg8, reg8: regH},
	"L": {kind: operandReg8, reg8: regL},

	"BC": {kind: operandReg16, reg16: regBC},
	"DE": {kind: operandReg16, reg16: regDE},
	"HL": {kind: operandReg16, reg16: regHL},
	"SP": {kind: operandReg16, reg16: regSP},
	"AF": {kind: operandReg16, reg16: regAF},

	"(BC)":  {kind: operandIndirect, reg16: regBC},
	"(DE)":  {kind: operandIndirect, reg16: regDE},
	"(HL)":  {kind: operandIndirect, reg16: regHL},
	"(HL+)": {kind: operandIndirectInc, reg16: regHL},
	"(HLI)": {kind: operandIndirectInc, reg16: regHL},
	"(HL-)": {kind: operandIndirectDec, reg16: regHL},
	"(HLD)": {kind: operandIndirectDec, reg16: regHL},
	"(C)":   {kind: operandHighC},

	"D8":    {kind: operandImm8},
	"(A8)":  {kind: operandHighImm8},
	"D16":   {kind: operandImm16},
	"A16":   {kind: operandJump16},
	"(A16)": {kind: operandAddr16},
	"R8":    {kind: operandRel8},
	"SP+R8": {kind: operandSPRel8},
}

var conditionTokens = map[string]condition{
	"NZ": conditionNZ,
	"Z":  conditionZ,
	"NC": conditionNC,
	"C":  conditionC,
}

// parseOperand resolves a single register or addressing token.
func parseOperand(token string) (operand, bool) {
	op, ok := operandTokens[strings.ToUpper(strings.TrimSpace(token))]
	return op, ok
}

// parseCondition resolves a condition token.
func parseCondition(token string) (operand, bool) {
	cc, ok := conditionTokens[strings.ToUpper(strings.TrimSpace(token))]
	return operand{kind: operandCondition, cond: cc}, ok
}

// parseNumber resolves a bit index ("7") or restart vector ("38H").
func parseNumber(token string) (operand, bool) {
	token = strings.ToUpper(strings.TrimSpace(token))
	base := 10
	if strings.HasSuffix(token, "H") {
		token = strings.TrimSuffix(token, "H")
		base = 16
	} else if strings.HasPrefix(token, "$") {
		token = token[1:]
		base = 16
	} else if strings.HasPrefix(token, "0X") {
		token = token[2:]
		base = 16
	}
	v, err := strconv.ParseUint(token, base, 16)
	if err != nil {
		return operand{}, false
	}
	return operand{kind: operandNumber, n: uint16(v)}, true
}

// is8 reports whether the operand denotes an 8-bit value.
func (o operand) is8() bool {
	switch o.kind {
	case operandReg8, operandIndirect, operandIndirectInc, operandIndirectDec,
		operandHighC, operandHighImm8, operandImm8, operandAddr16:
		return true
	}
	return false
}

// writable8 reports whether an 8-bit value can be stored to the operand.
func (o operand) writable8() bool {
	return o.is8() && o.kind != operandImm8
}

// memory reports whether the operand addresses the bus.
func (o operand) memory() bool {
	return o.is8() && o.kind != operandReg8 && o.kind != operandImm8
}

func (o operand) isReg16(regs ...reg16) bool {
	if o.kind != operandReg16 {
		return false
	}
	if len(regs) == 0 {
		return true
	}
	for _, r := range regs {
		if o.reg16 == r {
			return true
		}
	}
	return false
}

// imm8 returns the byte following the opcode.
func (c *CPU) imm8() uint8 {
	return c.bus.Read(c.PC + 1)
}

// imm16 returns the little-endian word following the opcode.
func (c *CPU) imm16() uint16 {
	return utils.BytesToUint16(c.bus.Read(c.PC+2), c.bus.Read(c.PC+1))
}

// address returns the bus address of a memory operand.
func (c *CPU) address(o operand) uint16 {
	switch o.kind {
	case operandIndirect, operandIndirectInc, operandIndirectDec:
		return c.registerPair(o.reg16)
	case operandHighC:
		return types.IOBase + uint16(c.C)
	case operandHighImm8:
		return types.IOBase + uint16(c.imm8())
	case operandAddr16:
		return c.imm16()
	}
	panic("operand does not address memory")
}

// adjust applies the post-access increment or decrement of HL.
func (c *CPU) adjust(o operand) {
	switch o.kind {
	case operandIndirectInc:
		c.HL.SetUint16(c.HL.Uint16() + 1)
	case operandIndirectDec:
		c.HL.SetUint16(c.HL.Uint16() - 1)
	}
}

// read8 reads an 8-bit operand, performing any HL adjustment.
func (c *CPU) read8(o operand) uint8 {
	switch o.kind {
	case operandReg8:
		return *c.register(o.reg8)
	case operandImm8:
		return c.imm8()
	}
	v := c.bus.Read(c.address(o))
	c.adjust(o)
	return v
}

// write8 writes an 8-bit operand, performing any HL adjustment.
func (c *CPU) write8(o operand, v uint8) {
	if o.kind == operandReg8 {
		*c.register(o.reg8) = v
		return
	}
	c.bus.Write(c.address(o), v)
	c.adjust(o)
}

// modify8 reads, transforms and writes back an 8-bit operand. A
// memory operand is addressed once.
func (c *CPU) modify8(o operand, fn func(uint8) uint8) {
	if o.kind == operandReg8 {
		r := c.register(o.reg8)
		*r = fn(*r)
		return
	}
	addr := c.address(o)
	c.bus.Write(addr, fn(c.bus.Read(addr)))
	c.adjust(o)
}
