package cpu

import (
	"github.com/thelolagemann/gbcore/internal/opcodes"
)

// family is an operation family. Every mnemonic the CPU implements
// maps to exactly one family, and execute switches over all of them.
type family uint8

const (
	familyNOP family = iota
	familyLD
	familyLDH
	familyADD
	familyADC
	familySUB
	familySBC
	familyCP
	familyINC
	familyDEC
	familyAND
	familyXOR
	familyOR
	familyBIT
	familyRL
	familyRLA
	familyJR
	familyJP
	familyCALL
	familyRET
	familyRETI
	familyRST
	familyPUSH
	familyPOP
	familyDI
	familyEI
	familyCPL
	familySCF
	familyCCF
)

// families maps a mnemonic to its family. A mnemonic missing from
// here is reported as unimplemented.
var families = map[string]family{
	"NOP":  familyNOP,
	"LD":   familyLD,
	"LDH":  familyLDH,
	"ADD":  familyADD,
	"ADC":  familyADC,
	"SUB":  familySUB,
	"SBC":  familySBC,
	"CP":   familyCP,
	"INC":  familyINC,
	"DEC":  familyDEC,
	"AND":  familyAND,
	"XOR":  familyXOR,
	"OR":   familyOR,
	"BIT":  familyBIT,
	"RL":   familyRL,
	"RLA":  familyRLA,
	"JR":   familyJR,
	"JP":   familyJP,
	"CALL": familyCALL,
	"RET":  familyRET,
	"RETI": familyRETI,
	"RST":  familyRST,
	"PUSH": familyPUSH,
	"POP":  familyPOP,
	"DI":   familyDI,
	"EI":   familyEI,
	"CPL":  familyCPL,
	"SCF":  familySCF,
	"CCF":  familyCCF,
}

// instruction is a descriptor with its operands resolved. Resolved
// instructions are cached per opcode, so immediates are read relative
// to PC, which is only committed after execute.
type instruction struct {
	*opcodes.Descriptor

	family   family
	operands []operand
}

// condition returns the branch condition, if the instruction has one.
func (ins *instruction) condition() (condition, bool) {
	if len(ins.operands) > 0 && ins.operands[0].kind == operandCondition {
		return ins.operands[0].cond, true
	}
	return 0, false
}

// last returns the final operand.
func (ins *instruction) last() operand {
	return ins.operands[len(ins.operands)-1]
}

// resolve maps the descriptor's mnemonic to a family and its operand
// tokens to operands, rejecting any pattern execute cannot handle.
func resolve(d *opcodes.Descriptor) (*instruction, error) {
	fam, ok := families[d.Mnemonic]
	if !ok {
		return nil, unimplemented(d)
	}
	ins := &instruction{Descriptor: d, family: fam}
	tokens := d.Operands

	operands := make([]operand, 0, len(tokens))
	for _, token := range tokens {
		op, ok := parseOperand(token)
		if !ok {
			// conditions and numbers are validated per family below
			op = operand{kind: operandNumber, n: 0xFFFF}
		}
		operands = append(operands, op)
	}

	valid := false
	switch fam {
	case familyNOP, familyRLA, familyRETI, familyDI, familyEI, familyCPL, familySCF, familyCCF:
		valid = len(tokens) == 0
	case familyLD:
		valid = len(operands) == 2 && validLoad(operands[0], operands[1])
	case familyLDH:
		valid = len(operands) == 2 && validHighLoad(operands[0], operands[1])
	case familyADD:
		if len(operands) == 2 {
			dst, src := operands[0], operands[1]
			valid = dst.kind == operandReg8 && dst.reg8 == regA && src.is8() ||
				dst.isReg16(regHL) && src.isReg16(regBC, regDE, regHL, regSP) ||
				dst.isReg16(regSP) && src.kind == operandRel8
		}
	case familyADC, familySBC, familySUB, familyAND, familyXOR, familyOR, familyCP:
		// both "SUB B" and "SUB A,B" are accepted
		if len(operands) == 2 && operands[0].kind == operandReg8 && operands[0].reg8 == regA {
			operands = operands[1:]
		}
		valid = len(operands) == 1 && operands[0].is8()
	case familyINC, familyDEC:
		valid = len(operands) == 1 && (operands[0].writable8() || operands[0].isReg16(regBC, regDE, regHL, regSP))
	case familyBIT:
		if len(tokens) == 2 {
			n, ok := parseNumber(tokens[0])
			operands[0] = n
			valid = ok && n.n < 8 && operands[1].writable8()
		}
	case familyRL:
		valid = len(operands) == 1 && operands[0].writable8()
	case familyJR, familyJP, familyCALL:
		if len(tokens) == 2 {
			cc, ok := parseCondition(tokens[0])
			if !ok {
				break
			}
			operands[0] = cc
		} else if len(tokens) != 1 {
			break
		}
		target := operands[len(operands)-1]
		switch fam {
		case familyJR:
			valid = target.kind == operandRel8
		case familyCALL:
			valid = target.kind == operandJump16
		case familyJP:
			valid = target.kind == operandJump16 ||
				len(tokens) == 1 && (target.kind == operandIndirect || target.kind == operandReg16) && target.reg16 == regHL
		}
	case familyRET:
		valid = len(tokens) == 0
		if len(tokens) == 1 {
			operands[0], valid = parseCondition(tokens[0])
		}
	case familyRST:
		if len(tokens) == 1 {
			n, ok := parseNumber(tokens[0])
			operands[0] = n
			valid = ok && n.n <= 0x38 && n.n%8 == 0
		}
	case familyPUSH, familyPOP:
		valid = len(operands) == 1 && operands[0].isReg16(regBC, regDE, regHL, regAF)
	}
	if !valid {
		return nil, unimplemented(d)
	}

	ins.operands = operands
	return ins, nil
}

// validLoad reports whether LD dst,src is a supported pattern.
func validLoad(dst, src operand) bool {
	switch {
	case dst.writable8() && src.is8():
		return !(dst.memory() && src.memory())
	case dst.isReg16(regBC, regDE, regHL, regSP) && src.kind == operandImm16:
		return true
	case dst.isReg16(regSP) && src.isReg16(regHL):
		return true
	case dst.isReg16(regHL) && src.kind == operandSPRel8:
		return true
	case dst.kind == operandAddr16 && src.isReg16(regSP):
		return true
	}
	return false
}

// validHighLoad reports whether LDH dst,src is a supported pattern:
// A to or from the IO page.
func validHighLoad(dst, src operand) bool {
	high := func(o operand) bool {
		return o.kind == operandHighImm8 || o.kind == operandHighC
	}
	isA := func(o operand) bool {
		return o.kind == operandReg8 && o.reg8 == regA
	}
	return high(dst) && isA(src) || isA(dst) && high(src)
}

// checkCondition evaluates a branch condition against the flags.
func (c *CPU) checkCondition(cc condition) bool {
	switch cc {
	case conditionZ:
		return c.F.Zero
	case conditionNZ:
		return !c.F.Zero
	case conditionC:
		return c.F.Carry
	case conditionNC:
		return !c.F.Carry
	}
	return false
}

// taken reports whether a branch instruction's condition holds. A
// branch without a condition is always taken.
func (c *CPU) taken(ins *instruction) bool {
	if cc, ok := ins.condition(); ok {
		return c.checkCondition(cc)
	}
	return true
}

// execute performs ins, returning the next PC and what the
// instruction computed for the flags. ins has been validated by
// resolve, so execute never fails.
func (c *CPU) execute(ins *instruction) (uint16, outcome) {
	next := c.PC + uint16(ins.Length)
	var o outcome

	switch ins.family {
	case familyNOP:
	case familyLD, familyLDH:
		o = c.load(ins)
	case familyADD:
		dst, src := ins.operands[0], ins.operands[1]
		switch {
		case dst.isReg16(regHL):
			var v uint16
			v, o = add16(c.HL.Uint16(), c.registerPair(src.reg16))
			c.HL.SetUint16(v)
		case dst.isReg16(regSP):
			c.SP, o = addSigned(c.SP, c.imm8())
		default:
			c.A, o = add8(c.A, c.read8(src), false)
		}
	case familyADC:
		c.A, o = add8(c.A, c.read8(ins.last()), c.F.Carry)
	case familySUB:
		c.A, o = sub8(c.A, c.read8(ins.last()), false)
	case familySBC:
		c.A, o = sub8(c.A, c.read8(ins.last()), c.F.Carry)
	case familyCP:
		_, o = sub8(c.A, c.read8(ins.last()), false)
	case familyINC:
		if op := ins.last(); op.kind == operandReg16 {
			c.setRegisterPair(op.reg16, c.registerPair(op.reg16)+1)
		} else {
			c.modify8(op, func(v uint8) uint8 {
				v, o = inc8(v)
				return v
			})
		}
	case familyDEC:
		if op := ins.last(); op.kind == operandReg16 {
			c.setRegisterPair(op.reg16, c.registerPair(op.reg16)-1)
		} else {
			c.modify8(op, func(v uint8) uint8 {
				v, o = dec8(v)
				return v
			})
		}
	case familyAND:
		c.A, o = and(c.A, c.read8(ins.last()))
	case familyXOR:
		c.A, o = xor(c.A, c.read8(ins.last()))
	case familyOR:
		c.A, o = or(c.A, c.read8(ins.last()))
	case familyBIT:
		o = testBit(c.read8(ins.operands[1]), uint8(ins.operands[0].n))
	case familyRL:
		carry := c.F.Carry
		c.modify8(ins.last(), func(v uint8) uint8 {
			v, o = rotateLeftThroughCarry(v, carry)
			return v
		})
	case familyRLA:
		c.A, o = rotateLeftThroughCarry(c.A, c.F.Carry)
	case familyJR:
		if c.taken(ins) {
			next = uint16(int(next) + signedOffset(c.imm8()))
		}
	case familyJP:
		if target := ins.last(); target.kind != operandJump16 {
			next = c.HL.Uint16()
		} else if c.taken(ins) {
			next = c.imm16()
		}
	case familyCALL:
		if c.taken(ins) {
			c.pushValue(next)
			next = c.imm16()
		}
	case familyRET:
		if c.taken(ins) {
			next = c.popValue()
		}
	case familyRETI:
		next = c.popValue()
		c.IRQ.IME = true
	case familyRST:
		c.pushValue(next)
		next = ins.last().n
	case familyPUSH:
		c.pushValue(c.registerPair(ins.last().reg16))
	case familyPOP:
		// POP AF writes the flags directly, its effect code is
		// all computed symbols so apply leaves them alone
		c.setRegisterPair(ins.last().reg16, c.popValue())
	case familyDI:
		c.IRQ.IME = false
	case familyEI:
		c.IRQ.IME = true
	case familyCPL:
		c.A = ^c.A
		o = resultOf(c.A)
	case familySCF:
	case familyCCF:
		o = outcome{defined: true, result: 1, carry: !c.F.Carry}
	}

	return next, o
}

// load performs LD and LDH.
func (c *CPU) load(ins *instruction) outcome {
	dst, src := ins.operands[0], ins.operands[1]
	switch {
	case dst.kind == operandAddr16 && src.isReg16(regSP):
		addr := c.imm16()
		c.bus.Write(addr, uint8(c.SP))
		c.bus.Write(addr+1, uint8(c.SP>>8))
	case dst.isReg16() && src.kind == operandImm16:
		c.setRegisterPair(dst.reg16, c.imm16())
	case dst.isReg16(regSP) && src.isReg16(regHL):
		c.SP = c.HL.Uint16()
	case dst.isReg16(regHL) && src.kind == operandSPRel8:
		v, o := addSigned(c.SP, c.imm8())
		c.HL.SetUint16(v)
		return o
	default:
		c.write8(dst, c.read8(src))
	}
	return outcome{}
}
