package cpu

import "github.com/thelolagemann/gbcore/internal/types"

// add8 adds b (and the carry, if carryIn) to a.
//
//	ADD A, n
//	ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func add8(a, b uint8, carryIn bool) (uint8, outcome) {
	var carry uint16
	if carryIn {
		carry = 1
	}
	sum := uint16(a) + uint16(b) + carry
	half := uint16(a&0xF) + uint16(b&0xF) + carry

	return uint8(sum), outcome{
		defined:   true,
		result:    sum & 0xFF,
		halfCarry: half > 0xF,
		carry:     sum > 0xFF,
	}
}

// sub8 subtracts b (and the carry, if borrowIn) from a.
//
//	SUB n
//	SBC A, n
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func sub8(a, b uint8, borrowIn bool) (uint8, outcome) {
	var borrow int16
	if borrowIn {
		borrow = 1
	}
	diff := int16(a) - int16(b) - borrow
	half := int16(a&0xF) - int16(b&0xF) - borrow

	return uint8(diff), outcome{
		defined:   true,
		result:    uint16(uint8(diff)),
		subtract:  true,
		halfCarry: half < 0,
		carry:     diff < 0,
	}
}

// inc8 increments n by 1.
//
//	INC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func inc8(n uint8) (uint8, outcome) {
	v := n + 1
	return v, outcome{defined: true, result: uint16(v), halfCarry: n&0xF == 0xF}
}

// dec8 decrements n by 1.
//
//	DEC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func dec8(n uint8) (uint8, outcome) {
	v := n - 1
	return v, outcome{defined: true, result: uint16(v), subtract: true, halfCarry: n&0xF == 0}
}

// add16 adds two 16-bit values.
//
//	ADD HL, nn
//	nn = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func add16(a, b uint16) (uint16, outcome) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), outcome{
		defined:   true,
		result:    uint16(sum),
		halfCarry: (a&0xFFF)+(b&0xFFF) > 0xFFF,
		carry:     sum > 0xFFFF,
	}
}

// addSigned adds the signed offset to sp. The flags come from the
// unsigned addition of the low byte.
//
//	ADD SP, r8
//	LD HL, SP+r8
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func addSigned(sp uint16, offset uint8) (uint16, outcome) {
	v := uint16(int32(sp) + int32(signedOffset(offset)))
	return v, outcome{
		defined:   true,
		result:    v,
		halfCarry: (sp&0xF)+uint16(offset&0xF) > 0xF,
		carry:     (sp&0xFF)+uint16(offset) > 0xFF,
	}
}

// and performs a bitwise AND.
//
//	AND n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func and(a, b uint8) (uint8, outcome) {
	v := a & b
	o := resultOf(v)
	o.halfCarry = true
	return v, o
}

// or performs a bitwise OR.
//
//	OR n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func or(a, b uint8) (uint8, outcome) {
	v := a | b
	return v, resultOf(v)
}

// xor performs a bitwise XOR.
//
//	XOR n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func xor(a, b uint8) (uint8, outcome) {
	v := a ^ b
	return v, resultOf(v)
}

// testBit tests bit b of value.
//
//	BIT b, r
//	b = 0-7
//	r = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if bit b of r is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func testBit(value, b uint8) outcome {
	o := resultOf(value & (1 << b))
	o.halfCarry = true
	return o
}

// rotateLeftThroughCarry rotates n left through the carry flag, a
// 9-bit rotation: the old carry enters bit 0, bit 7 leaves into the
// carry.
//
//	RL n
//	RLA
//
// Flags affected:
//
//	Z - Set if result is zero (reset for RLA).
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func rotateLeftThroughCarry(n uint8, carryIn bool) (uint8, outcome) {
	v := n << 1
	if carryIn {
		v |= types.Bit0
	}
	o := resultOf(v)
	o.carry = n&types.Bit7 != 0
	return v, o
}

// signedOffset decodes a relative offset byte: values of 128 and
// above are negative.
func signedOffset(v uint8) int {
	if v >= 0x80 {
		return int(v) - 256
	}
	return int(v)
}
