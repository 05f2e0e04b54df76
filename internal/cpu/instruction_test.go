package cpu

import (
	"math/rand"
	"testing"
)

func TestInstruction_Arithmetic(t *testing.T) {
	// 0x80 - ADD A, B
	for i := 0; i < 64; i++ {
		x, y := uint8(rand.Intn(256)), uint8(rand.Intn(256))
		c, _ := newTestCPU(0x0100, 0x80)
		c.A, c.B = x, y

		step(t, c)
		if c.A != x+y {
			t.Errorf("%02X + %02X: expected %02X, got %02X", x, y, x+y, c.A)
		}
		if c.F.Carry != (int(x)+int(y) >= 256) {
			t.Errorf("%02X + %02X: unexpected carry %v", x, y, c.F.Carry)
		}
		if c.F.Subtract {
			t.Error("expected N to be reset")
		}
	}

	// 0x90 - SUB B
	c, _ := newTestCPU(0x0100, 0x90)
	c.A, c.B = 0x10, 0x01
	step(t, c)
	if c.A != 0x0F || !c.F.Subtract || !c.F.HalfCarry || c.F.Carry || c.F.Zero {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0xB8 - CP B, A is not written back
	c, _ = newTestCPU(0x0100, 0xB8)
	c.A, c.B = 0x42, 0x42
	step(t, c)
	if c.A != 0x42 || !c.F.Zero || !c.F.Subtract {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0x8E - ADC A, (HL)
	c, bus := newTestCPU(0x0100, 0x8E)
	c.HL.SetUint16(0xC000)
	bus.Set(0xC000, 0x0E)
	c.A, c.F.Carry = 0x01, true
	step(t, c)
	if c.A != 0x10 || !c.F.HalfCarry || c.F.Carry {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0x05 - DEC B leaves the carry alone
	c, _ = newTestCPU(0x0100, 0x05)
	c.B, c.F.Carry = 0x01, true
	step(t, c)
	if c.B != 0 || !c.F.Zero || !c.F.Subtract || !c.F.Carry {
		t.Errorf("unexpected result %02X flags %s", c.B, c.F)
	}

	// 0x3C - INC A wraps
	c, _ = newTestCPU(0x0100, 0x3C)
	c.A = 0xFF
	step(t, c)
	if c.A != 0 || !c.F.Zero || !c.F.HalfCarry {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0x09 - ADD HL, BC
	c, _ = newTestCPU(0x0100, 0x09)
	c.HL.SetUint16(0x0FFF)
	c.BC.SetUint16(0x0001)
	c.F.Zero = true
	step(t, c)
	if c.HL.Uint16() != 0x1000 || !c.F.HalfCarry || c.F.Carry || !c.F.Zero {
		t.Errorf("unexpected result %04X flags %s", c.HL.Uint16(), c.F)
	}

	// 0x0B - DEC BC wraps and leaves the flags alone
	c, _ = newTestCPU(0x0100, 0x0B)
	c.F.SetByte(0xA0)
	step(t, c)
	if c.BC.Uint16() != 0xFFFF || c.F.Byte() != 0xA0 {
		t.Errorf("unexpected result %04X flags %s", c.BC.Uint16(), c.F)
	}

	// 0xE8 - ADD SP, r8
	c, _ = newTestCPU(0x0100, 0xE8, 0xFE)
	c.SP = 0xFFF8
	step(t, c)
	if c.SP != 0xFFF6 || c.F.Zero || !c.F.HalfCarry || !c.F.Carry {
		t.Errorf("unexpected result %04X flags %s", c.SP, c.F)
	}
}

func TestInstruction_Logic(t *testing.T) {
	// 0xAF - XOR A
	for _, v := range []uint8{0x00, 0x01, 0x7F, 0x80, 0xFF} {
		c, _ := newTestCPU(0x0100, 0xAF)
		c.A = v
		c.F.SetByte(0x70)
		step(t, c)
		if c.A != 0 || !c.F.Zero || c.F.Subtract || c.F.HalfCarry || c.F.Carry {
			t.Errorf("%02X: expected A to be 0 with only Z set, got %02X %s", v, c.A, c.F)
		}
	}

	// 0xE6 - AND d8
	c, _ := newTestCPU(0x0100, 0xE6, 0x0F)
	c.A = 0xF0
	step(t, c)
	if c.A != 0 || !c.F.Zero || !c.F.HalfCarry {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0xB1 - OR C
	c, _ = newTestCPU(0x0100, 0xB1)
	c.A, c.C = 0xF0, 0x0F
	step(t, c)
	if c.A != 0xFF || c.F.Zero {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0x2F - CPL
	c, _ = newTestCPU(0x0100, 0x2F)
	c.A = 0x35
	step(t, c)
	if c.A != 0xCA || !c.F.Subtract || !c.F.HalfCarry {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}

	// 0x37 - SCF, 0x3F - CCF
	c, _ = newTestCPU(0x0100, 0x37, 0x3F, 0x3F)
	step(t, c)
	if !c.F.Carry {
		t.Error("expected SCF to set the carry")
	}
	step(t, c)
	if c.F.Carry {
		t.Error("expected CCF to clear the carry")
	}
	step(t, c)
	if !c.F.Carry {
		t.Error("expected CCF to set the carry")
	}
}

func TestInstruction_Bit(t *testing.T) {
	// 0xCB 0x7C - BIT 7, H
	c, _ := newTestCPU(0x0100, 0xCB, 0x7C, 0xCB, 0x7C)
	c.H = 0x80
	c.F.Carry = true
	step(t, c)
	if c.F.Zero || !c.F.HalfCarry || c.F.Subtract || !c.F.Carry {
		t.Errorf("unexpected flags %s", c.F)
	}
	if c.PC != 0x0102 {
		t.Errorf("expected PC to be 0x0102, got 0x%04X", c.PC)
	}
	c.H = 0x7F
	step(t, c)
	if !c.F.Zero {
		t.Errorf("expected Z to be set, got %s", c.F)
	}

	// 0xCB 0x11 - RL C
	c, _ = newTestCPU(0x0100, 0xCB, 0x11)
	c.C = 0x80
	step(t, c)
	if c.C != 0 || !c.F.Carry || !c.F.Zero {
		t.Errorf("unexpected result %02X flags %s", c.C, c.F)
	}

	// 0x17 - RLA always resets Z
	c, _ = newTestCPU(0x0100, 0x17)
	c.A = 0x80
	step(t, c)
	if c.A != 0 || !c.F.Carry || c.F.Zero {
		t.Errorf("unexpected result %02X flags %s", c.A, c.F)
	}
}

func TestInstruction_Load(t *testing.T) {
	// 0x22 - LD (HL+), A
	c, bus := newTestCPU(0x0100, 0x22)
	c.HL.SetUint16(0xC000)
	c.A = 0x42
	step(t, c)
	if bus.Get(0xC000) != 0x42 || c.HL.Uint16() != 0xC001 {
		t.Errorf("expected 0x42 at 0xC000 and HL 0xC001, got %02X and %04X", bus.Get(0xC000), c.HL.Uint16())
	}

	// 0x3A - LD A, (HL-)
	c, bus = newTestCPU(0x0100, 0x3A)
	c.HL.SetUint16(0xC000)
	bus.Set(0xC000, 0x99)
	step(t, c)
	if c.A != 0x99 || c.HL.Uint16() != 0xBFFF {
		t.Errorf("expected A 0x99 and HL 0xBFFF, got %02X and %04X", c.A, c.HL.Uint16())
	}

	// 0xE2 - LD (C), A
	c, bus = newTestCPU(0x0100, 0xE2)
	c.A, c.C = 0x11, 0x80
	step(t, c)
	if bus.Get(0xFF80) != 0x11 {
		t.Errorf("expected 0x11 at 0xFF80, got %02X", bus.Get(0xFF80))
	}

	// 0xF0 - LDH A, (a8)
	c, bus = newTestCPU(0x0100, 0xF0, 0x85)
	bus.Set(0xFF85, 0x77)
	step(t, c)
	if c.A != 0x77 || c.PC != 0x0102 {
		t.Errorf("expected A 0x77 and PC 0x0102, got %02X and %04X", c.A, c.PC)
	}

	// 0x21 - LD HL, d16
	c, _ = newTestCPU(0x0100, 0x21, 0x34, 0x12)
	step(t, c)
	if c.HL.Uint16() != 0x1234 || c.PC != 0x0103 {
		t.Errorf("expected HL 0x1234 and PC 0x0103, got %04X and %04X", c.HL.Uint16(), c.PC)
	}

	// 0xEA - LD (a16), A
	c, bus = newTestCPU(0x0100, 0xEA, 0x00, 0xC1)
	c.A = 0x5A
	step(t, c)
	if bus.Get(0xC100) != 0x5A {
		t.Errorf("expected 0x5A at 0xC100, got %02X", bus.Get(0xC100))
	}

	// 0x08 - LD (a16), SP
	c, bus = newTestCPU(0x0100, 0x08, 0x00, 0xC0)
	c.SP = 0xBEEF
	step(t, c)
	if bus.Get(0xC000) != 0xEF || bus.Get(0xC001) != 0xBE {
		t.Errorf("expected SP to be stored little endian, got %02X %02X", bus.Get(0xC000), bus.Get(0xC001))
	}

	// 0xF8 - LD HL, SP+r8
	c, _ = newTestCPU(0x0100, 0xF8, 0x02)
	c.SP = 0xFFF8
	c.F.Zero = true
	step(t, c)
	if c.HL.Uint16() != 0xFFFA || c.F.Zero {
		t.Errorf("unexpected result %04X flags %s", c.HL.Uint16(), c.F)
	}

	// 0x41 - LD B, C leaves the flags alone
	c, _ = newTestCPU(0x0100, 0x41)
	c.C = 0x33
	c.F.SetByte(0xF0)
	step(t, c)
	if c.B != 0x33 || c.F.Byte() != 0xF0 {
		t.Errorf("unexpected result %02X flags %s", c.B, c.F)
	}
}

func TestInstruction_Jump(t *testing.T) {
	// 0x18 - JR r8, forwards and backwards
	c, _ := newTestCPU(0x0000, 0x18, 0x05)
	step(t, c)
	if c.PC != 0x0007 {
		t.Errorf("expected PC to be 0x0007, got 0x%04X", c.PC)
	}
	c, _ = newTestCPU(0x0010, 0x18, 0xFB)
	step(t, c)
	if c.PC != 0x000D {
		t.Errorf("expected PC to be 0x000D, got 0x%04X", c.PC)
	}

	// 0x20 - JR NZ, r8
	c, _ = newTestCPU(0x0100, 0x20, 0x10)
	c.F.Zero = true
	step(t, c)
	if c.PC != 0x0102 {
		t.Errorf("expected the branch to not be taken, got PC 0x%04X", c.PC)
	}

	// 0xC3 - JP a16
	c, _ = newTestCPU(0x0100, 0xC3, 0x50, 0x01)
	step(t, c)
	if c.PC != 0x0150 {
		t.Errorf("expected PC to be 0x0150, got 0x%04X", c.PC)
	}

	// 0xE9 - JP (HL)
	c, _ = newTestCPU(0x0100, 0xE9)
	c.HL.SetUint16(0x4000)
	step(t, c)
	if c.PC != 0x4000 {
		t.Errorf("expected PC to be 0x4000, got 0x%04X", c.PC)
	}

	// 0xCD - CALL a16 pushes the address of the next instruction
	c, _ = newTestCPU(0x0200, 0xCD, 0x00, 0x03)
	step(t, c)
	if c.PC != 0x0300 {
		t.Errorf("expected PC to be 0x0300, got 0x%04X", c.PC)
	}
	if ret := c.popValue(); ret != 0x0203 {
		t.Errorf("expected 0x0203 to be pushed, got 0x%04X", ret)
	}

	// 0xDC - CALL C, a16 not taken
	c, _ = newTestCPU(0x0200, 0xDC, 0x00, 0x03)
	step(t, c)
	if c.PC != 0x0203 || c.SP != 0xFFFE {
		t.Errorf("expected the call to not be taken, got PC 0x%04X SP 0x%04X", c.PC, c.SP)
	}

	// 0xFF - RST 38H
	c, _ = newTestCPU(0x0200, 0xFF)
	step(t, c)
	if c.PC != 0x0038 || c.popValue() != 0x0201 {
		t.Errorf("expected a restart to 0x0038, got PC 0x%04X", c.PC)
	}
}

func TestInstruction_Return(t *testing.T) {
	// 0xC0 - RET NZ
	c, _ := newTestCPU(0x0100, 0xC0, 0xC0)
	c.pushValue(0x1234)
	c.F.Zero = true
	step(t, c)
	if c.PC != 0x0101 || c.SP != 0xFFFC {
		t.Errorf("expected the return to not be taken, got PC 0x%04X SP 0x%04X", c.PC, c.SP)
	}
	c.F.Zero = false
	step(t, c)
	if c.PC != 0x1234 || c.SP != 0xFFFE {
		t.Errorf("expected a return to 0x1234, got PC 0x%04X SP 0x%04X", c.PC, c.SP)
	}

	// 0xD9 - RETI
	c, _ = newTestCPU(0x0100, 0xD9)
	c.pushValue(0x0200)
	step(t, c)
	if c.PC != 0x0200 || !c.IRQ.IME {
		t.Errorf("expected RETI to return and set IME, got PC 0x%04X", c.PC)
	}
}

func TestInstruction_Stack(t *testing.T) {
	// 0xC5 - PUSH BC, 0xD1 - POP DE
	c, _ := newTestCPU(0x0100, 0xC5, 0xD1)
	c.BC.SetUint16(0xABCD)
	step(t, c)
	step(t, c)
	if c.DE.Uint16() != 0xABCD || c.SP != 0xFFFE {
		t.Errorf("expected DE 0xABCD and SP 0xFFFE, got %04X and %04X", c.DE.Uint16(), c.SP)
	}

	// 0xF1 - POP AF writes the flags
	c, _ = newTestCPU(0x0100, 0xF1)
	c.pushValue(0x12FF)
	step(t, c)
	if c.A != 0x12 || c.F.Byte() != 0xF0 {
		t.Errorf("expected A 0x12 and F 0xF0, got %02X and %02X", c.A, c.F.Byte())
	}

	// 0xF3 - DI, 0xFB - EI
	c, _ = newTestCPU(0x0100, 0xFB, 0xF3)
	step(t, c)
	if !c.IRQ.IME {
		t.Error("expected EI to set IME")
	}
	step(t, c)
	if c.IRQ.IME {
		t.Error("expected DI to clear IME")
	}
}

func TestCPU_CheckCondition(t *testing.T) {
	c, _ := newTestCPU(0)
	tests := []struct {
		cc          condition
		zero, carry bool
		expected    bool
	}{
		{conditionZ, true, false, true},
		{conditionZ, false, false, false},
		{conditionNZ, false, true, true},
		{conditionNZ, true, true, false},
		{conditionC, false, true, true},
		{conditionC, true, false, false},
		{conditionNC, true, false, true},
		{conditionNC, false, true, false},
	}
	for _, tt := range tests {
		c.F.Zero, c.F.Carry = tt.zero, tt.carry
		if got := c.checkCondition(tt.cc); got != tt.expected {
			t.Errorf("condition %d with Z=%v C=%v: expected %v, got %v", tt.cc, tt.zero, tt.carry, tt.expected, got)
		}
	}
}

func TestResolve(t *testing.T) {
	table := newTestTable(t)
	implemented := 0
	for op := 0; op < 256; op++ {
		d := table.Primary(uint8(op))
		if d == nil {
			continue
		}
		if _, err := resolve(d); err == nil {
			implemented++
		} else if _, ok := families[d.Mnemonic]; ok {
			t.Errorf("expected %s to resolve, got %v", d, err)
		}
	}
	if implemented < 200 {
		t.Errorf("expected most of the primary space to resolve, got %d", implemented)
	}

	for op := 0; op < 256; op++ {
		d := table.Secondary(uint8(op))
		_, err := resolve(d)
		if _, ok := families[d.Mnemonic]; ok && err != nil {
			t.Errorf("expected %s to resolve, got %v", d, err)
		}
	}
}
