package cpu

import "testing"

func TestALU_Add8(t *testing.T) {
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			v, o := add8(uint8(x), uint8(y), false)
			if v != uint8((x+y)%256) {
				t.Fatalf("%02X + %02X: expected %02X, got %02X", x, y, (x+y)%256, v)
			}
			if o.carry != (x+y >= 256) {
				t.Fatalf("%02X + %02X: expected carry %v, got %v", x, y, x+y >= 256, o.carry)
			}
			if o.halfCarry != (x&0xF+y&0xF > 0xF) {
				t.Fatalf("%02X + %02X: unexpected half carry %v", x, y, o.halfCarry)
			}
		}
	}
}

func TestALU_Sub8(t *testing.T) {
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			v, o := sub8(uint8(x), uint8(y), false)
			if v != uint8(x-y) {
				t.Fatalf("%02X - %02X: expected %02X, got %02X", x, y, uint8(x-y), v)
			}
			if !o.subtract || o.carry != (y > x) || o.halfCarry != (y&0xF > x&0xF) {
				t.Fatalf("%02X - %02X: unexpected flags %+v", x, y, o)
			}
		}
	}
}

func TestALU_HalfCarry(t *testing.T) {
	tests := []struct {
		name      string
		fn        func() outcome
		halfCarry bool
		carry     bool
	}{
		{"add 0x0F+0x01", func() outcome { _, o := add8(0x0F, 0x01, false); return o }, true, false},
		{"add 0x10+0x10", func() outcome { _, o := add8(0x10, 0x10, false); return o }, false, false},
		{"adc 0x0E+0x01+c", func() outcome { _, o := add8(0x0E, 0x01, true); return o }, true, false},
		{"add 0xFF+0x01", func() outcome { _, o := add8(0xFF, 0x01, false); return o }, true, true},
		{"sub 0x10-0x01", func() outcome { _, o := sub8(0x10, 0x01, false); return o }, true, false},
		{"sbc 0x10-0x0F-c", func() outcome { _, o := sub8(0x10, 0x0F, true); return o }, true, false},
		{"sub 0x00-0x01", func() outcome { _, o := sub8(0x00, 0x01, false); return o }, true, true},
		{"inc 0x0F", func() outcome { _, o := inc8(0x0F); return o }, true, false},
		{"dec 0x10", func() outcome { _, o := dec8(0x10); return o }, true, false},
		{"add16 0x0FFF+0x0001", func() outcome { _, o := add16(0x0FFF, 0x0001); return o }, true, false},
		{"add16 0x00FF+0x0001", func() outcome { _, o := add16(0x00FF, 0x0001); return o }, false, false},
		{"add16 0xFFFF+0x0001", func() outcome { _, o := add16(0xFFFF, 0x0001); return o }, true, true},
		{"addSigned 0xFFF8-2", func() outcome { _, o := addSigned(0xFFF8, 0xFE); return o }, true, true},
		{"addSigned 0x0000+1", func() outcome { _, o := addSigned(0x0000, 0x01); return o }, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.fn()
			if o.halfCarry != tt.halfCarry {
				t.Errorf("expected half carry %v, got %v", tt.halfCarry, o.halfCarry)
			}
			if o.carry != tt.carry {
				t.Errorf("expected carry %v, got %v", tt.carry, o.carry)
			}
		})
	}
}

func TestALU_SignedOffset(t *testing.T) {
	tests := map[uint8]int{
		0x00: 0,
		0x05: 5,
		0x7F: 127,
		0x80: -128,
		0xFB: -5,
		0xFF: -1,
	}
	for v, expected := range tests {
		if got := signedOffset(v); got != expected {
			t.Errorf("%02X: expected %d, got %d", v, expected, got)
		}
	}
}

func TestALU_Rotate(t *testing.T) {
	v, o := rotateLeftThroughCarry(0x80, false)
	if v != 0x00 || !o.carry || o.result != 0 {
		t.Errorf("expected 0x80 to rotate into the carry, got %02X %+v", v, o)
	}
	v, o = rotateLeftThroughCarry(0x01, true)
	if v != 0x03 || o.carry {
		t.Errorf("expected the carry to enter bit 0, got %02X %+v", v, o)
	}
}

func TestFlags_Apply(t *testing.T) {
	f := Flags{Zero: true, Carry: true}

	// plain moves leave symbols alone but honour forced entries
	f.apply([4]byte{'Z', '1', '0', 'C'}, outcome{})
	if !f.Zero || !f.Subtract || f.HalfCarry || !f.Carry {
		t.Errorf("unexpected flags %s", f)
	}

	f.apply([4]byte{'Z', '0', 'H', '-'}, outcome{defined: true, result: 1, halfCarry: true})
	if f.Zero || f.Subtract || !f.HalfCarry || !f.Carry {
		t.Errorf("unexpected flags %s", f)
	}

	if f.Byte() != 0x30 {
		t.Errorf("expected F to be 0x30, got 0x%02X", f.Byte())
	}
	f.SetByte(0xFF)
	if f.String() != "ZNHC" || f.Byte() != 0xF0 {
		t.Errorf("expected all flags, got %s (0x%02X)", f, f.Byte())
	}
}
