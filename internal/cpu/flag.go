package cpu

import (
	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Flags holds the four status flags.
type Flags struct {
	Zero      bool
	Subtract  bool
	HalfCarry bool
	Carry     bool
}

// Byte returns the flags in the layout of the F register.
// The lower nibble is always zero.
func (f Flags) Byte() uint8 {
	var v uint8
	if f.Zero {
		v |= types.Bit7
	}
	if f.Subtract {
		v |= types.Bit6
	}
	if f.HalfCarry {
		v |= types.Bit5
	}
	if f.Carry {
		v |= types.Bit4
	}
	return v
}

// SetByte sets the flags from an F register value.
func (f *Flags) SetByte(v uint8) {
	f.Zero = v&types.Bit7 != 0
	f.Subtract = v&types.Bit6 != 0
	f.HalfCarry = v&types.Bit5 != 0
	f.Carry = v&types.Bit4 != 0
}

func (f Flags) String() string {
	b := []byte("----")
	if f.Zero {
		b[0] = 'Z'
	}
	if f.Subtract {
		b[1] = 'N'
	}
	if f.HalfCarry {
		b[2] = 'H'
	}
	if f.Carry {
		b[3] = 'C'
	}
	return string(b)
}

// outcome carries what an instruction computed for the flags.
// When defined is false the instruction produced no numeric
// result, and only forced entries of the effect code apply.
type outcome struct {
	defined bool

	result    uint16
	subtract  bool
	halfCarry bool
	carry     bool
}

// resultOf returns a defined outcome for an 8-bit result.
func resultOf(v uint8) outcome {
	return outcome{defined: true, result: uint16(v)}
}

// apply updates the flags according to the effect code.
func (f *Flags) apply(effect opcodes.Effect, o outcome) {
	set := func(flag *bool, symbol byte, computed bool) {
		switch symbol {
		case '0':
			*flag = false
		case '1':
			*flag = true
		case '-':
		default:
			if o.defined {
				*flag = computed
			}
		}
	}

	set(&f.Zero, effect[opcodes.EffectZero], o.result == 0)
	set(&f.Subtract, effect[opcodes.EffectSubtract], o.subtract)
	set(&f.HalfCarry, effect[opcodes.EffectHalfCarry], o.halfCarry)
	set(&f.Carry, effect[opcodes.EffectCarry], o.carry)
}
