package opcodes

import (
	"strings"
)

// Prefix is the opcode byte selecting the secondary opcode space.
const Prefix = 0xCB

// Effect is the four symbol flag-effect code of an instruction, in
// the order Z, N, H, C. '0' resets the flag, '1' sets it, '-' leaves
// it untouched and any other symbol means the flag is computed from
// the result of the instruction.
type Effect [4]byte

const (
	EffectZero = iota
	EffectSubtract
	EffectHalfCarry
	EffectCarry
)

func (e Effect) String() string {
	return string(e[:])
}

// Descriptor describes a single instruction of the table.
type Descriptor struct {
	Opcode   uint8
	Prefixed bool

	Mnemonic string
	Operands []string
	// Length is the total instruction length in bytes, including
	// the opcode (and prefix) bytes.
	Length uint8
	Flags  Effect

	// Duration is informational only, timing is not emulated.
	Duration string
}

// Name returns the instruction as it appears in the table,
// e.g. "LD BC,d16".
func (d *Descriptor) Name() string {
	if len(d.Operands) == 0 {
		return d.Mnemonic
	}
	return d.Mnemonic + " " + strings.Join(d.Operands, ",")
}

func (d *Descriptor) String() string {
	return d.Name()
}

// parseName splits a table name into its mnemonic and operands.
func parseName(name string) (string, []string) {
	name = strings.TrimSpace(name)
	mnemonic, rest, found := strings.Cut(name, " ")
	if !found {
		return strings.ToUpper(mnemonic), nil
	}

	var operands []string
	for _, op := range strings.Split(rest, ",") {
		if op = strings.TrimSpace(op); op != "" {
			operands = append(operands, op)
		}
	}
	return strings.ToUpper(mnemonic), operands
}
