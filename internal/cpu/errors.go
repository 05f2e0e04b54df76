package cpu

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/gbcore/internal/opcodes"
)

// DecodeError is returned when the bytes at an address do not form an
// instruction of the table. It wraps opcodes.ErrUnknownOpcode or
// opcodes.ErrTruncatedPrefix.
type DecodeError struct {
	Address uint16
	Bytes   []byte
	Err     error
}

func (e *DecodeError) Error() string {
	raw := make([]string, len(e.Bytes))
	for i, b := range e.Bytes {
		raw[i] = fmt.Sprintf("0x%02X", b)
	}
	return fmt.Sprintf("decode at 0x%04X [%s]: %v", e.Address, strings.Join(raw, " "), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnimplementedInstructionError is returned when an instruction
// decodes, but its mnemonic or operand pattern has no handler.
type UnimplementedInstructionError struct {
	Instruction *opcodes.Descriptor
	Address     uint16
}

func (e *UnimplementedInstructionError) Error() string {
	return fmt.Sprintf("unimplemented instruction %s at 0x%04X", e.Instruction.Name(), e.Address)
}

// Mnemonic returns the mnemonic of the unimplemented instruction.
func (e *UnimplementedInstructionError) Mnemonic() string {
	return e.Instruction.Mnemonic
}

func unimplemented(d *opcodes.Descriptor) error {
	return &UnimplementedInstructionError{Instruction: d}
}
