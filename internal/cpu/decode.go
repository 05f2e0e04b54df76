package cpu

import (
	"errors"

	"github.com/thelolagemann/gbcore/internal/opcodes"
)

// peek fills buf with the bytes starting at addr, stopping at the end
// of the address space, and returns the filled part.
func (c *CPU) peek(addr uint16, buf []byte) []byte {
	n := len(buf)
	if remaining := 0x10000 - int(addr); n > remaining {
		n = remaining
	}
	for i := 0; i < n; i++ {
		buf[i] = c.bus.Read(addr + uint16(i))
	}
	return buf[:n]
}

// Decode resolves the instruction at pc, returning its descriptor and
// total length in bytes. It does not modify the CPU.
func (c *CPU) Decode(pc uint16) (*opcodes.Descriptor, uint8, error) {
	var buf [2]byte
	code := c.peek(pc, buf[:])
	d, err := c.table.Lookup(code)
	if err != nil {
		if code[0] != opcodes.Prefix {
			code = code[:1]
		}
		// the bytes are carried by the DecodeError itself
		cause := opcodes.ErrUnknownOpcode
		if errors.Is(err, opcodes.ErrTruncatedPrefix) {
			cause = opcodes.ErrTruncatedPrefix
		}
		return nil, 0, &DecodeError{Address: pc, Bytes: append([]byte(nil), code...), Err: cause}
	}
	return d, d.Length, nil
}

// Disassemble decodes the instruction at pc and renders it with its
// immediates, e.g. "JR NZ,$0150".
func (c *CPU) Disassemble(pc uint16) (string, error) {
	d, length, err := c.Decode(pc)
	if err != nil {
		return "", err
	}
	return opcodes.Format(d, pc, c.peek(pc, make([]byte, length))), nil
}

// fetch decodes the instruction at PC and resolves its operands,
// caching the resolution per opcode. The returned instruction is
// shared and must not be modified.
func (c *CPU) fetch() (*instruction, error) {
	d, _, err := c.Decode(c.PC)
	if err != nil {
		return nil, err
	}

	space := 0
	if d.Prefixed {
		space = 1
	}
	template := c.resolved[space][d.Opcode]
	if template == nil {
		if template, err = resolve(d); err != nil {
			if u, ok := err.(*UnimplementedInstructionError); ok {
				u.Address = c.PC
			}
			return nil, err
		}
		c.resolved[space][d.Opcode] = template
	}
	return template, nil
}
