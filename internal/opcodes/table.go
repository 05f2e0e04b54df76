// Package opcodes holds the instruction table consumed by the CPU:
// the primary and 0xCB prefixed opcode spaces, each mapping an opcode
// byte to an immutable Descriptor.
package opcodes

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
)

var (
	// ErrUnknownOpcode is returned for a byte with no table entry.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncatedPrefix is returned when the prefix byte is not
	// followed by a secondary byte.
	ErrTruncatedPrefix = errors.New("truncated prefix")
)

// Table is the instruction lookup table. It is read-only once built.
type Table struct {
	primary   [256]*Descriptor
	secondary [256]*Descriptor
}

// Lookup returns the Descriptor for the instruction starting at
// code[0]. When code[0] is the prefix byte, code[1] selects the
// entry from the secondary space.
func (t *Table) Lookup(code []byte) (*Descriptor, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no opcode", ErrUnknownOpcode)
	}
	if code[0] == Prefix {
		if len(code) < 2 {
			return nil, fmt.Errorf("%w: 0x%02X", ErrTruncatedPrefix, code[0])
		}
		if d := t.secondary[code[1]]; d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("%w: 0x%02X 0x%02X", ErrUnknownOpcode, code[0], code[1])
	}

	if d := t.primary[code[0]]; d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, code[0])
}

// Primary returns the entry for opcode in the primary space, or nil.
func (t *Table) Primary(opcode uint8) *Descriptor {
	return t.primary[opcode]
}

// Secondary returns the entry for opcode in the prefixed space, or nil.
func (t *Table) Secondary(opcode uint8) *Descriptor {
	return t.secondary[opcode]
}

// Len returns the number of entries in each space.
func (t *Table) Len() (primary, secondary int) {
	for i := range t.primary {
		if t.primary[i] != nil {
			primary++
		}
		if t.secondary[i] != nil {
			secondary++
		}
	}
	return primary, secondary
}

// Checksum returns an xxhash64 over the table contents, stable
// across the encoding the table was loaded from.
func (t *Table) Checksum() uint64 {
	h := xxhash.New()
	write := func(space byte, d *Descriptor) {
		var buf [4]byte
		buf[0] = space
		buf[1] = d.Opcode
		binary.LittleEndian.PutUint16(buf[2:], uint16(d.Length))
		h.Write(buf[:])
		h.Write([]byte(d.Name()))
		h.Write(d.Flags[:])
	}
	for _, d := range t.primary {
		if d != nil {
			write(0, d)
		}
	}
	for _, d := range t.secondary {
		if d != nil {
			write(1, d)
		}
	}
	return h.Sum64()
}
