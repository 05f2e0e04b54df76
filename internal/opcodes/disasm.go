package opcodes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTruncatedOperand is returned when an instruction's operands run
// past the end of the disassembled input.
var ErrTruncatedOperand = errors.New("truncated operand")

// Line is a single disassembled instruction.
type Line struct {
	Address    uint16
	Bytes      []byte
	Descriptor *Descriptor
	Text       string
}

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-9s %s", l.Address, strings.Join(hex, " "), l.Text)
}

// Disassemble decodes code linearly, as if it were loaded at origin.
// On error the lines decoded so far are returned alongside it.
func Disassemble(t *Table, code []byte, origin uint16) ([]Line, error) {
	var lines []Line
	for pos := 0; pos < len(code); {
		addr := origin + uint16(pos)
		d, err := t.Lookup(code[pos:])
		if err != nil {
			return lines, fmt.Errorf("0x%04X: %w", addr, err)
		}
		end := pos + int(d.Length)
		if end > len(code) {
			return lines, fmt.Errorf("0x%04X: %w: %s needs %d bytes", addr, ErrTruncatedOperand, d.Name(), d.Length)
		}

		raw := code[pos:end]
		lines = append(lines, Line{
			Address:    addr,
			Bytes:      raw,
			Descriptor: d,
			Text:       Format(d, addr, raw),
		})
		pos = end
	}
	return lines, nil
}

// Format renders d with the immediates taken from raw, the complete
// instruction bytes located at addr.
func Format(d *Descriptor, addr uint16, raw []byte) string {
	if len(d.Operands) == 0 {
		return d.Mnemonic
	}

	// immediates follow the opcode (and prefix) bytes
	imm := raw[1:]
	if d.Prefixed {
		imm = raw[min(2, len(raw)):]
	}

	operands := make([]string, len(d.Operands))
	for i, op := range d.Operands {
		switch {
		case strings.Contains(op, "d16") && len(imm) >= 2:
			op = strings.Replace(op, "d16", fmt.Sprintf("$%04X", le16(imm)), 1)
		case strings.Contains(op, "a16") && len(imm) >= 2:
			op = strings.Replace(op, "a16", fmt.Sprintf("$%04X", le16(imm)), 1)
		case strings.Contains(op, "d8") && len(imm) >= 1:
			op = strings.Replace(op, "d8", fmt.Sprintf("$%02X", imm[0]), 1)
		case strings.Contains(op, "a8") && len(imm) >= 1:
			op = strings.Replace(op, "a8", fmt.Sprintf("$FF%02X", imm[0]), 1)
		case op == "r8" && d.Mnemonic == "JR" && len(imm) >= 1:
			target := addr + uint16(d.Length) + uint16(int8(imm[0]))
			op = fmt.Sprintf("$%04X", target)
		case op == "r8" && len(imm) >= 1:
			op = fmt.Sprintf("%d", int8(imm[0]))
		case strings.Contains(op, "r8") && len(imm) >= 1:
			op = strings.Replace(op, "+r8", fmt.Sprintf("%+d", int8(imm[0])), 1)
		}
		operands[i] = op
	}
	return d.Mnemonic + " " + strings.Join(operands, ",")
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
