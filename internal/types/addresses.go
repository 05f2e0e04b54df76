package types

// HardwareAddress represents the address of a hardware register.
// The hardware IO is mapped to 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// IOBase is the start of the hardware IO page. The short
	// forms LDH (a8) and LD (C) address IOBase + offset.
	IOBase HardwareAddress = 0xFF00
	// SB is the address of the SB hardware register. SB holds
	// the byte to be sent, and after a transfer the byte that
	// was received.
	SB HardwareAddress = 0xFF01
	// SC is the address of the SC hardware register. Bit 7
	// requests a transfer and bit 0 selects the internal clock.
	SC HardwareAddress = 0xFF02
	// IF is the address of the IF hardware register. The IF
	// hardware register holds the pending interrupt requests;
	// writing a 1 to a bit in IF requests an interrupt, and
	// writing a 0 clears it.
	IF HardwareAddress = 0xFF0F
	// IE is the address of the IE hardware register. Writing
	// a 1 to a bit in IE enables the corresponding interrupt.
	IE HardwareAddress = 0xFFFF
)
