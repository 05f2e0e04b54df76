// Package io provides the memory bus the CPU reads and writes through.
package io

import (
	"fmt"

	"github.com/thelolagemann/gbcore/internal/types"
)

// Size is the size of the addressable space.
const Size = 0x10000

// Bus is a flat 64KB byte-addressable store. Hardware registers in
// the IO page (and IE at 0xFFFF) can be reserved so that reads and
// writes are routed to the component that owns them.
type Bus struct {
	data [Size]byte

	hardware [0x100]*hardwareRegister
}

type hardwareRegister struct {
	read  func() uint8
	write func(uint8)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// ReserveAddress routes reads and writes of addr, which must lie in
// the IO page (0xFF00 - 0xFFFF), to the given handlers. A nil read
// handler reads the underlying memory, a nil write handler drops
// the write.
func (b *Bus) ReserveAddress(addr types.HardwareAddress, read func() uint8, write func(uint8)) {
	if addr < types.IOBase {
		panic(fmt.Sprintf("address %04X is not a hardware address", addr))
	}
	if b.hardware[addr&0xFF] != nil {
		panic(fmt.Sprintf("address %04X has already been reserved", addr))
	}
	b.hardware[addr&0xFF] = &hardwareRegister{read: read, write: write}
}

// Read returns the value at addr.
func (b *Bus) Read(addr uint16) uint8 {
	if addr >= types.IOBase {
		if h := b.hardware[addr&0xFF]; h != nil && h.read != nil {
			return h.read()
		}
	}
	return b.data[addr]
}

// Write stores value at addr.
func (b *Bus) Write(addr uint16, value uint8) {
	if addr >= types.IOBase {
		if h := b.hardware[addr&0xFF]; h != nil {
			if h.write != nil {
				h.write(value)
			}
			return
		}
	}
	b.data[addr] = value
}

// Load copies data into memory starting at offset, bypassing any
// hardware registers. Addresses wrap at the end of the 64KB space.
func (b *Bus) Load(offset uint16, data []byte) {
	for i, v := range data {
		b.data[uint16(int(offset)+i)] = v
	}
}

// Get returns the raw value at addr, ignoring hardware registers.
func (b *Bus) Get(addr uint16) byte {
	return b.data[addr]
}

// Set sets the raw value at addr, ignoring hardware registers.
func (b *Bus) Set(addr uint16, value byte) {
	b.data[addr] = value
}

// Snapshot returns a copy of the raw memory image.
func (b *Bus) Snapshot() []byte {
	data := make([]byte, Size)
	copy(data, b.data[:])
	return data
}

// Restore replaces the raw memory image with data.
func (b *Bus) Restore(data []byte) {
	copy(b.data[:], data)
}
