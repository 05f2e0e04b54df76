package types

// Register holds an 8-bit CPU register value.
type Register = uint8

// RegisterPair is a 16-bit view over two 8-bit registers. It holds
// no value of its own: reads combine the halves and writes split the
// value back into them.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}
