package cpu

import "github.com/thelolagemann/gbcore/pkg/utils"

// pushValue pushes a 16-bit value onto the stack, high byte first.
func (c *CPU) pushValue(value uint16) {
	high, low := utils.Uint16ToBytes(value)
	c.SP--
	c.bus.Write(c.SP, high)
	c.SP--
	c.bus.Write(c.SP, low)
}

// popValue pops a 16-bit value from the stack.
func (c *CPU) popValue() uint16 {
	low := c.bus.Read(c.SP)
	c.SP++
	high := c.bus.Read(c.SP)
	c.SP++
	return utils.BytesToUint16(high, low)
}
