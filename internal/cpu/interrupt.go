package cpu

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
)

// serviceInterrupt vectors to the highest priority interrupt that is
// both pending and enabled, if IME is set. At most one interrupt is
// serviced per call.
func (c *CPU) serviceInterrupt() (interrupts.Source, bool) {
	if !c.IRQ.IME || !c.IRQ.HasInterrupts() {
		return 0, false
	}
	src, ok := c.IRQ.Next()
	if !ok {
		return 0, false
	}

	// save the PC and jump to the vector, Next has already cleared
	// the pending bit and IME
	c.pushValue(c.PC)
	c.PC = interrupts.Vector(src)
	return src, true
}
