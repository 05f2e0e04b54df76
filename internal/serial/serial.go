// Package serial implements the serial port. Transfers complete as
// soon as they are started; bit timing is not emulated.
package serial

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/io"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Controller is the serial controller. It is responsible for sending
// and receiving data to and from the attached Device, and for
// requesting the serial interrupt when a transfer completes.
//
// Writing SC with bit 7 (transfer request) and bit 0 (internal clock)
// exchanges SB with the Device. With the external clock selected the
// transfer waits for a master that never comes, as on hardware with
// nothing attached.
type Controller struct {
	data            uint8 // SB
	InternalClock   bool  // if true, this controller is the master.
	TransferRequest bool  // if true, a transfer has been requested.

	AttachedDevice Device // the device that is attached to this controller.

	irq *interrupts.Service
}

// NewController creates a new Controller owning SB and SC on b.
//
// By default, the Controller is attached to a nullDevice, which acts
// as if there is no device attached. If you want to attach a device,
// use the Controller.Attach method.
func NewController(b *io.Bus, irq *interrupts.Service) *Controller {
	c := &Controller{
		AttachedDevice: nullDevice{},
		irq:            irq,
	}
	b.ReserveAddress(types.SB, func() uint8 {
		return c.data
	}, func(v uint8) {
		c.data = v
	})
	b.ReserveAddress(types.SC, c.control, c.setControl)
	return c
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	c.AttachedDevice = d
}

// control returns SC. Bits 1-6 are unused and read as set.
func (c *Controller) control() uint8 {
	v := uint8(0x7E)
	if c.TransferRequest {
		v |= types.Bit7
	}
	if c.InternalClock {
		v |= types.Bit0
	}
	return v
}

func (c *Controller) setControl(v uint8) {
	c.InternalClock = v&types.Bit0 == types.Bit0
	c.TransferRequest = v&types.Bit7 == types.Bit7

	// is this controller the master?
	if c.TransferRequest && c.InternalClock {
		c.data = c.AttachedDevice.Transfer(c.data)
		c.TransferRequest = false
		c.irq.Request(interrupts.Serial)
	}
}

var _ types.Stater = (*Controller)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - data (uint8)
//   - TransferRequest (bool)
//   - InternalClock (bool)
func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.TransferRequest = s.ReadBool()
	c.InternalClock = s.ReadBool()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - data (uint8)
//   - TransferRequest (bool)
//   - InternalClock (bool)
func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.WriteBool(c.TransferRequest)
	s.WriteBool(c.InternalClock)
}
