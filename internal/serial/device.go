package serial

import "io"

// Device is a device that can be attached to the Controller. A
// transfer shifts the outgoing byte out and the device's byte in.
type Device interface {
	Transfer(out uint8) (in uint8)
}

// nullDevice is an implementation of Device that acts as if nothing
// is plugged in: the line floats high, so every byte received is 0xFF.
type nullDevice struct{}

// Transfer always returns 0xFF.
func (n nullDevice) Transfer(uint8) uint8 { return 0xFF }

// writerDevice copies every byte sent to an io.Writer, like a serial
// console attached to the link port.
type writerDevice struct {
	w io.Writer
}

// NewWriterDevice returns a Device writing every byte sent to w.
func NewWriterDevice(w io.Writer) Device {
	return writerDevice{w: w}
}

// Transfer writes out and returns 0xFF.
func (d writerDevice) Transfer(out uint8) uint8 {
	d.w.Write([]byte{out})
	return 0xFF
}
