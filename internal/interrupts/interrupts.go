package interrupts

import (
	"fmt"

	"github.com/thelolagemann/gbcore/internal/types"
)

// Source identifies an interrupt source. Sources are listed in
// priority order, the lowest index is serviced first.
type Source = uint8

const (
	// VBlank is requested when the display enters vertical blank.
	VBlank Source = iota
	// LCD is requested by the LCD STAT conditions.
	LCD
	// Timer is requested when the timer overflows.
	Timer
	// Serial is requested when a serial transfer completes.
	Serial
	// Joypad is requested on a joypad input transition.
	Joypad

	// NumSources is the number of interrupt sources.
	NumSources
)

// vectors holds the fixed handler address of each source.
var vectors = [NumSources]uint16{0x0040, 0x0048, 0x0050, 0x0058, 0x0060}

var names = [NumSources]string{"VBlank", "LCD", "Timer", "Serial", "Joypad"}

// Vector returns the handler address of src.
func Vector(src Source) uint16 {
	return vectors[src]
}

// Name returns a printable name for src.
func Name(src Source) string {
	if src >= NumSources {
		return fmt.Sprintf("Source(%d)", src)
	}
	return names[src]
}

type source struct {
	enabled bool
	pending bool
}

// Service is the interrupt controller. Peripherals request
// interrupts, and the CPU asks for the next one to service at every
// instruction boundary.
//
// An interrupt is serviced when it is both pending and enabled and
// IME, the master enable, is set. Servicing clears the pending bit
// and IME; the handler re-enables interrupts with EI or RETI.
type Service struct {
	sources [NumSources]source

	// IME is the interrupt master enable.
	IME bool
}

// NewService returns a new Service with every source disabled.
func NewService() *Service {
	return &Service{}
}

// Request requests the specified interrupt.
func (s *Service) Request(src Source) {
	s.sources[src].pending = true
}

// Enable sets whether src may be serviced.
func (s *Service) Enable(src Source, enabled bool) {
	s.sources[src].enabled = enabled
}

// Pending reports whether src has been requested and not serviced.
func (s *Service) Pending(src Source) bool {
	return s.sources[src].pending
}

// Enabled reports whether src is enabled.
func (s *Service) Enabled(src Source) bool {
	return s.sources[src].enabled
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled, regardless of IME.
func (s *Service) HasInterrupts() bool {
	return s.Flag()&s.EnableMask()&0x1F != 0
}

// Next returns the highest priority source that is pending and
// enabled, clearing its pending bit and IME. It returns false when
// IME is clear or nothing is ready.
func (s *Service) Next() (Source, bool) {
	if !s.IME {
		return 0, false
	}
	for i := range s.sources {
		if s.sources[i].pending && s.sources[i].enabled {
			s.sources[i].pending = false
			s.IME = false
			return Source(i), true
		}
	}
	return 0, false
}

// Flag returns the pending bits in the layout of the IF register.
// The upper 3 bits always read as set.
func (s *Service) Flag() uint8 {
	v := uint8(0xE0)
	for i := range s.sources {
		if s.sources[i].pending {
			v |= 1 << i
		}
	}
	return v
}

// SetFlag replaces the pending bits from an IF register write.
func (s *Service) SetFlag(v uint8) {
	for i := range s.sources {
		s.sources[i].pending = v&(1<<i) != 0
	}
}

// EnableMask returns the enable bits in the layout of the IE register.
func (s *Service) EnableMask() uint8 {
	var v uint8
	for i := range s.sources {
		if s.sources[i].enabled {
			v |= 1 << i
		}
	}
	return v
}

// SetEnableMask replaces the enable bits from an IE register write.
func (s *Service) SetEnableMask(v uint8) {
	for i := range s.sources {
		s.sources[i].enabled = v&(1<<i) != 0
	}
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
//   - IME (bool)
func (s *Service) Load(st *types.State) {
	s.SetFlag(st.Read8())
	s.SetEnableMask(st.Read8())
	s.IME = st.ReadBool()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
//   - IME (bool)
func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag())
	st.Write8(s.EnableMask())
	st.WriteBool(s.IME)
}
