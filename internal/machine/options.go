package machine

import (
	"io"

	"github.com/thelolagemann/gbcore/internal/debugger"
	"github.com/thelolagemann/gbcore/internal/opcodes"
	"github.com/thelolagemann/gbcore/internal/stats"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// Opt is a function that modifies a Machine instance.
type Opt func(m *Machine)

// WithLogger sets the logger.
func WithLogger(log log.Logger) Opt {
	return func(m *Machine) {
		m.Logger = log
	}
}

// WithTable decodes with t instead of the embedded table.
func WithTable(t *opcodes.Table) Opt {
	return func(m *Machine) {
		m.table = t
	}
}

// Debug enables the debugger, pausing before the first instruction.
func Debug() Opt {
	return func(m *Machine) {
		m.debug = true
	}
}

// WithCommandSource reads debugger commands from source instead of
// the terminal. Without breakpoints the machine pauses before the
// first instruction, as with Debug.
func WithCommandSource(source debugger.CommandSource) Opt {
	return func(m *Machine) {
		m.source = source
	}
}

// WithBreakpoints arms breakpoints at the given addresses. Without
// Debug, the machine runs freely until the first one is hit.
func WithBreakpoints(addrs ...uint16) Opt {
	return func(m *Machine) {
		m.breakpoints = append(m.breakpoints, addrs...)
	}
}

// WithHistogram counts every retired instruction into h.
func WithHistogram(h *stats.Histogram) Opt {
	return func(m *Machine) {
		m.histogram = h
	}
}

// MaxSteps stops Run after n instructions. Zero means no limit.
func MaxSteps(n uint64) Opt {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// SoftwareBreakpoint stops Run after the program executes LD B,B,
// the conventional software breakpoint of test programs.
func SoftwareBreakpoint() Opt {
	return func(m *Machine) {
		m.softwareBreakpoint = true
	}
}

// Origin sets the initial PC.
func Origin(pc uint16) Opt {
	return func(m *Machine) {
		m.origin = pc
	}
}

// WithSerialOutput attaches a device to the serial port that writes
// every byte the program sends to w.
func WithSerialOutput(w io.Writer) Opt {
	return func(m *Machine) {
		m.serialOut = w
	}
}
