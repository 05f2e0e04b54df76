package machine

// Status represents the status of the Machine. It can be one of the
// following:
//
//   - Ready
//   - Running
//   - Paused
//   - Halted
//   - Errored
type Status int

const (
	// Ready is the status of a Machine that has not run yet.
	Ready Status = iota
	// Running is the status of a Machine executing instructions.
	Running
	// Paused is the status of a Machine waiting on the debugger.
	Paused
	// Halted is the status of a Machine that stopped cleanly: it
	// hit the step limit, a software breakpoint, or was quit from
	// the debugger.
	Halted
	// Errored is the status of a Machine that stopped on a decode
	// or unimplemented instruction error.
	Errored
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Halted:
		return "Halted"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// IsErrored reports whether the Machine stopped on an error.
func (s Status) IsErrored() bool {
	return s == Errored
}
