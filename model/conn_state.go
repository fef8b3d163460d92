package model

// ConnState is a step of the per-connection state machine.
type ConnState int

const (
	StateAccepted ConnState = iota
	StateReading
	StateParsed
	StateRouted
	StateWriting
	StateClosed
	StateAborted
)

func (s ConnState) String() string {

	switch s {
	case StateAccepted:
		return "accepted"
	case StateReading:
		return "reading"
	case StateParsed:
		return "parsed"
	case StateRouted:
		return "routed"
	case StateWriting:
		return "writing"
	case StateClosed:
		return "closed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s ConnState) Terminal() bool {

	return s == StateClosed || s == StateAborted
}
