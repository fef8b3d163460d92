package model

// RawFrame is the byte payload captured from a connection before any
// interpretation. Its length never exceeds the configured maximum.
type RawFrame struct {
	Bytes     []byte
	Truncated bool // buffer filled before the header terminator was seen
}

// Len returns the number of bytes actually read.
func (f RawFrame) Len() int {

	return len(f.Bytes)
}

// Empty reports whether the peer closed before sending anything.
func (f RawFrame) Empty() bool {

	return len(f.Bytes) == 0
}
