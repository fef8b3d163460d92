package model

// NetService drives a single accepted connection from read to close.
type NetService interface {
	Execute()
	Discard()
	State() ConnState
}
