package model

// HandlerFunc computes a response; it must not have side effects beyond
// building the body.
type HandlerFunc func(req Request) Response

// Route binds an exact (method, path) pair to a handler.
type Route struct {
	Method  string
	Path    string
	Handler HandlerFunc
}
