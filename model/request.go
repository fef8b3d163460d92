package model

import "strings"

// Header is a single name/value pair; headers keep their wire order.
type Header struct {
	Name  string
	Value string
}

// Request is the structured form of one RawFrame. Method and Path always
// hold a value, defaulting to "" and "/".
type Request struct {
	Method    string
	Path      string
	Proto     string
	Headers   []Header
	HeaderEnd int // offset of the blank-line delimiter, or frame length if absent
	Body      []byte
	Lossy     bool // invalid UTF-8 was replaced while decoding
}

// Header returns the value of the first header matching name, ignoring case.
func (r Request) Header(name string) (string, bool) {

	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}

	return "", false
}
