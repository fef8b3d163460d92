// Package parser turns a raw frame into a model.Request. It never fails:
// anything it cannot make sense of falls back to a default value.
package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/protocol/frame"
)

const (
	DefaultMethod = ""
	DefaultPath   = "/"
)

var crlf = []byte("\r\n")

// Parse decodes frame into a Request.
func Parse(f model.RawFrame) model.Request {

	raw := f.Bytes
	req := model.Request{
		Method: DefaultMethod,
		Path:   DefaultPath,
		Lossy:  !utf8.Valid(raw),
	}
	if f.Empty() {
		return req
	}

	headerEnd := frame.HeaderEnd(raw)
	head := raw
	if headerEnd >= 0 {
		head = raw[:headerEnd]
		req.HeaderEnd = headerEnd
		if bodyStart := headerEnd + 4; bodyStart < len(raw) {
			req.Body = raw[bodyStart:]
		}
	} else {
		req.HeaderEnd = len(raw)
	}

	lines := strings.Split(decode(head), "\r\n")
	req.Method, req.Path, req.Proto = parseRequestLine(lines[0])

	if headerEnd >= 0 {
		req.Headers = parseHeaders(lines[1:])
	}

	return req
}

// parseRequestLine splits "METHOD PATH PROTO" on whitespace, filling the
// missing tokens with defaults.
func parseRequestLine(line string) (string, string, string) {

	method, path, proto := DefaultMethod, DefaultPath, ""

	fields := strings.Fields(line)
	if len(fields) > 0 {
		method = fields[0]
	}
	if len(fields) > 1 {
		path = fields[1]
	}
	if len(fields) > 2 {
		proto = fields[2]
	}

	return method, path, proto
}

func parseHeaders(lines []string) []model.Header {

	var headers []model.Header
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		headers = append(headers, model.Header{Name: name, Value: strings.TrimSpace(value)})
	}

	return headers
}

// decode is a lossy UTF-8 conversion: every byte that does not start a valid
// sequence becomes one U+FFFD.
func decode(b []byte) string {

	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}

	return sb.String()
}

// RequestLine returns the first line of the frame, decoded, for logging.
func RequestLine(f model.RawFrame) string {

	line := f.Bytes
	if i := bytes.Index(line, crlf); i >= 0 {
		line = line[:i]
	}

	return decode(line)
}
