// Package response serialises a model.Response into HTTP/1.1 wire bytes.
package response

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gptankit/frameserve/model"
)

const (
	Proto = "HTTP/1.1"
	VER   = "frameserve/0.1"

	StatusOK              = "200 OK"
	StatusNotFound        = "404 NOT FOUND"
	StatusPayloadTooLarge = "413 PAYLOAD TOO LARGE"
	StatusTooManyRequests = "429 TOO MANY REQUESTS"

	HeaderContentLength = "Content-Length"
)

// fixed headers, in wire order; Content-Length is inserted after Content-Type
var (
	leadingHeaders = []model.Header{
		{Name: "Server", Value: VER},
		{Name: "Content-Type", Value: "application/json; charset=utf-8"},
	}
	trailingHeaders = []model.Header{
		{Name: "X-Content-Type-Options", Value: "nosniff"},
		{Name: "X-Frame-Options", Value: "DENY"},
		{Name: "X-XSS-Protection", Value: "1; mode=block"},
		{Name: "Cache-Control", Value: "no-store, no-cache, must-revalidate"},
		{Name: "Connection", Value: "close"},
	}
)

// JSON builds a response carrying body with the fixed header set.
func JSON(status string, body []byte) model.Response {

	headers := make([]model.Header, 0, len(leadingHeaders)+len(trailingHeaders)+1)
	headers = append(headers, leadingHeaders...)
	headers = append(headers, model.Header{Name: HeaderContentLength, Value: strconv.Itoa(len(body))})
	headers = append(headers, trailingHeaders...)

	return model.Response{
		Status:  status,
		Headers: headers,
		Body:    body,
	}
}

// Serialize renders res for a single write call. The Content-Length header,
// wherever it sits, always carries the byte length of the body.
func Serialize(res model.Response) []byte {

	var buf bytes.Buffer
	buf.Grow(128 + len(res.Body))

	buf.WriteString(Proto)
	buf.WriteByte(' ')
	buf.WriteString(res.Status)
	buf.WriteString("\r\n")

	hasLength := false
	for _, h := range res.Headers {
		value := h.Value
		if h.Name == HeaderContentLength {
			value = strconv.Itoa(len(res.Body))
			hasLength = true
		}
		writeHeader(&buf, h.Name, value)
	}
	if !hasLength {
		writeHeader(&buf, HeaderContentLength, strconv.Itoa(len(res.Body)))
	}

	buf.WriteString("\r\n")
	buf.Write(res.Body)

	return buf.Bytes()
}

// Write serialises res and writes it to w in one call.
func Write(w io.Writer, res model.Response) error {

	_, err := w.Write(Serialize(res))
	return err
}

func writeHeader(buf *bytes.Buffer, name, value string) {

	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
