package response

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gptankit/frameserve/model"
)

func headerValue(t *testing.T, wire []byte, name string) string {

	t.Helper()
	head, _, ok := bytes.Cut(wire, []byte("\r\n\r\n"))
	if !ok {
		t.Fatalf("no header terminator in %q", wire)
	}
	for _, line := range strings.Split(string(head), "\r\n")[1:] {
		if k, v, ok := strings.Cut(line, ": "); ok && k == name {
			return v
		}
	}
	t.Fatalf("header %s missing in %q", name, wire)
	return ""
}

func TestSerializeLayout(t *testing.T) {

	wire := Serialize(JSON(StatusOK, []byte(`{ "status": "healthy" }`)))

	expected := "HTTP/1.1 200 OK\r\n" +
		"Server: frameserve/0.1\r\n" +
		"Content-Type: application/json; charset=utf-8\r\n" +
		"Content-Length: 23\r\n" +
		"X-Content-Type-Options: nosniff\r\n" +
		"X-Frame-Options: DENY\r\n" +
		"X-XSS-Protection: 1; mode=block\r\n" +
		"Cache-Control: no-store, no-cache, must-revalidate\r\n" +
		"Connection: close\r\n" +
		"\r\n" +
		`{ "status": "healthy" }`

	if string(wire) != expected {
		t.Errorf("unexpected wire form:\n%q\nexpected:\n%q\n", wire, expected)
	}
}

func TestContentLengthCountsBytes(t *testing.T) {

	var params = []string{
		``,
		`{ "error": "not_found" }`,
		`{ "name": "naïve café" }`,
		`{ "emoji": "🚀🔗📥" }`,
		`{ "cjk": "注文を受け付けました" }`,
	}

	for _, body := range params {
		wire := Serialize(JSON(StatusOK, []byte(body)))
		if cl := headerValue(t, wire, HeaderContentLength); cl != strconv.Itoa(len(body)) {
			t.Errorf("content length mismatch, body=%q --> %s, expected %d\n", body, cl, len(body))
		}
		if !bytes.HasSuffix(wire, []byte("\r\n\r\n"+body)) {
			t.Errorf("body not appended verbatim: %q\n", wire)
		}
	}
}

func TestContentLengthIsRecomputed(t *testing.T) {

	res := model.Response{
		Status:  StatusOK,
		Headers: []model.Header{{Name: HeaderContentLength, Value: "999"}},
		Body:    []byte("abc"),
	}
	if cl := headerValue(t, Serialize(res), HeaderContentLength); cl != "3" {
		t.Errorf("stale content length kept: %s\n", cl)
	}

	res.Headers = nil
	if cl := headerValue(t, Serialize(res), HeaderContentLength); cl != "3" {
		t.Errorf("missing content length not added: %s\n", cl)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteReportsFailure(t *testing.T) {

	if err := Write(failingWriter{}, JSON(StatusOK, nil)); err == nil {
		t.Errorf("expected write failure to surface\n")
	}

	var buf bytes.Buffer
	if err := Write(&buf, JSON(StatusNotFound, []byte("{}"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "HTTP/1.1 404 NOT FOUND\r\n") {
		t.Errorf("unexpected status line: %q\n", buf.String())
	}
}
