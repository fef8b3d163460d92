package tcputils

import (
	"errors"
	"io"
	"os"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {

	var params = []struct {
		err  error
		kind ConnError
	}{
		{NewError(ReadFailure, io.ErrUnexpectedEOF), ReadFailure},
		{NewError(WriteFailure, nil), WriteFailure},
		{NewError(BindFailure, errors.New("address in use")), BindFailure},
		{PeerClosed, PeerClosed},
		{NewError(Flooded, nil), Flooded},
	}

	for _, prm := range params {
		if !errors.Is(prm.err, prm.kind) {
			t.Errorf("errors.Is failed, err=%v kind=%v\n", prm.err, prm.kind)
		}
		if k, ok := KindOf(prm.err); !ok || k != prm.kind {
			t.Errorf("KindOf mismatch, err=%v --> %v, %t\n", prm.err, k, ok)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {

	err := NewError(ReadFailure, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("underlying error lost: %v\n", err)
	}
	if errors.Is(err, WriteFailure) {
		t.Errorf("read failure matched write failure\n")
	}
	if errors.Is(NewError(Flooded, nil), AcceptFailure) {
		t.Errorf("flooded matched accept failure\n")
	}
}

func TestEvalError(t *testing.T) {

	if r := EvalError(os.ErrDeadlineExceeded); r != RESPONSE_TIMED_OUT {
		t.Errorf("deadline classified as %s\n", r)
	}
	if r := EvalError(io.EOF); r != RESPONSE_RESET {
		t.Errorf("eof classified as %s\n", r)
	}
}
