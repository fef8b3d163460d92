// Package frame reads a bounded request frame off a connection.
package frame

import (
	"bytes"
	"errors"
	"io"

	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/tcputils"
)

const DefaultMaxSize = 8192

// maxEmptyReads bounds consecutive (0, nil) reads, as bufio does.
const maxEmptyReads = 100

var headerSeparator = []byte("\r\n\r\n")

// ErrPeerClosed is returned when the peer closed before sending any byte.
var ErrPeerClosed = tcputils.PeerClosed

// HeaderEnd returns the index of the first blank-line delimiter in buf, or -1.
func HeaderEnd(buf []byte) int {

	return bytes.Index(buf, headerSeparator)
}

// Read captures one frame of at most maxSize bytes from conn.
//
// With model.FramePolicySingle the first Read that returns data ends the
// frame. With model.FramePolicyHeaders reads continue until the header
// delimiter is seen, the buffer is full, or the peer stops sending; whatever
// arrived by then is the frame. Nothing past maxSize is ever read.
func Read(conn io.Reader, maxSize int, policy string) (model.RawFrame, error) {

	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	buf := make([]byte, maxSize)
	n, empty := 0, 0

	for n < maxSize {
		m, err := conn.Read(buf[n:])
		n += m

		if err != nil {
			if n > 0 {
				// peer went quiet or away after sending something
				break
			}
			if errors.Is(err, io.EOF) {
				return model.RawFrame{}, ErrPeerClosed
			}
			return model.RawFrame{}, tcputils.NewError(tcputils.ReadFailure, err)
		}

		if m == 0 {
			// (0, nil) is not end of stream
			empty++
			if empty < maxEmptyReads {
				continue
			}
			if n > 0 {
				break
			}
			return model.RawFrame{}, tcputils.NewError(tcputils.ReadFailure, io.ErrNoProgress)
		}
		empty = 0

		if policy == model.FramePolicySingle {
			break
		}

		if HeaderEnd(buf[max(0, n-m-len(headerSeparator)+1):n]) >= 0 {
			break
		}
	}

	frame := model.RawFrame{Bytes: buf[:n:n]}
	frame.Truncated = n == maxSize && HeaderEnd(frame.Bytes) < 0

	return frame, nil
}
