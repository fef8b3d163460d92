package tcputils

import (
	"net"
	"time"
)

// SetReadDeadline bounds the next reads on conn to timeout milliseconds.
// A non-positive timeout leaves the connection without a read deadline.
func SetReadDeadline(conn net.Conn, timeout int32) error {

	if timeout > 0 {
		return conn.SetReadDeadline(time.Now().Add(time.Millisecond * time.Duration(timeout)))
	}

	return nil
}

// SetWriteDeadline bounds the next writes on conn to timeout milliseconds.
func SetWriteDeadline(conn net.Conn, timeout int32) error {

	if timeout > 0 {
		return conn.SetWriteDeadline(time.Now().Add(time.Millisecond * time.Duration(timeout)))
	}

	return nil
}

// RemoteAddr is a nil-safe conn.RemoteAddr().String().
func RemoteAddr(conn net.Conn) string {

	if conn == nil || conn.RemoteAddr() == nil {
		return "-"
	}

	return conn.RemoteAddr().String()
}
