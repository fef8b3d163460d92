package main

import (
	"net"

	"github.com/gptankit/frameserve/errorlog"
	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/tcputils"
)

func getListener(sp *model.ServerProperties) (net.Listener, error) {

	return newListener("tcp", sp.Addr(), applyAcceptLog())
}

// newListener binds addr and applies options in order. A bind failure is
// returned as tcputils.BindFailure.
func newListener(transport string, addr string, options ...func(*net.Listener) error) (net.Listener, error) {

	listener, err := net.Listen(transport, addr)
	if err != nil {
		return nil, tcputils.NewError(tcputils.BindFailure, err)
	}

	for _, option := range options {
		if err = option(&listener); err != nil {
			listener.Close()
			return nil, err // further options won't be executed
		}
	}

	return listener, nil
}

// applyAcceptLog wraps the listener so every accepted connection is logged.
func applyAcceptLog() func(*net.Listener) error {

	return func(l *net.Listener) error {

		*l = &acceptLogListener{Listener: *l}
		return nil
	}
}

type acceptLogListener struct {
	net.Listener
}

func (l *acceptLogListener) Accept() (net.Conn, error) {

	conn, err := l.Listener.Accept()
	if err == nil {
		errorlog.Logger().Debug().Str("remote", tcputils.RemoteAddr(conn)).Msg("connection accepted")
	}

	return conn, err
}
