package httpservice

import (
	"errors"
	"fmt"
	"net"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/gptankit/frameserve/errorlog"
	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/protocol/frame"
	"github.com/gptankit/frameserve/protocol/parser"
	"github.com/gptankit/frameserve/protocol/response"
	"github.com/gptankit/frameserve/protocol/router"
	"github.com/gptankit/frameserve/tcputils"
)

var _ model.NetService = &HTTPService{}

var (
	tooLargeBody   = []byte(`{ "error": "request_too_large" }`)
	tooManyReqBody = []byte(`{ "error": "too_many_requests" }`)
)

// HTTPService supervises one accepted connection through a single
// read, parse, route, write exchange.
type HTTPService struct {
	inTCPConn  net.Conn
	properties *model.ServerProperties
	table      *router.Table
	stats      *model.ServerStats
	state      model.ConnState
	log        zerolog.Logger
}

type HTTPServiceOption func(*HTTPService) error

// New initializes a supervisor bound to the shared route table and stats.
func New(sp *model.ServerProperties, table *router.Table, stats *model.ServerStats, httpSrvOptions ...HTTPServiceOption) *HTTPService {

	httpSrv := &HTTPService{
		properties: sp,
		table:      table,
		stats:      stats,
		state:      model.StateAccepted,
		log:        *errorlog.Logger(),
	}

	for _, httpSrvOption := range httpSrvOptions {
		if err := httpSrvOption(httpSrv); err != nil {
			return nil
		}
	}

	return httpSrv
}

// WithIncomingTCPConn assigns the accepted conn and tags the log context
// with a connection id and the peer address.
func WithIncomingTCPConn(tcpConn net.Conn) HTTPServiceOption {

	return func(httpSrv *HTTPService) error {

		if tcpConn == nil {
			return errors.New("nil-conn")
		}
		httpSrv.inTCPConn = tcpConn
		httpSrv.log = httpSrv.log.With().
			Str("conn", xid.New().String()).
			Str("remote", tcputils.RemoteAddr(tcpConn)).
			Logger()

		return nil
	}
}

// NewNop returns a HTTPService without a connection; Execute and Discard
// only move it to Closed.
func NewNop(sp *model.ServerProperties) *HTTPService {

	return &HTTPService{
		properties: sp,
		table:      router.New(),
		state:      model.StateAccepted,
		log:        zerolog.Nop(),
	}
}

// State returns where the connection is in its lifecycle.
func (httpSrv *HTTPService) State() model.ConnState {

	return httpSrv.state
}

// Execute runs the connection state machine to a terminal state. It never
// panics or returns an error; failures end only this connection.
func (httpSrv *HTTPService) Execute() {

	if httpSrv.inTCPConn == nil {
		httpSrv.state = model.StateClosed
		return
	}

	defer httpSrv.close()
	defer httpSrv.recoverPanic()

	f, ok := httpSrv.read()
	if !ok {
		return
	}

	req := parser.Parse(f)
	httpSrv.transition(model.StateParsed)
	if req.Lossy {
		httpSrv.log.Warn().Str("line", parser.RequestLine(f)).Msg("request is not valid utf-8, decoded lossily")
	}

	var res model.Response
	if f.Truncated && httpSrv.properties.OversizePolicy == model.OversizeReject {
		errorlog.IncrementErrorCount(tcputils.FrameTooLarge, fmt.Sprintf("frame reached %d bytes without header terminator", f.Len()))
		res = response.JSON(response.StatusPayloadTooLarge, tooLargeBody)
	} else {
		res = httpSrv.table.Dispatch(req)
	}
	httpSrv.transition(model.StateRouted)

	if !httpSrv.write(res) {
		return
	}

	if httpSrv.stats != nil {
		httpSrv.stats.Served()
	}
	httpSrv.transition(model.StateClosed)

	host, _ := req.Header("Host")
	httpSrv.log.Info().
		Str("host", host).
		Str("method", req.Method).
		Str("path", req.Path).
		Str("status", res.Status).
		Int("bytes", len(res.Body)).
		Msg("request served")
}

// Discard answers a connection that arrived above the concurrency peak with
// 429 and closes it.
func (httpSrv *HTTPService) Discard() {

	if httpSrv.inTCPConn == nil {
		httpSrv.state = model.StateClosed
		return
	}

	defer httpSrv.close()
	defer httpSrv.recoverPanic()

	errorlog.IncrementErrorCount(tcputils.Flooded, "discarding connection with 429")

	if _, ok := httpSrv.read(); !ok {
		return
	}
	httpSrv.transition(model.StateParsed)
	httpSrv.transition(model.StateRouted)

	if httpSrv.write(response.JSON(response.StatusTooManyRequests, tooManyReqBody)) {
		httpSrv.transition(model.StateClosed)
	}
}

// read moves Accepted to Reading and captures a frame. It returns false when
// the connection already reached a terminal state.
func (httpSrv *HTTPService) read() (model.RawFrame, bool) {

	httpSrv.transition(model.StateReading)

	if err := tcputils.SetReadDeadline(httpSrv.inTCPConn, httpSrv.properties.ReadTimeout); err != nil {
		httpSrv.abort(tcputils.ReadFailure, err)
		return model.RawFrame{}, false
	}

	f, err := frame.Read(httpSrv.inTCPConn, httpSrv.properties.MaxRequestSize, httpSrv.properties.FrameReadPolicy)
	if err != nil {
		if errors.Is(err, frame.ErrPeerClosed) {
			httpSrv.transition(model.StateClosed)
			httpSrv.log.Debug().Msg("peer closed before sending a request")
			return f, false
		}
		httpSrv.abort(tcputils.ReadFailure, err)
		return f, false
	}

	httpSrv.log.Debug().Str("line", parser.RequestLine(f)).Int("size", f.Len()).Bool("truncated", f.Truncated).Msg("frame read")

	return f, true
}

func (httpSrv *HTTPService) write(res model.Response) bool {

	httpSrv.transition(model.StateWriting)

	if err := tcputils.SetWriteDeadline(httpSrv.inTCPConn, httpSrv.properties.WriteTimeout); err != nil {
		httpSrv.abort(tcputils.WriteFailure, err)
		return false
	}

	if err := response.Write(httpSrv.inTCPConn, res); err != nil {
		httpSrv.abort(tcputils.WriteFailure, err)
		return false
	}

	return true
}

func (httpSrv *HTTPService) transition(next model.ConnState) {

	if httpSrv.state.Terminal() {
		return
	}
	httpSrv.state = next
}

func (httpSrv *HTTPService) abort(kind tcputils.ConnError, err error) {

	if k, ok := tcputils.KindOf(err); ok {
		kind = k
	}
	from := httpSrv.state
	httpSrv.transition(model.StateAborted)
	errorlog.IncrementErrorCount(kind, fmt.Sprintf("%s in state %s: %v", tcputils.EvalError(err), from, err))
}

func (httpSrv *HTTPService) recoverPanic() {

	if r := recover(); r != nil {
		httpSrv.log.Error().Interface("panic", r).Str("state", httpSrv.state.String()).Msg("connection handler panicked")
		httpSrv.state = model.StateAborted
	}
}

// close releases the socket; nothing is read or written afterwards.
func (httpSrv *HTTPService) close() {

	if err := httpSrv.inTCPConn.Close(); err != nil {
		httpSrv.log.Debug().Err(err).Msg("close failed")
	}
}
