package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/gptankit/frameserve/errorlog"
	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/profiling"
	"github.com/gptankit/frameserve/protocol/httpservice"
	"github.com/gptankit/frameserve/protocol/router"
	"github.com/gptankit/frameserve/tcputils"
)

// pause after a failed accept so a persistent error (EMFILE) does not spin
const acceptRetryGap = 10 * time.Millisecond

// main reads fs.properties, binds the listener and serves until the listener
// is closed by SIGINT or SIGTERM.
func main() {

	sp, err := getProperties(getPropertyFilePath(os.Args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read fs.properties -- %s\n", err.Error())
		os.Exit(1)
	}

	errorlog.Init(os.Stderr, sp.LogLevel)

	if err := profiling.Start(sp.EnableProfilingFor, ""); err != nil {
		errorlog.LogGenericError("could not start profiling -- " + err.Error())
		os.Exit(1)
	}

	listener, err := getListener(sp)
	if err != nil {
		errorlog.LogGenericError("could not listen on " + sp.Addr() + " -- " + err.Error())
		os.Exit(1)
	}
	defer listener.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	announce(os.Stdout, listener.Addr())

	stats := model.NewServerStats()
	table := router.Default(stats, sp.LiveMetrics)
	logRoutes(table)
	cwork := make(chan int, sp.MaxConcurrency)    // work in progress
	cdiscard := make(chan int, sp.MaxConcurrency) // 429s in progress

	listenActive(listener, cwork, cdiscard, sp, table, stats)
	errorlog.Logger().Info().Uint64("requests", stats.Requests()).Msg("listener closed, exiting")
}

// announce prints the human readable startup line.
func announce(w io.Writer, addr net.Addr) {

	color.New(color.FgGreen, color.Bold).Fprintf(w, "frameserve running on http://%s\n", addr)
}

// logRoutes reports the registered routes and any dropped registration.
func logRoutes(table *router.Table) {

	for _, r := range table.Routes() {
		errorlog.Logger().Debug().Str("method", r.Method).Str("path", r.Path).Msg("route registered")
	}
	for _, r := range table.Duplicates() {
		errorlog.Logger().Warn().Str("method", r.Method).Str("path", r.Path).Msg("duplicate or empty route dropped")
	}
}

// listenActive accepts connections until the listener is closed. Each
// connection runs in its own goroutine; above the concurrency peak the
// connection is discarded with 429 instead, and once the discard slots are
// full too it is closed without a response.
func listenActive(listener net.Listener, cwork chan int, cdiscard chan int, sp *model.ServerProperties, table *router.Table, stats *model.ServerStats) {

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			errorlog.IncrementErrorCount(tcputils.AcceptFailure, err.Error())
			time.Sleep(acceptRetryGap)
			continue
		}

		select {
		case cwork <- 1:
			go func() {
				defer func() { <-cwork }()
				serveConnection(conn, sp, table, stats)
			}()
		default:
			select {
			case cdiscard <- 1:
				go func() {
					defer func() { <-cdiscard }()
					discardConnection(conn, sp)
				}()
			default:
				errorlog.IncrementErrorCount(tcputils.Flooded, "discard slots full, closing connection")
				conn.Close()
			}
		}
	}
}

func serveConnection(conn net.Conn, sp *model.ServerProperties, table *router.Table, stats *model.ServerStats) {

	httpSrv := httpservice.New(sp, table, stats, httpservice.WithIncomingTCPConn(conn))
	if httpSrv == nil {
		conn.Close()
		return
	}
	httpSrv.Execute()
}

func discardConnection(conn net.Conn, sp *model.ServerProperties) {

	httpSrv := httpservice.New(sp, nil, nil, httpservice.WithIncomingTCPConn(conn))
	if httpSrv == nil {
		conn.Close()
		return
	}
	httpSrv.Discard()
}
