package errorlog

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	logMutex sync.RWMutex
	logger   = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init points the process logger at w. Terminals get the console format,
// everything else gets one JSON object per line.
func Init(w io.Writer, level string) {

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}

	logMutex.Lock()
	defer logMutex.Unlock()
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "frameserve").Logger()
}

// Logger returns the current process logger.
func Logger() *zerolog.Logger {

	logMutex.RLock()
	defer logMutex.RUnlock()
	l := logger
	return &l
}

// LogGenericError logs a message that is not tied to a connection.
func LogGenericError(msg string) {

	Logger().Error().Msg(msg)
}
