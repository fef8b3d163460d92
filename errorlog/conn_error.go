package errorlog

import (
	"sync"

	"github.com/gptankit/frameserve/tcputils"
)

var (
	errMutex   sync.Mutex
	errorCount = make(map[tcputils.ConnError]uint64)
)

// IncrementErrorCount records one failure of the given kind and logs it.
func IncrementErrorCount(kind tcputils.ConnError, errReason string) {

	errMutex.Lock()
	errorCount[kind] += 1
	errMutex.Unlock()

	logConnError(kind, errReason)
}

// ErrorCount returns the failures recorded for kind.
func ErrorCount(kind tcputils.ConnError) uint64 {

	errMutex.Lock()
	defer errMutex.Unlock()
	return errorCount[kind]
}

func logConnError(kind tcputils.ConnError, errReason string) {

	Logger().Warn().Int("code", int(kind)).Str("kind", kind.Error()).Msg(errReason)
}
