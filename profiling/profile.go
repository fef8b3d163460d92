// Package profiling starts an optional runtime profile that is flushed to
// disk when the process receives SIGQUIT.
package profiling

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"

	"github.com/gptankit/frameserve/errorlog"
)

// Mode returns the pkg/profile option for a ENABLE_PROFILING_FOR value.
func Mode(profilingFor string) (func(*profile.Profile), error) {

	switch profilingFor {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "mutex":
		return profile.MutexProfile, nil
	case "block":
		return profile.BlockProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profiling mode %q", profilingFor)
	}
}

// Start begins profiling when profilingFor is set. The profile is written to
// dir (a temp dir when empty) on SIGQUIT, after which the process exits.
func Start(profilingFor string, dir string) error {

	if profilingFor == "" {
		return nil
	}

	mode, err := Mode(profilingFor)
	if err != nil {
		return err
	}

	opts := []func(*profile.Profile){mode, profile.Quiet, profile.NoShutdownHook}
	if dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}
	prof := profile.Start(opts...)

	errorlog.Logger().Info().Str("mode", profilingFor).Msg("profiling enabled, send SIGQUIT to flush")

	csig := make(chan os.Signal, 1)
	signal.Notify(csig, syscall.SIGQUIT)
	go hookInterrupt(csig, prof)

	return nil
}

func hookInterrupt(csig chan os.Signal, prof interface{ Stop() }) {

	for s := range csig {
		if s == syscall.SIGQUIT { // ctrl + \
			errorlog.Logger().Info().Msg("stopping profile and exiting")
			prof.Stop()
			os.Exit(0)
		}
	}
}
