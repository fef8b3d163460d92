package model

import (
	"sync/atomic"
	"time"
)

// ServerStats tracks process uptime and completed exchanges without locking.
type ServerStats struct {
	started time.Time
	served  atomic.Uint64
}

func NewServerStats() *ServerStats {

	return &ServerStats{started: time.Now()}
}

// Served marks one request as fully answered.
func (s *ServerStats) Served() {

	s.served.Add(1)
}

// Requests returns the number of completed exchanges so far.
func (s *ServerStats) Requests() uint64 {

	return s.served.Load()
}

// Uptime returns whole seconds since the stats were created.
func (s *ServerStats) Uptime() int64 {

	return int64(time.Since(s.started) / time.Second)
}
