package model

const (
	FramePolicySingle  = "single"
	FramePolicyHeaders = "headers"

	OversizeTruncate = "truncate"
	OversizeReject   = "reject"
)

// ServerProperties is the validated, process-wide configuration. It is built
// once at startup and only read afterwards.
type ServerProperties struct {
	ListenerHost       string
	ListenerPort       string
	MaxRequestSize     int
	FrameReadPolicy    string
	OversizePolicy     string
	MaxConcurrency     int64
	ReadTimeout        int32 // ms, 0 disables
	WriteTimeout       int32 // ms, 0 disables
	LiveMetrics        bool
	LogLevel           string
	EnableProfilingFor string
}

// Addr returns the host:port the listener binds to.
func (sp *ServerProperties) Addr() string {

	return sp.ListenerHost + ":" + sp.ListenerPort
}
