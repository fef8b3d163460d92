package model

// Config holds raw values as read from fs.properties.
type Config struct {
	ListenerHost       string
	ListenerPort       string
	MaxRequestSize     int
	FrameReadPolicy    string
	OversizePolicy     string
	ConcurrencyPeak    int64
	ReadTimeout        int32
	WriteTimeout       int32
	LiveMetrics        bool
	LogLevel           string
	EnableProfilingFor string
}
