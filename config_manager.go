package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/profiling"
)

const (
	FSP_K_LISTENER_HOST        = "LISTENER_HOST"
	FSP_K_LISTENER_PORT        = "LISTENER_PORT"
	FSP_K_MAX_REQUEST_SIZE     = "MAX_REQUEST_SIZE"
	FSP_K_FRAME_READ_POLICY    = "FRAME_READ_POLICY"
	FSP_K_OVERSIZE_POLICY      = "OVERSIZE_POLICY"
	FSP_K_MAX_CONCURRENT_CONNS = "CONCURRENCY_PEAK"
	FSP_K_READ_TIMEOUT         = "READ_TIMEOUT"
	FSP_K_WRITE_TIMEOUT        = "WRITE_TIMEOUT"
	FSP_K_LIVE_METRICS         = "LIVE_METRICS"
	FSP_K_LOG_LEVEL            = "LOG_LEVEL"
	FSP_K_ENABLE_PROFILING_FOR = "ENABLE_PROFILING_FOR"

	ENV_HOST = "FRAMESERVE_HOST"
	ENV_PORT = "FRAMESERVE_PORT"

	FS_WD = "/usr/local/frameserve"
)

// getPropertyFilePath returns the path to fs.properties; the first command
// line argument overrides the default location.
func getPropertyFilePath(args []string) string {

	if len(args) > 1 && args[1] != "" {
		return args[1]
	}

	return FS_WD + "/config/fs.properties"
}

// defaultConfig mirrors the reference server: 0.0.0.0:8000, 8KB frames.
func defaultConfig() *model.Config {

	return &model.Config{
		ListenerHost:    "0.0.0.0",
		ListenerPort:    "8000",
		MaxRequestSize:  8192,
		FrameReadPolicy: model.FramePolicyHeaders,
		OversizePolicy:  model.OversizeTruncate,
		ConcurrencyPeak: 1024,
		ReadTimeout:     5000,
		WriteTimeout:    5000,
		LogLevel:        "info",
	}
}

// getProperties reads fs.properties over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func getProperties(confFilePath string) (*model.ServerProperties, error) {

	cfg := defaultConfig()

	file, err := os.Open(confFilePath)
	if err == nil {
		defer file.Close()
		if err = readProperties(file, cfg); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	applyEnv(cfg, os.Getenv)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return getAssignedProperties(cfg), nil
}

// readProperties scans key=value lines; blank lines and # comments are skipped.
func readProperties(r io.Reader, cfg *model.Config) error {

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("fs.properties line %d: expected KEY=VALUE", lineNo)
		}
		if err := populate(cfg, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("fs.properties line %d: %w", lineNo, err)
		}
	}

	return scanner.Err()
}

// populate maps a key/value pair in fs.properties to the corresponding config field.
func populate(cfg *model.Config, key string, value string) error {

	var err error

	switch key {

	case FSP_K_LISTENER_HOST:
		cfg.ListenerHost = value
	case FSP_K_LISTENER_PORT:
		cfg.ListenerPort = value
	case FSP_K_MAX_REQUEST_SIZE:
		cfg.MaxRequestSize, err = strconv.Atoi(value)
	case FSP_K_FRAME_READ_POLICY:
		cfg.FrameReadPolicy = value
	case FSP_K_OVERSIZE_POLICY:
		cfg.OversizePolicy = value
	case FSP_K_MAX_CONCURRENT_CONNS:
		cfg.ConcurrencyPeak, err = strconv.ParseInt(value, 10, 64)
	case FSP_K_READ_TIMEOUT:
		cfg.ReadTimeout, err = parseTimeout(value)
	case FSP_K_WRITE_TIMEOUT:
		cfg.WriteTimeout, err = parseTimeout(value)
	case FSP_K_LIVE_METRICS:
		cfg.LiveMetrics, err = strconv.ParseBool(value)
	case FSP_K_LOG_LEVEL:
		cfg.LogLevel = value
	case FSP_K_ENABLE_PROFILING_FOR:
		cfg.EnableProfilingFor = value
	default:
		// unknown keys are ignored so older files keep working
	}

	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	return nil
}

func parseTimeout(value string) (int32, error) {

	v, err := strconv.ParseInt(value, 10, 32)
	return int32(v), err
}

// applyEnv lets FRAMESERVE_HOST and FRAMESERVE_PORT override the file.
func applyEnv(cfg *model.Config, getenv func(string) string) {

	if host := getenv(ENV_HOST); host != "" {
		cfg.ListenerHost = host
	}
	if port := getenv(ENV_PORT); port != "" {
		cfg.ListenerPort = port
	}
}

// validate does a mandatory fields check on the merged configuration.
func validate(cfg *model.Config) error {

	if port, err := strconv.Atoi(cfg.ListenerPort); err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid %s %q", FSP_K_LISTENER_PORT, cfg.ListenerPort)
	}
	if cfg.MaxRequestSize <= 0 {
		return fmt.Errorf("%s must be positive", FSP_K_MAX_REQUEST_SIZE)
	}
	if cfg.ConcurrencyPeak <= 0 {
		return fmt.Errorf("%s must be positive", FSP_K_MAX_CONCURRENT_CONNS)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	if cfg.FrameReadPolicy != model.FramePolicySingle && cfg.FrameReadPolicy != model.FramePolicyHeaders {
		return fmt.Errorf("unknown %s %q", FSP_K_FRAME_READ_POLICY, cfg.FrameReadPolicy)
	}
	if cfg.OversizePolicy != model.OversizeTruncate && cfg.OversizePolicy != model.OversizeReject {
		return fmt.Errorf("unknown %s %q", FSP_K_OVERSIZE_POLICY, cfg.OversizePolicy)
	}
	if cfg.EnableProfilingFor != "" {
		if _, err := profiling.Mode(cfg.EnableProfilingFor); err != nil {
			return err
		}
	}

	return nil
}

// getAssignedProperties returns a new model.ServerProperties object
// with configs mapped from fs.properties.
func getAssignedProperties(cfg *model.Config) *model.ServerProperties {

	return &model.ServerProperties{
		ListenerHost:       cfg.ListenerHost,
		ListenerPort:       cfg.ListenerPort,
		MaxRequestSize:     cfg.MaxRequestSize,
		FrameReadPolicy:    cfg.FrameReadPolicy,
		OversizePolicy:     cfg.OversizePolicy,
		MaxConcurrency:     cfg.ConcurrencyPeak,
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		LiveMetrics:        cfg.LiveMetrics,
		LogLevel:           cfg.LogLevel,
		EnableProfilingFor: cfg.EnableProfilingFor,
	}
}
