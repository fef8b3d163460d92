package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gptankit/frameserve/model"
)

func writeProperties(t *testing.T, content string) string {

	t.Helper()
	path := filepath.Join(t.TempDir(), "fs.properties")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write properties: %v", err)
	}
	return path
}

func TestReadConfiguration(t *testing.T) {

	path := writeProperties(t, `
# frameserve
LISTENER_HOST=127.0.0.1
LISTENER_PORT=9000
MAX_REQUEST_SIZE=1024
FRAME_READ_POLICY=single
OVERSIZE_POLICY=reject
CONCURRENCY_PEAK=16
READ_TIMEOUT=250
WRITE_TIMEOUT=0
LIVE_METRICS=true
LOG_LEVEL=debug
SOMETHING_ELSE=ignored
`)

	sp, err := getProperties(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := model.ServerProperties{
		ListenerHost:    "127.0.0.1",
		ListenerPort:    "9000",
		MaxRequestSize:  1024,
		FrameReadPolicy: model.FramePolicySingle,
		OversizePolicy:  model.OversizeReject,
		MaxConcurrency:  16,
		ReadTimeout:     250,
		WriteTimeout:    0,
		LiveMetrics:     true,
		LogLevel:        "debug",
	}
	if *sp != expected {
		t.Errorf("properties mismatch:\n%+v\nexpected:\n%+v\n", *sp, expected)
	}
	if sp.Addr() != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %s\n", sp.Addr())
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {

	sp, err := getProperties(filepath.Join(t.TempDir(), "absent.properties"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Addr() != "0.0.0.0:8000" || sp.MaxRequestSize != 8192 || sp.MaxConcurrency <= 0 {
		t.Errorf("unexpected defaults %+v\n", *sp)
	}
}

func TestEnvironmentOverridesHostPort(t *testing.T) {

	t.Setenv(ENV_HOST, "127.0.0.2")
	t.Setenv(ENV_PORT, "9100")

	sp, err := getProperties(writeProperties(t, "LISTENER_PORT=9000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Addr() != "127.0.0.2:9100" {
		t.Errorf("environment not applied, addr=%s\n", sp.Addr())
	}
}

func TestInvalidProperties(t *testing.T) {

	var params = []struct {
		content string
		reason  string
	}{
		{"LISTENER_PORT=http\n", "LISTENER_PORT"},
		{"LISTENER_PORT=70000\n", "LISTENER_PORT"},
		{"MAX_REQUEST_SIZE=0\n", "MAX_REQUEST_SIZE"},
		{"MAX_REQUEST_SIZE=big\n", "MAX_REQUEST_SIZE"},
		{"CONCURRENCY_PEAK=-1\n", "CONCURRENCY_PEAK"},
		{"FRAME_READ_POLICY=stream\n", "FRAME_READ_POLICY"},
		{"OVERSIZE_POLICY=drop\n", "OVERSIZE_POLICY"},
		{"READ_TIMEOUT=-5\n", "timeouts"},
		{"LIVE_METRICS=maybe\n", "LIVE_METRICS"},
		{"ENABLE_PROFILING_FOR=gpu\n", "profiling"},
		{"NOT A PAIR\n", "KEY=VALUE"},
	}

	for _, prm := range params {
		_, err := getProperties(writeProperties(t, prm.content))
		if err == nil || !strings.Contains(err.Error(), prm.reason) {
			t.Errorf("content=%q --> %v, expected mention of %s\n", prm.content, err, prm.reason)
		}
	}
}

func TestPropertyFilePath(t *testing.T) {

	if p := getPropertyFilePath([]string{"frameserve"}); p != FS_WD+"/config/fs.properties" {
		t.Errorf("unexpected default path %s\n", p)
	}
	if p := getPropertyFilePath([]string{"frameserve", "/tmp/fs.properties"}); p != "/tmp/fs.properties" {
		t.Errorf("argument not honoured: %s\n", p)
	}
}
