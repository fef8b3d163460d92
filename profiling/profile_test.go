package profiling

import "testing"

func TestMode(t *testing.T) {

	var params = []struct {
		in string
		ok bool
	}{
		{"cpu", true},
		{"mem", true},
		{"mutex", true},
		{"block", true},
		{"trace", true},
		{"gpu", false},
		{"CPU", false},
	}

	for _, prm := range params {
		mode, err := Mode(prm.in)
		if prm.ok && (err != nil || mode == nil) {
			t.Errorf("mode %q rejected: %v\n", prm.in, err)
		}
		if !prm.ok && err == nil {
			t.Errorf("mode %q accepted\n", prm.in)
		}
	}
}

func TestStartDisabled(t *testing.T) {

	if err := Start("", ""); err != nil {
		t.Errorf("empty mode should be a no-op, got %v\n", err)
	}
	if err := Start("gpu", ""); err == nil {
		t.Errorf("unknown mode should fail\n")
	}
}
