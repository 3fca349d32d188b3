package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, enc := range []string{"json", "console", "bogus"} {
		logger, err := New("debug", enc)
		if err != nil {
			t.Fatalf("New(debug, %s) error: %v", enc, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("%s: expected debug enabled", enc)
		}
	}

	logger, err := New("error", "json")
	if err != nil {
		t.Fatalf("New(error, json) error: %v", err)
	}
	if logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("expected warn disabled at error level")
	}
}
