package app

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/spendscope/internal/watcher"
)

func TestWatchCommand(t *testing.T) {
	if watchCmd.Name() != "watch" {
		t.Errorf("expected name to be 'watch', got '%s'", watchCmd.Name())
	}

	if watchCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if watchCmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	if watchCmd.Example == "" {
		t.Error("expected Example to be set")
	}

	if watchCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestWatchCommandFlags(t *testing.T) {
	tests := []struct {
		flagName string
		defValue string
	}{
		{"out", ""},
		{"pid-file", ""},
		{"debounce", watcher.DefaultDebounce.String()},
		{"no-record", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := watchCmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("expected flag '%s' to exist", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
			if flag.Usage == "" {
				t.Errorf("expected flag '%s' to have usage text", tt.flagName)
			}
		})
	}
}

func TestWatch_RequiresInbox(t *testing.T) {
	if _, err := runCLI(t, "watch"); err == nil {
		t.Error("expected error without an inbox argument")
	}
}

func TestServeCommand(t *testing.T) {
	if serveCmd.Flags().Lookup("port") == nil {
		t.Fatal("expected --port flag to exist")
	}
	if !strings.Contains(serveCmd.Long, "/contract-alerts") {
		t.Error("expected endpoint list in Long description")
	}
}

func TestServe_InvalidPort(t *testing.T) {
	_, err := runCLI(t, "serve", "--port", "70000", "--db", testDB(t), "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("expected invalid port error, got %v", err)
	}
}
