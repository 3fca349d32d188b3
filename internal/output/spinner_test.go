package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Asking commentary service")
	s.SetWriter(&buf)

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	if got := buf.String(); got != "Asking commentary service...\n" {
		t.Errorf("output = %q, want single message line", got)
	}
}

func TestSpinner_StopIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Working")
	s.SetWriter(&buf)

	s.Stop()
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	if strings.Count(buf.String(), "Working...") != 1 {
		t.Errorf("expected one start message, got %q", buf.String())
	}
}

func TestSpinner_StopWithMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Detecting contracts")
	s.SetWriter(&buf)

	s.Start()
	s.StopWithMessage("Found 2 contracts")

	if !strings.HasSuffix(buf.String(), "Found 2 contracts\n") {
		t.Errorf("output = %q, want final message", buf.String())
	}
}

func TestSpinner_TimeoutLine(t *testing.T) {
	s := NewSpinner("Waiting").WithTimeout(30 * time.Second)
	s.start = time.Now()

	s.mu.Lock()
	line := s.line()
	s.mu.Unlock()

	if !strings.HasPrefix(line, "Waiting (") || !strings.HasSuffix(line, "s remaining)") {
		t.Errorf("line() = %q", line)
	}
}

func TestSpinner_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Concurrent")
	s.SetWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Start()
			s.Stop()
		}()
	}
	wg.Wait()
}
