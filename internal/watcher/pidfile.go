package watcher

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFileName is the default PID file name, created inside the inbox.
const PIDFileName = ".spendscope-watch.pid"

// AcquirePIDFile writes the current PID to pidFile. It fails when another
// live process already holds the file. Stale files are replaced.
func AcquirePIDFile(pidFile string) error {
	running, pid, err := IsRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check watcher status: %w", err)
	}
	if running {
		return fmt.Errorf("watcher already running (PID %d, PID file: %s)", pid, pidFile)
	}

	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// ReleasePIDFile removes pidFile if it still names the current process.
func ReleasePIDFile(pidFile string) error {
	pid, ok, err := readPID(pidFile)
	if err != nil || !ok || pid != os.Getpid() {
		return err
	}
	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether pidFile names a live process other than the
// current one. A stale or unreadable PID is treated as not running.
func IsRunning(pidFile string) (bool, int, error) {
	pid, ok, err := readPID(pidFile)
	if err != nil || !ok {
		return false, 0, err
	}
	if pid == os.Getpid() {
		return false, pid, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, nil
	}

	// Signal 0 checks existence without delivering anything.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		os.Remove(pidFile)
		return false, 0, nil
	}
	return true, pid, nil
}

// readPID returns ok=false when the file is missing or holds no valid PID.
func readPID(pidFile string) (int, bool, error) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false, nil
	}
	return pid, true, nil
}
