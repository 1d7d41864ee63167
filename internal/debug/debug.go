// Package debug is the engine's one process-wide logging collaborator.
//
// It is deliberately write-only: nothing in internal/* reads logging state
// back to make a decision. Output defaults to discarded; the CLI turns it
// on via SetOutput when --verbose is passed or SCOUT_DEBUG is set.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be set at link time: -ldflags "-X .../internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
	file   *os.File
)

// SetOutput sets the writer debug output goes to. Pass nil to silence it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// OpenLogFile opens path for append and routes debug output to it until CloseLogFile is called.
func OpenLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	file = f
	output = f
	return nil
}

// CloseLogFile closes the log file opened by OpenLogFile, if any.
func CloseLogFile() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

// Enabled reports whether debug logging is switched on, through the
// EnableDebug variable or the SCOUT_DEBUG environment variable.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("SCOUT_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes a component-tagged debug line. A no-op unless Enabled() and an
// output writer has been configured.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// Warn writes a warning for a skipped file (ParseError/IOError disposition).
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
