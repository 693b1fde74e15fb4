package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/todoview/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode tracks if we're running as an MCP server (set by main)
var MCPMode = false

var (
	// debugOutput is the writer for debug output (nil means no output)
	debugOutput io.Writer
	// forced is set by Enable and turns debug on regardless of build flag or env
	forced bool

	debugMutex sync.Mutex
)

// SetMCPMode enables MCP mode which suppresses all debug output to stdio
func SetMCPMode(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	MCPMode = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enable turns debug output on and routes it to w (the --verbose flag).
func Enable(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	forced = true
	debugOutput = w
}

// Reset restores the default silent state. Used by tests.
func Reset() {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	forced = false
	debugOutput = nil
	MCPMode = false
}

// IsDebugEnabled returns true if debug mode is enabled and we're not in MCP mode
func IsDebugEnabled() bool {
	debugMutex.Lock()
	mcpMode, force := MCPMode, forced
	debugMutex.Unlock()

	// Never output debug info in MCP mode
	if mcpMode {
		return false
	}

	if force || EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// getDebugWriter returns the writer for debug output, or nil if none is configured
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG] "+format, args...)
}

// Log provides structured debug logging with component names
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogScan logs source aggregation and extraction, including skipped files
func LogScan(format string, args ...interface{}) {
	Log("SCAN", format, args...)
}

// LogQuery logs query parsing and filtering
func LogQuery(format string, args ...interface{}) {
	Log("QUERY", format, args...)
}

// LogConfig logs configuration loading and reloads
func LogConfig(format string, args ...interface{}) {
	Log("CONFIG", format, args...)
}

// LogMCP logs MCP server operations
func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}
