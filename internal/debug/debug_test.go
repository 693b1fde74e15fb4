package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState(t *testing.T) func() {
	t.Setenv("DEBUG", "")
	originalDebug := EnableDebug
	return func() {
		EnableDebug = originalDebug
		Reset()
	}
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState(t)()

	EnableDebug = "false"
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// MCP mode always wins
	SetMCPMode(true)
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabled_Env(t *testing.T) {
	defer saveAndRestoreState(t)()

	EnableDebug = "false"
	t.Setenv("DEBUG", "1")
	assert.True(t, IsDebugEnabled())
}

func TestEnable(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	EnableDebug = "false"
	Enable(&buf)

	LogScan("skipped %s\n", "image.png")
	assert.Contains(t, buf.String(), "[DEBUG:SCAN] skipped image.png")
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"

	LogQuery("parsed %q\n", "file:TODO:*")
	LogConfig("reloaded\n")
	LogMCP("tool call\n")
	Printf("plain\n")

	output := buf.String()
	assert.Contains(t, output, `[DEBUG:QUERY] parsed "file:TODO:*"`)
	assert.Contains(t, output, "[DEBUG:CONFIG] reloaded")
	assert.Contains(t, output, "[DEBUG:MCP] tool call")
	assert.Contains(t, output, "[DEBUG] plain")
}

func TestLog_MCPMode(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	Enable(&buf)
	SetMCPMode(true)

	LogScan("should not appear\n")
	assert.Empty(t, buf.String())
}

func TestLog_NoWriter(t *testing.T) {
	defer saveAndRestoreState(t)()

	EnableDebug = "true"
	SetDebugOutput(nil)

	assert.NotPanics(t, func() {
		LogScan("dropped\n")
	})
}
