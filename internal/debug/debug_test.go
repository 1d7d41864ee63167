package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogNoopWithoutOutput(t *testing.T) {
	SetOutput(nil)
	os.Setenv("SCOUT_DEBUG", "1")
	defer os.Unsetenv("SCOUT_DEBUG")

	Log("TEST", "hello %d", 1)
}

func TestLogWritesWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	os.Setenv("SCOUT_DEBUG", "1")
	defer os.Unsetenv("SCOUT_DEBUG")

	Log("EXTRACT", "saw %s at line %d", "os", 3)
	assert.Contains(t, buf.String(), "[EXTRACT] saw os at line 3")
}

func TestLogSilentWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	os.Unsetenv("SCOUT_DEBUG")
	EnableDebug = "false"

	Log("EXTRACT", "should not appear")
	assert.Empty(t, buf.String())
}
