package scouterrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorRecoverableAndUnwraps(t *testing.T) {
	underlying := errors.New("unexpected token")
	err := NewParseError("pkg/evil.py", underlying)

	require.Equal(t, ErrorTypeParse, err.Type)
	assert.True(t, err.IsRecoverable())
	assert.True(t, errors.Is(err, underlying))
	assert.Contains(t, err.Error(), "pkg/evil.py")
}

func TestConfigLoadErrorIsFatal(t *testing.T) {
	err := NewConfigLoadError("scout.json", errors.New("bad json"))
	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.False(t, err.IsRecoverable())
}

func TestInternalErrorHasNoPath(t *testing.T) {
	err := NewInternalError("combine density fields", errors.New("loc mismatch"))
	assert.Equal(t, ErrorTypeInternal, err.Type)
	assert.NotContains(t, err.Error(), "failed for")
}
