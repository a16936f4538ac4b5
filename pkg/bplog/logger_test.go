package bplog

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevelDefaultsToWarn(t *testing.T) {
	t.Setenv("DSPBPTK_LOG_LEVEL", "")
	assert.Equal(t, "warn", GetLogLevel())
}

func TestGetLogLevelReadsEnv(t *testing.T) {
	t.Setenv("DSPBPTK_LOG_LEVEL", "trace")
	assert.Equal(t, "trace", GetLogLevel())
}

func TestNewLoggerPrefixesNonJSONOutput(t *testing.T) {
	t.Setenv("DSPBPTK_JSON_LOG", "")
	var buf bytes.Buffer
	logger, flush := NewLogger("test", "debug", &buf)
	logger.Debug("hello")
	require.NoError(t, flush())
	assert.Contains(t, buf.String(), "📐 ")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewLoggerJSONModeSkipsPrefix(t *testing.T) {
	t.Setenv("DSPBPTK_JSON_LOG", "1")
	var buf bytes.Buffer
	logger, flush := NewLogger("test", "debug", &buf)
	logger.Debug("hello")
	require.NoError(t, flush())
	assert.NotContains(t, buf.String(), "📐")
	assert.Contains(t, buf.String(), "hello")
}

func TestPrefixWriterCloseWritesPartialLineAndNewLoggerFlushSucceeds(t *testing.T) {
	t.Setenv("DSPBPTK_JSON_LOG", "")
	var buf bytes.Buffer
	_, flush := NewLogger("test", "debug", &buf)

	// Simulate a writer that emits a line with no trailing newline, the
	// way a log line written right before process exit might.
	w := NewPrefixWriter("X ", &buf)
	_, err := w.Write([]byte("partial, no newline yet"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	require.NoError(t, w.Close())
	assert.Equal(t, "X partial, no newline yet", buf.String())

	require.NoError(t, flush())
}

func TestNewLoggerAcceptsNilOutput(t *testing.T) {
	logger, flush := NewLogger("test", "warn", nil)
	require.NotNil(t, logger)
	require.NotNil(t, flush)
	var _ hclog.Logger = logger
}
