package bplog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriterPrefixesEachLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(">> ", &buf)

	n, err := w.Write([]byte("first\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, len("first\nsecond\n"), n)
	assert.Equal(t, ">> first\n>> second\n", buf.String())
}

func TestPrefixWriterBuffersPartialLineUntilNewline(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(">> ", &buf)

	_, err := w.Write([]byte("partial"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = w.Write([]byte(" line\n"))
	require.NoError(t, err)
	assert.Equal(t, ">> partial line\n", buf.String())
}

func TestPrefixWriterTruncatesLongLineWithElisionMarker(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(">> ", &buf)

	long := strings.Repeat("a", maxLoggedLineBytes+100)
	_, err := w.Write([]byte(long + "\n"))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, ">> "+strings.Repeat("a", maxLoggedLineBytes)))
	assert.Contains(t, out, "...(100 bytes elided)")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Less(t, len(out), len(long))
}

func TestPrefixWriterCloseFlushesTrailingPartialLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(">> ", &buf)

	_, err := w.Write([]byte("no newline yet"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	require.NoError(t, w.Close())
	assert.Equal(t, ">> no newline yet", buf.String())
}

func TestPrefixWriterCloseIsNoOpWhenBufferEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(">> ", &buf)

	_, err := w.Write([]byte("complete\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, ">> complete\n", buf.String())
}
