package bplog

import (
	"bytes"
	"fmt"
	"io"
)

// maxLoggedLineBytes caps a single prefixed line before it's elided. A
// Trace-level dump of a logistics station's raw parameter tail (up to
// hundreds of uint32 cells) or a building's full Parameters slice can
// run to several KB printed via %v; without a cap one long line can
// blow past a terminal's scrollback in a single write.
const maxLoggedLineBytes = 2048

// PrefixWriter wraps an io.Writer, buffers until a newline, and writes
// each line with a prefix. Lines longer than maxLoggedLineBytes are
// truncated with an elision marker rather than written in full.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: w,
	}
}

// Write implements the io.Writer interface. It buffers data until a newline
// is encountered, then writes the prefixed (and possibly truncated) line to
// the underlying writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	if _, err := pw.buffer.Write(p); err != nil {
		return 0, err
	}

	for {
		line, err := pw.buffer.ReadBytes('\n')
		if err != nil {
			// If we have an incomplete line, write it back to the buffer and wait for more data.
			if len(line) > 0 {
				// This operation should not fail as we are writing to an in-memory buffer.
				if _, wErr := pw.buffer.Write(line); wErr != nil {
					return 0, wErr
				}
			}
			break
		}

		if err := pw.writeLine(line); err != nil {
			return 0, err
		}
	}

	return n, nil
}

// Close flushes any buffered partial line (one with no trailing newline
// yet) so a diagnostic emitted just before process exit — e.g. the CLI's
// inspect subcommand logging a parse failure right before os.Exit — isn't
// silently dropped.
func (pw *PrefixWriter) Close() error {
	if pw.buffer.Len() == 0 {
		return nil
	}
	line := pw.buffer.Bytes()
	pw.buffer.Reset()
	return pw.writeLine(line)
}

func (pw *PrefixWriter) writeLine(line []byte) error {
	trailingNewline := bytes.HasSuffix(line, []byte("\n"))
	body := line
	if trailingNewline {
		body = line[:len(line)-1]
	}
	if len(body) > maxLoggedLineBytes {
		elided := len(body) - maxLoggedLineBytes
		body = append(append([]byte{}, body[:maxLoggedLineBytes]...), []byte(fmt.Sprintf("...(%d bytes elided)", elided))...)
	}

	if _, err := pw.writer.Write([]byte(pw.prefix)); err != nil {
		return err
	}
	if _, err := pw.writer.Write(body); err != nil {
		return err
	}
	if trailingNewline {
		if _, err := pw.writer.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}
