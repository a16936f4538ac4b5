package bplog

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings. The
// returned flush func must be called (typically deferred) before the
// process exits: it flushes the underlying PrefixWriter's trailing
// partial line — without it, a log line emitted without a newline right
// before exit (e.g. a Debug call in a deferred error path) is dropped.
// In JSON mode there is no line buffering to flush and flush is a no-op.
func NewLogger(name string, level string, output io.Writer) (hclog.Logger, func() error) {
	if output == nil {
		output = os.Stderr
	}

	// Determine if JSON format should be used
	jsonFormat := os.Getenv("DSPBPTK_JSON_LOG") == "1"

	flush := func() error { return nil }

	// Add prefix for non-JSON output
	if !jsonFormat {
		pw := NewPrefixWriter("📐 ", output)
		output = pw
		flush = pw.Close
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts), flush
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv("DSPBPTK_LOG_LEVEL")
	if level == "" {
		level = "warn" // Default to warn for production safety
	}
	return level
}
