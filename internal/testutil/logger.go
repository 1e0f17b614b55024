// Package testutil provides testing utilities for dwprod packages.
package testutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a trace-level test logger that discards output, so
// every logging call site still runs.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(io.Discard).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}

// NewBufferLogger creates a logger writing JSON lines into the returned
// buffer, for asserting on emitted log events.
func NewBufferLogger(t *testing.T, level zerolog.Level) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return zerolog.New(buf).Level(level), buf
}
