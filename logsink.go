// logsink.go - Single opaque log sink, as described in spec §7.
//
// The scheduler and subsystems never return errors to the host; they
// announce through whatever sink the host supplies. The teacher follows
// the same convention with TerminalOutput as the only write path out of
// the emulated machine.

package main

import (
	"fmt"
	"os"
)

// LogSink is the single opaque logging destination the host provides.
type LogSink interface {
	Logf(format string, args ...any)
}

// StderrLogSink writes to the process's standard error stream.
type StderrLogSink struct{}

func (StderrLogSink) Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// NullLogSink discards everything; used by headless backends and tests.
type NullLogSink struct{}

func (NullLogSink) Logf(string, ...any) {}
