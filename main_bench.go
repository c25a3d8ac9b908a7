//go:build bench && !headless

// main_bench.go - interactive decode-throughput benchmark harness (spec §6).
//
// Puts the terminal in raw mode (golang.org/x/term) so a single
// keypress can stop the run without waiting for Enter, then free-runs
// a VideoPlayer's Tick/Render on the given AVI as fast as the CPU
// allows, reporting ticks/sec. Grounded on the teacher's own use of
// golang.org/x/term for raw stdin handling.

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: frogos-bench <avi-path>")
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frogos-bench: raw mode unavailable, running unattended: %v\n", err)
	} else {
		defer term.Restore(fd, oldState)
	}

	player := NewVideoPlayer()
	if err := player.Open(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "frogos-bench: open failed: %v\n", err)
		os.Exit(1)
	}

	fb := NewFramebuffer()
	keyCh := make(chan byte, 1)
	if oldState != nil {
		go func() {
			var b [1]byte
			if _, err := os.Stdin.Read(b[:]); err == nil {
				keyCh <- b[0]
			}
		}()
	}

	start := time.Now()
	var ticks uint64
	for {
		select {
		case <-keyCh:
			reportBenchResult(ticks, time.Since(start))
			return
		default:
		}
		if err := player.Tick(); err != nil {
			reportBenchResult(ticks, time.Since(start))
			return
		}
		player.Render(fb)
		ticks++
		if ticks >= 100000 {
			reportBenchResult(ticks, time.Since(start))
			return
		}
	}
}

func reportBenchResult(ticks uint64, elapsed time.Duration) {
	fmt.Fprintf(os.Stdout, "\r\nticks: %d, elapsed: %s, fps: %.1f\r\n",
		ticks, elapsed.Round(time.Millisecond), float64(ticks)/elapsed.Seconds())
}
