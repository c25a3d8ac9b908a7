// scratch_buffer.go - The single ~6MB universal scratch buffer (spec §3, §5, §9).
//
// Invariant: at most one consumer holds the buffer across a call
// boundary. Any producer that must preserve its output across frames
// copies out of the scratch buffer into its own allocation. The teacher
// enforces similarly hard invariants with panics rather than silent
// corruption (machine_bus_seal_test.go's sealed-memory checks); frogos
// does the same here rather than accept silent corruption as spec §5
// otherwise allows.

package main

import "fmt"

// ScratchBuffer is the single shared byte buffer reused for one-shot
// pixel work: image decode, raw thumbnail loads, bilinear resample
// sources.
type ScratchBuffer struct {
	buf    []byte
	held   bool
	holder string
}

// NewScratchBuffer allocates the universal scratch buffer.
func NewScratchBuffer() *ScratchBuffer {
	return &ScratchBuffer{buf: make([]byte, UniversalBufferSize)}
}

// Acquire claims exclusive use of the buffer for the named caller. It
// panics if already held, since that would mean two decode results are
// silently aliasing the same memory.
func (s *ScratchBuffer) Acquire(who string) []byte {
	if s.held {
		panic(fmt.Sprintf("scratch buffer double-acquire: held by %q, requested by %q", s.holder, who))
	}
	s.held = true
	s.holder = who
	return s.buf
}

// Release gives up the buffer. Safe to call even if not held.
func (s *ScratchBuffer) Release(who string) {
	if s.held && s.holder == who {
		s.held = false
		s.holder = ""
	}
}

// Held reports whether the buffer is currently claimed.
func (s *ScratchBuffer) Held() bool { return s.held }

// Len is the total capacity of the scratch buffer.
func (s *ScratchBuffer) Len() int { return len(s.buf) }
