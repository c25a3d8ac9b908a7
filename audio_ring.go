// audio_ring.go - Lock-free SPSC byte ring for decoded audio (C3, spec §3, §4.5).
//
// Single producer (the decoder feeder, called from the tick thread),
// single consumer (the host audio callback thread, spec §5). Content is
// always 16-bit stereo; mono decoders duplicate samples on write.
// Grounded on the teacher's atomic-pointer producer/consumer split in
// audio_backend_oto.go (OtoPlayer.chip atomic.Pointer), generalized here
// to a byte-oriented ring rather than a single sample slot.

package main

import "sync/atomic"

// AudioRing is a single-producer single-consumer byte ring buffer.
type AudioRing struct {
	buf   []byte
	size  uint32
	write atomic.Uint32 // producer-owned
	read  atomic.Uint32 // consumer-owned
}

// NewAudioRing allocates a ring of the given byte capacity.
func NewAudioRing(size uint32) *AudioRing {
	return &AudioRing{buf: make([]byte, size), size: size}
}

// Count returns the number of bytes currently queued. Safe to call from
// either side; reads both atomics without requiring they observe a
// consistent snapshot (worst case it's stale by one op, which is fine
// for the §4.5 "refill when count < size/2" policy).
func (r *AudioRing) Count() uint32 {
	w := r.write.Load()
	rd := r.read.Load()
	return w - rd
}

// Free returns how many bytes can currently be written.
func (r *AudioRing) Free() uint32 {
	return r.size - r.Count()
}

// Write appends as much of data as fits, returning the number of bytes
// actually written. The producer never exceeds size-count bytes (spec §3).
func (r *AudioRing) Write(data []byte) int {
	free := r.Free()
	n := uint32(len(data))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	w := r.write.Load()
	for i := uint32(0); i < n; i++ {
		r.buf[(w+i)%r.size] = data[i]
	}
	r.write.Store(w + n)
	return int(n)
}

// Read drains up to len(dst) bytes, zero-padding any shortfall in dst
// beyond what was actually read (spec §4.5: "zero-padding if the ring is
// starved"). Returns the number of real bytes read.
func (r *AudioRing) Read(dst []byte) int {
	count := r.Count()
	n := uint32(len(dst))
	if n > count {
		n = count
	}
	rd := r.read.Load()
	for i := uint32(0); i < n; i++ {
		dst[i] = r.buf[(rd+i)%r.size]
	}
	for i := n; i < uint32(len(dst)); i++ {
		dst[i] = 0
	}
	r.read.Store(rd + n)
	return int(n)
}

// Drain empties the ring without copying out its contents, used after a
// seek to discard decoded-but-unsynced audio (spec §4.5).
func (r *AudioRing) Drain() {
	r.read.Store(r.write.Load())
}

// Reset empties the ring and rewinds both cursors to zero.
func (r *AudioRing) Reset() {
	r.write.Store(0)
	r.read.Store(0)
}
