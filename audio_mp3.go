// audio_mp3.go - MP3 decode (C2, spec §4.5).
//
// Wraps github.com/hajimehoshi/go-mp3 behind the spec's feed/consume/emit
// contract. Spec §4.5 models the MP3 elementary stream as continuous
// across AVI `wb` chunk boundaries — the chunking is driven by
// interleave timing, not MP3 frame alignment, so a frame's bytes
// routinely straddle two chunks. A single go-mp3 Decoder therefore
// persists for the whole stream, reading through mp3ChunkFeeder, which
// hands out one AVI audio chunk's bytes at a time and advances to the
// next chunk once exhausted — the same "grow/shift the input buffer"
// model the spec describes, rather than treating each chunk as an
// independently-parseable MP3 file. Grounded on the go-mp3-consuming
// pattern in other_examples (feed bytes to mp3.NewDecoder, drain via
// Read in a loop, treat the decoder as always emitting interleaved
// stereo 16-bit LE PCM) and the teacher's per-chip decode-loop shape in
// audio_chip.go.

package main

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// mp3ChunkFeeder is the io.Reader go-mp3 pulls from. It exposes the
// AVI audio index as one continuous byte stream: Read hands out the
// current chunk's remaining bytes and, once they run out, reads the
// next chunk from the index rather than returning EOF early.
type mp3ChunkFeeder struct {
	avi      *AVIFile
	chunkIdx int
	pending  []byte
}

func (f *mp3ChunkFeeder) Read(p []byte) (int, error) {
	for len(f.pending) == 0 {
		if f.chunkIdx >= len(f.avi.Index.AudioOffsets) {
			return 0, io.EOF
		}
		chunk, err := f.avi.ReadAudioChunk(f.chunkIdx)
		f.chunkIdx++
		if err != nil {
			continue // unreadable chunk: skip it, the stream carries on
		}
		f.pending = chunk
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *mp3ChunkFeeder) exhausted() bool {
	return len(f.pending) == 0 && f.chunkIdx >= len(f.avi.Index.AudioOffsets)
}

// MP3Decoder decodes the AVI's audio index as a single MP3 elementary
// stream, one Decode call's worth of frames at a time.
type MP3Decoder struct {
	avi               *AVIFile
	feeder            *mp3ChunkFeeder
	dec               *mp3.Decoder
	consecutiveErrors int
	aborted           bool
}

// NewMP3Decoder builds an MP3 decoder over avi's audio index.
func NewMP3Decoder(avi *AVIFile) *MP3Decoder {
	return &MP3Decoder{avi: avi, feeder: &mp3ChunkFeeder{avi: avi}}
}

// Reset rewinds the cursor, clears the error budget and drops the
// in-flight go-mp3 decoder, so the next Decode call starts a fresh
// elementary stream from the beginning of the audio index.
func (d *MP3Decoder) Reset() {
	d.feeder = &mp3ChunkFeeder{avi: d.avi}
	d.dec = nil
	d.consecutiveErrors = 0
	d.aborted = false
}

// Done reports whether the audio index is exhausted or the decoder has
// given up after exhausting its error budget.
func (d *MP3Decoder) Done() bool {
	return d.aborted || d.feeder.exhausted()
}

// Decode drains up to maxFrames stereo int16 frames from the ongoing
// MP3 stream into ring. Returns the number of frames written.
func (d *MP3Decoder) Decode(ring *AudioRing, maxFrames int) (int, error) {
	if d.Done() {
		return 0, nil
	}

	if d.dec == nil {
		dec, err := mp3.NewDecoder(d.feeder)
		if err != nil {
			return d.onChunkError(ring, maxFrames)
		}
		d.dec = dec
	}

	written := 0
	buf := make([]byte, 4096)
	for written < maxFrames {
		n, readErr := d.dec.Read(buf)
		if n > 0 {
			frameBytes := n - n%4
			remainingFrames := maxFrames - written
			if frameBytes > remainingFrames*4 {
				frameBytes = remainingFrames * 4
			}
			ring.Write(buf[:frameBytes])
			written += frameBytes / 4
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			d.dec = nil // the stream desynced; retry with a fresh decoder next call
			if written == 0 {
				return d.onChunkError(ring, maxFrames)
			}
			break
		}
		if n == 0 {
			break
		}
	}
	d.consecutiveErrors = 0
	return written, nil
}

// onChunkError records a failed decode attempt, emits MP3MuteSamples of
// silence (capped by maxFrames) so AV sync doesn't stall, and aborts the
// stream once MaxMP3ConsecutiveErrors is reached.
func (d *MP3Decoder) onChunkError(ring *AudioRing, maxFrames int) (int, error) {
	d.consecutiveErrors++
	if d.consecutiveErrors >= MaxMP3ConsecutiveErrors {
		d.aborted = true
		return 0, newErr("mp3", KindDecodeError, "too many consecutive MP3 decode errors", nil)
	}
	silenceFrames := MP3MuteSamples
	if silenceFrames > maxFrames {
		silenceFrames = maxFrames
	}
	buf := make([]byte, silenceFrames*4)
	ring.Write(buf)
	return silenceFrames, nil
}
