// audio_mixer.go - Per-tick audio drain and AV-sync target (C3, spec §4.5).
//
// Each video tick asks the mixer to top the ring up to a target sample
// count computed from the current video frame position, not wall-clock
// time directly: target = current_frame * sample_rate / clip_fps +
// sync_offset, where sync_offset nudges audio ahead by a tenth of a
// second to mask decode latency. A seek drains the ring, mutes for a
// short window, and reinitializes the decoder cursor at the new
// position, matching the teacher's post-seek flush in media_loader.go's
// async generation-counter pattern (bumping a counter invalidates any
// in-flight work instead of trying to cancel it mid-flight).

package main

// audioChunkDecoder is satisfied by PCMDecoder, ADPCMDecoder and
// MP3Decoder: decode the next bounded unit of work into ring, report
// completion, and support a hard reset for seeks.
type audioChunkDecoder interface {
	Decode(ring *AudioRing, maxFrames int) (int, error)
	Reset()
	Done() bool
}

// AudioMixer drains a decoder into a ring buffer, pacing output to the
// current video position rather than to wall-clock time.
type AudioMixer struct {
	ring       *AudioRing
	decoder    audioChunkDecoder
	sampleRate int
	clipFPS    int

	framesEmitted int64 // total stereo frames ever pushed into ring
	muteTicksLeft int
}

const audioSyncOffsetFraction = 10 // sync_offset = sample_rate / 10

// NewAudioMixer builds a mixer over decoder, draining into a ring sized
// per spec §3 (AudioRingSizeVideo for video playback, AudioRingSizeMusic
// for the music player — sizing is the caller's responsibility).
func NewAudioMixer(decoder audioChunkDecoder, ring *AudioRing, sampleRate, clipFPS int) *AudioMixer {
	if clipFPS <= 0 {
		clipFPS = TargetFPS
	}
	return &AudioMixer{ring: ring, decoder: decoder, sampleRate: sampleRate, clipFPS: clipFPS}
}

// TargetFrames computes the AV-sync target sample count for the given
// current video frame index (spec §4.5).
func (m *AudioMixer) TargetFrames(currentVideoFrame int) int64 {
	syncOffset := int64(m.sampleRate / audioSyncOffsetFraction)
	return int64(currentVideoFrame)*int64(m.sampleRate)/int64(m.clipFPS) + syncOffset
}

// Tick tops the ring up toward the AV-sync target for currentVideoFrame,
// bounded by MaxAudioBuffer frames per call, and honors any active
// post-seek mute window by decoding (to keep the cursor moving) but
// discarding the output.
func (m *AudioMixer) Tick(currentVideoFrame int) error {
	target := m.TargetFrames(currentVideoFrame)
	deficit := target - m.framesEmitted
	if deficit <= 0 {
		return nil
	}
	want := int(deficit)
	if want > MaxAudioBuffer {
		want = MaxAudioBuffer
	}

	if m.muteTicksLeft > 0 {
		m.muteTicksLeft--
		scratch := NewAudioRing(uint32(want*4 + 4))
		n, err := m.decoder.Decode(scratch, want)
		m.framesEmitted += int64(n)
		return err
	}

	n, err := m.decoder.Decode(m.ring, want)
	m.framesEmitted += int64(n)
	return err
}

// Seek flushes queued audio, resets the decoder to the stream's start
// (callers reposition the decoder's own chunk cursor after calling this
// when seeking to a specific AVI offset), and opens a short mute window
// so stale, now-irrelevant audio never reaches the host callback.
func (m *AudioMixer) Seek(newVideoFrame int, muteTicks int) {
	m.ring.Drain()
	m.decoder.Reset()
	m.framesEmitted = m.TargetFrames(newVideoFrame)
	m.muteTicksLeft = muteTicks
}

// Done reports whether the underlying decoder has exhausted the stream.
func (m *AudioMixer) Done() bool {
	return m.decoder.Done()
}
