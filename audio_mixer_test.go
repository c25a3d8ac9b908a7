package main

import "testing"

// fakeDecoder hands out silence up to maxFrames each call and never ends,
// letting mixer tests exercise pacing logic without a real codec.
type fakeDecoder struct {
	resetCalls int
	done       bool
}

func (f *fakeDecoder) Decode(ring *AudioRing, maxFrames int) (int, error) {
	if f.done {
		return 0, nil
	}
	buf := make([]byte, maxFrames*4)
	return ring.Write(buf) / 4, nil
}
func (f *fakeDecoder) Reset()     { f.resetCalls++ }
func (f *fakeDecoder) Done() bool { return f.done }

func TestAudioMixer_TargetFramesIncludesSyncOffset(t *testing.T) {
	m := NewAudioMixer(&fakeDecoder{}, NewAudioRing(4096), 22050, 30)
	got := m.TargetFrames(0)
	want := int64(22050 / 10)
	if got != want {
		t.Fatalf("TargetFrames(0) = %d, want %d (sync offset only)", got, want)
	}

	got30 := m.TargetFrames(30)
	wantDelta := int64(22050) // one second of audio for 30 frames at 30fps
	if got30-want != wantDelta {
		t.Fatalf("TargetFrames(30)-TargetFrames(0) = %d, want %d", got30-want, wantDelta)
	}
}

func TestAudioMixer_TickCapsAtMaxAudioBuffer(t *testing.T) {
	ring := NewAudioRing(uint32(MaxAudioBuffer*4 + 64))
	m := NewAudioMixer(&fakeDecoder{}, ring, 22050, 30)

	// Ask for a huge jump so the deficit vastly exceeds MaxAudioBuffer.
	if err := m.Tick(100000); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if m.framesEmitted > int64(MaxAudioBuffer) {
		t.Fatalf("expected a single Tick to emit at most MaxAudioBuffer frames, emitted %d", m.framesEmitted)
	}
}

func TestAudioMixer_SeekDrainsAndResetsDecoder(t *testing.T) {
	dec := &fakeDecoder{}
	ring := NewAudioRing(4096)
	m := NewAudioMixer(dec, ring, 22050, 30)

	m.Tick(30)
	if ring.Count() == 0 {
		t.Fatal("expected ring to have queued audio before seeking")
	}

	m.Seek(0, 3)
	if ring.Count() != 0 {
		t.Fatalf("expected ring drained after seek, count=%d", ring.Count())
	}
	if dec.resetCalls != 1 {
		t.Fatalf("expected decoder Reset called once, got %d", dec.resetCalls)
	}
	if m.muteTicksLeft != 3 {
		t.Fatalf("expected mute window of 3 ticks, got %d", m.muteTicksLeft)
	}
}

func TestAudioMixer_MuteWindowDiscardsOutput(t *testing.T) {
	dec := &fakeDecoder{}
	ring := NewAudioRing(4096)
	m := NewAudioMixer(dec, ring, 22050, 30)
	m.Seek(0, 2)

	if err := m.Tick(1); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if ring.Count() != 0 {
		t.Fatalf("expected muted tick to leave ring empty, count=%d", ring.Count())
	}
	if m.muteTicksLeft != 1 {
		t.Fatalf("expected mute window decremented to 1, got %d", m.muteTicksLeft)
	}
}

func TestAudioMixer_DoneReflectsDecoder(t *testing.T) {
	dec := &fakeDecoder{done: true}
	m := NewAudioMixer(dec, NewAudioRing(64), 22050, 30)
	if !m.Done() {
		t.Fatal("expected Done() to reflect underlying decoder")
	}
}
