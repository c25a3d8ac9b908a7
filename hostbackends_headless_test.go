//go:build headless

package main

import "testing"

func TestHeadlessHostVideo_PresentFrameSnapshotsPixels(t *testing.T) {
	v := NewEbitenHostVideo().(*headlessHostVideo)
	fb := NewFramebuffer()
	fb.Set(5, 5, 0xFFFF)
	if err := v.PresentFrame(fb); err != nil {
		t.Fatalf("PresentFrame: %v", err)
	}
	if v.FrameCount() != 1 {
		t.Fatalf("FrameCount = %d, want 1", v.FrameCount())
	}
	fb.Set(5, 5, 0x0000)
	if v.LastFrame().At(5, 5) != 0xFFFF {
		t.Fatal("expected PresentFrame to snapshot, not alias, the framebuffer")
	}
}

func TestHeadlessHostAudio_PumpDrainsRing(t *testing.T) {
	a := NewOtoHostAudio().(*headlessHostAudio)
	ring := NewAudioRing(64)
	ring.Write([]byte{1, 2, 3, 4})
	a.Start(ring, 22050)

	out := a.Pump(4)
	if out[0] != 1 || out[3] != 4 {
		t.Fatalf("expected drained bytes, got %v", out)
	}
	if ring.Count() != 0 {
		t.Fatalf("expected ring drained, count=%d", ring.Count())
	}
}

func TestHeadlessHostInput_QueueReplaysScriptedStates(t *testing.T) {
	in := NewEbitenHostInput().(*headlessHostInput)
	in.Queue(ButtonState{A: true}, ButtonState{B: true})

	first := in.Poll()
	if !first.A {
		t.Fatal("expected first polled state to have A pressed")
	}
	second := in.Poll()
	if !second.B {
		t.Fatal("expected second polled state to have B pressed")
	}
	third := in.Poll()
	if third != second {
		t.Fatal("expected Poll to repeat the last state once the queue is drained")
	}
}
