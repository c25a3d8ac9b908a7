package main

import "testing"

func TestNewAVInfo_ComputesDurationFromFPS(t *testing.T) {
	a := &AVIFile{
		Width: 320, Height: 240, FPS: 30, HasAudio: true, AudioFormat: AudioFormatMP3,
		Index: AVIIndex{FrameOffsets: make([]uint32, 90), FrameSizes: make([]uint32, 90)},
	}
	info := NewAVInfo(a)
	if info.TotalFrames != 90 {
		t.Fatalf("TotalFrames = %d, want 90", info.TotalFrames)
	}
	if info.DurationSec != 3.0 {
		t.Fatalf("DurationSec = %v, want 3.0", info.DurationSec)
	}
	if !info.HasAudio || info.AudioFormat != AudioFormatMP3 {
		t.Fatalf("unexpected audio info: %+v", info)
	}
}

func TestNewAVInfo_ZeroFPSAvoidsDivideByZero(t *testing.T) {
	a := &AVIFile{Width: 320, Height: 240, FPS: 0}
	info := NewAVInfo(a)
	if info.DurationSec != 0 {
		t.Fatalf("expected zero duration when FPS is 0, got %v", info.DurationSec)
	}
}
