package main

import "testing"

func buildPCMTestAVI(t *testing.T, audioChunks [][]byte) string {
	t.Helper()
	return buildTestAVI(t, [][]byte{{0, 0, 0, 0}}, audioChunks, "")
}

func TestPCMDecoder_MonoDuplicatesToStereo(t *testing.T) {
	path := buildPCMTestAVI(t, [][]byte{{0x10, 0x00, 0x20, 0x00}})
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	avi.AudioChannels = 1
	avi.AudioBits = 16
	d := NewPCMDecoder(avi)
	ring := NewAudioRing(256)

	n, err := d.Decode(ring, 10)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 frames, got %d", n)
	}
	out := make([]byte, 8)
	ring.Read(out)
	// first sample 0x0010 duplicated L/R
	if out[0] != 0x10 || out[1] != 0x00 || out[2] != 0x10 || out[3] != 0x00 {
		t.Fatalf("expected duplicated mono sample, got %v", out[:4])
	}
}

func TestPCMDecoder_SeekBytesJumpsCursor(t *testing.T) {
	path := buildPCMTestAVI(t, [][]byte{
		{0x01, 0x00, 0x02, 0x00},
		{0x03, 0x00, 0x04, 0x00},
	})
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	avi.AudioChannels = 1
	avi.AudioBits = 16
	d := NewPCMDecoder(avi)
	d.SeekBytes(4)
	if d.chunkIdx != 1 || d.chunkPos != 0 {
		t.Fatalf("expected cursor at chunk 1 pos 0, got chunk=%d pos=%d", d.chunkIdx, d.chunkPos)
	}
}

func TestPCMDecoder_DoneAfterAllChunksConsumed(t *testing.T) {
	path := buildPCMTestAVI(t, [][]byte{{0x01, 0x00}})
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	avi.AudioChannels = 1
	avi.AudioBits = 16
	d := NewPCMDecoder(avi)
	ring := NewAudioRing(256)
	d.Decode(ring, 100)
	if !d.Done() {
		t.Fatalf("expected decoder to be done after consuming only chunk")
	}
}
