package main

import "testing"

func buildMP3TestAVI(t *testing.T, audioChunks [][]byte) string {
	t.Helper()
	return buildTestAVI(t, [][]byte{{0, 0, 0, 0}}, audioChunks, "")
}

func TestMP3Decoder_GarbageChunkEmitsSilenceNotAbort(t *testing.T) {
	path := buildMP3TestAVI(t, [][]byte{{0xFF, 0xFF, 0xFF, 0xFF}})
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	d := NewMP3Decoder(avi)
	ring := NewAudioRing(1 << 16)

	n, err := d.Decode(ring, 10000)
	if err != nil {
		t.Fatalf("expected no error on a single bad chunk, got %v", err)
	}
	if n == 0 {
		t.Fatal("expected silence frames emitted for an undecodable chunk")
	}
	if !d.Done() {
		t.Fatal("expected decoder done after consuming its only chunk")
	}
}

func TestMP3Decoder_AbortsAfterConsecutiveErrorBudget(t *testing.T) {
	bad := make([][]byte, MaxMP3ConsecutiveErrors+5)
	for i := range bad {
		bad[i] = []byte{0xFF, 0xFF, 0xFF, 0xFF}
	}
	path := buildMP3TestAVI(t, bad)
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	d := NewMP3Decoder(avi)
	ring := NewAudioRing(1 << 20)

	var lastErr error
	for i := 0; i < len(bad) && lastErr == nil; i++ {
		_, lastErr = d.Decode(ring, 10000)
	}
	if lastErr == nil {
		t.Fatal("expected decoder to abort once the consecutive-error budget is exhausted")
	}
	if !IsKind(lastErr, KindDecodeError) {
		t.Fatalf("expected KindDecodeError, got %v", lastErr)
	}
	if !d.Done() {
		t.Fatal("expected decoder marked done after aborting")
	}
}

func TestMP3Decoder_ResetClearsErrorBudgetAndCursor(t *testing.T) {
	path := buildMP3TestAVI(t, [][]byte{{0xFF, 0xFF, 0xFF, 0xFF}})
	avi, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer avi.Close()

	d := NewMP3Decoder(avi)
	ring := NewAudioRing(1 << 16)
	d.Decode(ring, 10000)
	if !d.Done() {
		t.Fatal("expected done before reset")
	}
	d.Reset()
	if d.Done() {
		t.Fatal("expected not done after reset")
	}
	if d.consecutiveErrors != 0 {
		t.Fatalf("expected error budget cleared, got %d", d.consecutiveErrors)
	}
}
