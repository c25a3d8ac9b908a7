package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSilentAVI(t *testing.T, dir, name string, frameCount, fps int) string {
	t.Helper()
	var video [][]byte
	for i := 0; i < frameCount; i++ {
		video = append(video, []byte{byte(i), byte(i >> 8), 0, 0})
	}
	path := buildTestAVI(t, video, nil, "movi")
	dst := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return dst
}

func TestVideoPlayer_OpenStartsPlaying(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 5, 30)
	p := NewVideoPlayer()
	if err := p.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	if p.State() != PlayerPlaying {
		t.Fatalf("expected PlayerPlaying after Open, got %v", p.State())
	}
}

func TestVideoPlayer_TogglePauseTwiceIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 5, 30)
	p := NewVideoPlayer()
	p.Open(path)
	defer p.Close()

	before := p.State()
	p.TogglePause()
	p.TogglePause()
	if p.State() != before {
		t.Fatalf("expected toggling pause twice to be a no-op, got %v want %v", p.State(), before)
	}
}

func TestVideoPlayer_SeekClampsToValidRange(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 100, 30)
	p := NewVideoPlayer()
	p.Open(path)
	defer p.Close()

	p.seekSeconds(10000)
	want := maxSeekFrame(p.avi)
	if p.FrameIndex() != want {
		t.Fatalf("seek forward clamp: got %d, want %d", p.FrameIndex(), want)
	}

	p.seekSeconds(-100000)
	if p.FrameIndex() != 0 {
		t.Fatalf("seek backward clamp: got %d, want 0", p.FrameIndex())
	}
}

func TestVideoPlayer_LockedSuppressesInputExceptCombo(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 5, 30)
	p := NewVideoPlayer()
	p.Open(path)
	defer p.Close()

	p.HandleInput(ButtonState{}, true) // lock via shoulder combo
	if !p.Locked() {
		t.Fatal("expected Locked after shoulder combo")
	}

	before := p.State()
	p.HandleInput(ButtonState{A: true}, false)
	if p.State() != before {
		t.Fatal("expected locked player to ignore non-combo input")
	}

	p.HandleInput(ButtonState{}, true) // unlock
	if p.Locked() {
		t.Fatal("expected unlocked after second shoulder combo")
	}
}

func TestVideoPlayer_CloseThenReopenResumesFrameInRepeatMode(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 100, 30)
	p := NewVideoPlayer()
	p.SetMode(PlayModeRepeat)
	p.Open(path)
	p.seekSeconds(30) // move away from frame 0
	resumeAt := p.FrameIndex()
	p.Close()

	p.Open(path)
	defer p.Close()
	if p.FrameIndex() != resumeAt {
		t.Fatalf("expected resume at frame %d, got %d", resumeAt, p.FrameIndex())
	}
}

func TestVideoPlayer_RepeatModeAtEndOfStreamRewinds(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 3, 30)
	p := NewVideoPlayer()
	p.SetMode(PlayModeRepeat)
	p.Open(path)
	defer p.Close()

	rewound := false
	prev := p.FrameIndex()
	for i := 0; i < 10; i++ {
		if err := p.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if p.FrameIndex() < prev {
			if p.FrameIndex() != 0 {
				t.Fatalf("expected rewind to frame 0, got %d", p.FrameIndex())
			}
			rewound = true
		}
		prev = p.FrameIndex()
	}
	if !rewound {
		t.Fatalf("expected repeat mode to rewind to frame 0 eventually, got %d", p.FrameIndex())
	}
}

func TestVideoPlayer_OnceModePausesAtEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeSilentAVI(t, dir, "a.avi", 2, 30)
	p := NewVideoPlayer()
	p.SetMode(PlayModeOnce)
	p.Open(path)
	defer p.Close()

	for i := 0; i < 5; i++ {
		p.Tick()
	}
	if p.State() != PlayerPaused {
		t.Fatalf("expected Play-Once to pause at end of stream, got %v", p.State())
	}
}

func TestBookmarkStore_SetFlushReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.txt")
	s, err := OpenBookmarkStore(path)
	if err != nil {
		t.Fatalf("OpenBookmarkStore: %v", err)
	}
	s.Set("/mnt/sda1/ROMS/video/a.avi", 42)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := OpenBookmarkStore(path)
	if err != nil {
		t.Fatalf("OpenBookmarkStore reload: %v", err)
	}
	got, ok := reloaded.Get("/mnt/sda1/ROMS/video/a.avi")
	if !ok || got != 42 {
		t.Fatalf("expected reloaded bookmark 42, got %d ok=%v", got, ok)
	}
}

func TestBookmarkStore_MissingFileStartsEmpty(t *testing.T) {
	s, err := OpenBookmarkStore(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Fatal("expected empty store for missing file")
	}
}
