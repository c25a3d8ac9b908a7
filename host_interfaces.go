// host_interfaces.go - Host abstraction layer (spec §6).
//
// The renderer, audio mixer, and input-driven state machines never talk
// to ebiten/oto directly; they go through these three interfaces, each
// satisfied by a real backend (ebiten/oto, build tag !headless) and a
// headless test backend (build tag headless), grounded on the teacher's
// VideoOutput/SoundChip-backend split in video_interface.go and
// audio_backend_oto.go.

package main

// HostVideo presents a single 320x240 RGB565 framebuffer to the host
// display, generalizing the teacher's VideoOutput.UpdateFrame single
// entry point (spec §6).
type HostVideo interface {
	Start() error
	Stop() error
	PresentFrame(fb *Framebuffer) error
	FrameCount() uint64
}

// HostAudio drains an AudioRing on the host's own audio callback thread
// (spec §3, §6), generalizing the teacher's OtoPlayer.Read pull model.
type HostAudio interface {
	Start(ring *AudioRing, sampleRate int) error
	Stop() error
}

// ButtonState is a snapshot of the handheld's physical input for one
// tick (spec §6): a d-pad plus the small fixed button set this class of
// device actually has.
type ButtonState struct {
	Up, Down, Left, Right bool
	A, B, X, Y            bool
	L, R                  bool
	Start, Select         bool
}

// HostInput polls the host for the current ButtonState once per tick.
type HostInput interface {
	Poll() ButtonState
}

// SystemInfo describes the host environment to components that need to
// adapt their behavior to it (spec §6) — e.g. available heap for the
// universal scratch buffer, or whether a headless test backend is active.
type SystemInfo struct {
	ScratchBufferBytes int
	Headless           bool
}

// AVInfo summarizes an opened AVI's media parameters for UI display
// (spec §6): duration, dimensions, and which decoders will be used.
type AVInfo struct {
	Width, Height int
	FPS           int
	DurationSec   float64
	HasAudio      bool
	AudioFormat   uint16
	TotalFrames   int
}

// NewAVInfo summarizes an opened AVIFile.
func NewAVInfo(a *AVIFile) AVInfo {
	info := AVInfo{
		Width: a.Width, Height: a.Height,
		FPS:         a.FPS,
		HasAudio:    a.HasAudio,
		AudioFormat: a.AudioFormat,
		TotalFrames: a.TotalFrames(),
	}
	if a.FPS > 0 {
		info.DurationSec = float64(info.TotalFrames) / float64(a.FPS)
	}
	return info
}
