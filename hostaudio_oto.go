//go:build !headless

// hostaudio_oto.go - oto v3-backed HostAudio (spec §6).
//
// Grounded directly on the teacher's OtoPlayer (audio_backend_oto.go):
// an atomic.Pointer handoff from the producer (mixer Tick, called from
// the game loop) to the oto callback goroutine, which is the consumer
// side of AudioRing.Read. Unlike the teacher's per-sample SoundChip
// pull, this ring already holds interleaved 16-bit stereo PCM, so the
// callback just drains bytes.

package main

import (
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

type otoHostAudio struct {
	ctx    *oto.Context
	player *oto.Player
	ring   atomic.Pointer[AudioRing]
}

// NewOtoHostAudio constructs the real audio output backend.
func NewOtoHostAudio() HostAudio {
	return &otoHostAudio{}
}

func (h *otoHostAudio) Start(ring *AudioRing, sampleRate int) error {
	h.ring.Store(ring)
	if h.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   0,
		})
		if err != nil {
			return newErr("hostaudio", KindIoShort, "oto context init", err)
		}
		<-ready
		h.ctx = ctx
		h.player = ctx.NewPlayer(h)
	}
	h.player.Play()
	return nil
}

func (h *otoHostAudio) Stop() error {
	if h.player != nil {
		h.player.Pause()
	}
	return nil
}

// Read satisfies io.Reader for oto.Player, draining the active ring
// directly into the host's output buffer (already the right wire
// format: interleaved 16-bit stereo LE).
func (h *otoHostAudio) Read(p []byte) (int, error) {
	ring := h.ring.Load()
	if ring == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	ring.Read(p)
	return len(p), nil
}
