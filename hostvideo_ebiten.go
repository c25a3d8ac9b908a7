//go:build !headless

// hostvideo_ebiten.go - ebiten-backed HostVideo (spec §6).
//
// Generalizes the teacher's ebiten GUI frontend (video_backend_ebiten.go)
// down to the one operation this console actually needs: blit a single
// 320x240 RGB565 framebuffer every tick. ebiten's own Image wants RGBA,
// so PresentFrame unpacks RGB565 once per pixel into a reusable RGBA
// scratch buffer rather than reallocating per frame.

package main

import (
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

type ebitenHostVideo struct {
	img         *ebiten.Image
	rgbaScratch []byte
	frameCount  atomic.Uint64
	started     bool
}

// NewEbitenHostVideo constructs the real display backend.
func NewEbitenHostVideo() HostVideo {
	return &ebitenHostVideo{
		img:         ebiten.NewImage(ScreenWidth, ScreenHeight),
		rgbaScratch: make([]byte, ScreenWidth*ScreenHeight*4),
	}
}

func (v *ebitenHostVideo) Start() error {
	v.started = true
	return nil
}

func (v *ebitenHostVideo) Stop() error {
	v.started = false
	return nil
}

func (v *ebitenHostVideo) PresentFrame(fb *Framebuffer) error {
	for i, px := range fb.Pixels {
		r, g, b := UnpackRGB565(px)
		o := i * 4
		v.rgbaScratch[o] = r
		v.rgbaScratch[o+1] = g
		v.rgbaScratch[o+2] = b
		v.rgbaScratch[o+3] = 0xFF
	}
	v.img.WritePixels(v.rgbaScratch)
	v.frameCount.Add(1)
	return nil
}

func (v *ebitenHostVideo) FrameCount() uint64 {
	return v.frameCount.Load()
}

// Image exposes the backing ebiten.Image for an *ebiten.Game's Draw call.
func (v *ebitenHostVideo) Image() *ebiten.Image {
	return v.img
}
