// framebuffer.go - The single shared 320x240 RGB565 framebuffer (spec §3).
//
// No double-buffering, no dirty regions: every renderer rewrites the
// whole frame. The scheduler owns it for the process lifetime and lends
// it to exactly one subsystem per tick (spec §4.1, §5).

package main

// Framebuffer is the shared render target every subsystem draws into.
type Framebuffer struct {
	Pixels [ScreenWidth * ScreenHeight]uint16
}

// NewFramebuffer allocates a zeroed (black) framebuffer.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{}
}

// Clear fills the framebuffer with a single RGB565 color.
func (f *Framebuffer) Clear(color uint16) {
	for i := range f.Pixels {
		f.Pixels[i] = color
	}
}

// Set writes one pixel, ignoring out-of-bounds coordinates.
func (f *Framebuffer) Set(x, y int, color uint16) {
	if x < 0 || y < 0 || x >= ScreenWidth || y >= ScreenHeight {
		return
	}
	f.Pixels[y*ScreenWidth+x] = color
}

// At reads one pixel, returning 0 (black) out of bounds.
func (f *Framebuffer) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= ScreenWidth || y >= ScreenHeight {
		return 0
	}
	return f.Pixels[y*ScreenWidth+x]
}

// Bytes returns the framebuffer as little-endian byte pairs, suitable for
// handing to a host video-refresh callback (spec §6).
func (f *Framebuffer) Bytes(dst []byte) []byte {
	need := len(f.Pixels) * 2
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for i, p := range f.Pixels {
		dst[i*2] = byte(p)
		dst[i*2+1] = byte(p >> 8)
	}
	return dst
}
