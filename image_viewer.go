// image_viewer.go - Chunked image loading and zoom/pan viewer (C9, spec §4.8).
//
// State machine Idle -> Reading -> Decoding -> Done (or Error). Reading
// slices the file load into ImageReadChunkBytes-sized pulls per tick so
// a large file never blocks a frame; Decoding runs the one unavoidable
// slow call but first bursts the music ring full so the decode's CPU
// monopoly doesn't starve audio (spec §4.8). Grounded on the cooperative
// per-tick slicing shape used throughout the teacher's own tick-driven
// components (e.g. AHXPlayer's per-tick replay step) generalized to
// file I/O instead of audio synthesis.

package main

import "os"

// ImageViewerState is the C9 load state machine (spec §4.8).
type ImageViewerState int

const (
	ImgIdle ImageViewerState = iota
	ImgReading
	ImgDecoding
	ImgDone
	ImgError
)

// ImageViewer drives one image's chunked load and the zoom/pan viewport
// once decoded.
type ImageViewer struct {
	state ImageViewerState

	f         *os.File
	totalSize int64
	readSoFar int64
	buf       []byte

	decoded *DecodedImage
	lastErr error

	// Fixed-point 8.8 zoom (256 == 100%) and viewport origin.
	Zoom   int32
	PanX   int32
	PanY   int32
	FitMax int32 // zoom computed by the last fit; SetZoom does not clamp to it

	SlideshowInterval int // stored only; nothing reads it and images never auto-advance
	slideshowTicks    int
}

// ReadingProgressPercent reports Reading-state progress for the UI
// (spec §8 scenario: "frames 1-10 are Reading ~30%...75%...100%").
func (v *ImageViewer) ReadingProgressPercent() int {
	if v.totalSize <= 0 {
		return 0
	}
	return int(v.readSoFar * 100 / v.totalSize)
}

// State returns the current load state.
func (v *ImageViewer) State() ImageViewerState { return v.state }

// Err returns the terminal error, if the viewer reached ImgError.
func (v *ImageViewer) Err() error { return v.lastErr }

// Open starts loading path, transitioning to Reading on success.
func (v *ImageViewer) Open(path string, maxFileSize int64) error {
	v.reset()
	f, err := os.Open(path)
	if err != nil {
		v.state = ImgError
		v.lastErr = newErr("imageviewer", KindNotFound, path, err)
		return v.lastErr
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		v.state = ImgError
		v.lastErr = newErr("imageviewer", KindIoShort, "stat failed", err)
		return v.lastErr
	}
	if fi.Size() > maxFileSize {
		f.Close()
		v.state = ImgError
		v.lastErr = newErr("imageviewer", KindTooLarge, "file exceeds maximum size", nil)
		return v.lastErr
	}

	v.f = f
	v.totalSize = fi.Size()
	v.buf = make([]byte, 0, fi.Size())
	v.state = ImgReading
	return nil
}

func (v *ImageViewer) reset() {
	if v.f != nil {
		v.f.Close()
	}
	v.f = nil
	v.totalSize = 0
	v.readSoFar = 0
	v.buf = nil
	v.decoded = nil
	v.lastErr = nil
	v.state = ImgIdle
}

// Tick advances the state machine by one cooperative step (spec §4.8).
// pumpMusic lets the Decoding transition burst-fill the music
// ring before the one slow decode call; pass nil/no-op when no
// background music is active.
func (v *ImageViewer) Tick(pumpMusic func()) error {
	switch v.state {
	case ImgReading:
		return v.tickReading()
	case ImgDecoding:
		if pumpMusic != nil {
			for i := 0; i < 32; i++ {
				pumpMusic()
			}
		}
		return v.tickDecoding()
	default:
		return nil
	}
}

func (v *ImageViewer) tickReading() error {
	chunk := make([]byte, ImageReadChunkBytes)
	n, err := v.f.Read(chunk)
	if n > 0 {
		v.buf = append(v.buf, chunk[:n]...)
		v.readSoFar += int64(n)
	}
	if err != nil || v.readSoFar >= v.totalSize {
		v.f.Close()
		v.f = nil
		v.state = ImgDecoding
	}
	return nil
}

func (v *ImageViewer) tickDecoding() error {
	img, err := DecodeImageBytes(v.buf)
	v.buf = nil
	if err != nil {
		v.state = ImgError
		v.lastErr = err
		return err
	}
	v.decoded = img
	v.state = ImgDone
	v.computeFitZoom()
	return nil
}

// computeFitZoom sets Zoom so the longer axis matches the screen,
// never exceeding 100% (spec §4.8).
func (v *ImageViewer) computeFitZoom() {
	if v.decoded == nil || v.decoded.Width == 0 || v.decoded.Height == 0 {
		v.Zoom = ZoomFixedPointOne
		v.FitMax = ZoomFixedPointOne
		return
	}
	fitW := int32(ScreenWidth) * ZoomFixedPointOne / int32(v.decoded.Width)
	fitH := int32(ScreenHeight) * ZoomFixedPointOne / int32(v.decoded.Height)
	fit := fitW
	if fitH < fit {
		fit = fitH
	}
	if fit > ZoomFixedPointOne {
		fit = ZoomFixedPointOne
	}
	v.FitMax = fit
	v.Zoom = fit
	v.PanX = 0
	v.PanY = 0
}

// Pan moves the viewport by dx/dy screen pixels, scaled by
// PanSpeedSlowFactor when slow is true (A button held, spec §4.8), then
// clamps to the decoded image's valid range at the current zoom.
func (v *ImageViewer) Pan(dxSign, dySign int32, slow bool) {
	if v.decoded == nil {
		return
	}
	speed := float64(PanSpeedPixelsPerTick)
	if slow {
		speed *= PanSpeedSlowFactor
	}
	step := int32(speed)
	if step < 1 {
		step = 1
	}
	v.PanX += dxSign * step
	v.PanY += dySign * step
	v.clampPan()
}

func (v *ImageViewer) clampPan() {
	scaledW := int32(v.decoded.Width) * v.Zoom / ZoomFixedPointOne
	scaledH := int32(v.decoded.Height) * v.Zoom / ZoomFixedPointOne
	maxPanX := scaledW - ScreenWidth
	maxPanY := scaledH - ScreenHeight
	if maxPanX < 0 {
		maxPanX = 0
	}
	if maxPanY < 0 {
		maxPanY = 0
	}
	if v.PanX < 0 {
		v.PanX = 0
	}
	if v.PanX > maxPanX {
		v.PanX = maxPanX
	}
	if v.PanY < 0 {
		v.PanY = 0
	}
	if v.PanY > maxPanY {
		v.PanY = maxPanY
	}
}

// SetZoom applies a new fixed-point zoom value, clamped to [1, 256]:
// zoom never exceeds 100%. FitMax is not a bound, so zooming below or
// above the fit value is allowed within that range.
func (v *ImageViewer) SetZoom(z int32) {
	if z > ZoomFixedPointOne {
		z = ZoomFixedPointOne
	}
	if z < 1 {
		z = 1
	}
	v.Zoom = z
	v.clampPan()
}

// Render bilinearly resamples the decoded image into fb at the current
// zoom/pan (spec §4.8, §4.9: shares the render scheduler's framebuffer).
func (v *ImageViewer) Render(fb *Framebuffer) {
	if v.decoded == nil {
		return
	}
	src := v.decoded
	invZoom := float64(ZoomFixedPointOne) / float64(v.Zoom)

	for dy := 0; dy < ScreenHeight; dy++ {
		srcY := (float64(dy) + float64(v.PanY)) * invZoom
		if srcY < 0 || srcY >= float64(src.Height) {
			continue
		}
		for dx := 0; dx < ScreenWidth; dx++ {
			srcX := (float64(dx) + float64(v.PanX)) * invZoom
			if srcX < 0 || srcX >= float64(src.Width) {
				continue
			}
			fb.Set(dx, dy, bilinearSampleRGB565(src, srcX, srcY))
		}
	}
}

func bilinearSampleRGB565(src *DecodedImage, fx, fy float64) uint16 {
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= src.Width {
		x1 = src.Width - 1
	}
	if y1 >= src.Height {
		y1 = src.Height - 1
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	r00, g00, b00 := UnpackRGB565(src.Pixels[y0*src.Width+x0])
	r10, g10, b10 := UnpackRGB565(src.Pixels[y0*src.Width+x1])
	r01, g01, b01 := UnpackRGB565(src.Pixels[y1*src.Width+x0])
	r11, g11, b11 := UnpackRGB565(src.Pixels[y1*src.Width+x1])

	r := lerp2D(r00, r10, r01, r11, tx, ty)
	g := lerp2D(g00, g10, g01, g11, tx, ty)
	b := lerp2D(b00, b10, b01, b11, tx, ty)
	return PackRGB565(r, g, b)
}

func lerp2D(v00, v10, v01, v11 uint8, tx, ty float64) uint8 {
	top := float64(v00) + (float64(v10)-float64(v00))*tx
	bottom := float64(v01) + (float64(v11)-float64(v01))*tx
	return uint8(top + (bottom-top)*ty)
}
