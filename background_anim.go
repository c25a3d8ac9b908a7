// background_anim.go - Looping menu background (C7, spec §4.7).
//
// Drives the same C4+C5+C6 pipeline as the video player, but at menu
// rate with no transport controls: one source frame per tick (honoring
// repeat_count, §4.3), always looping, composited with an optional
// alpha-keyed PNG overlay whose blend class is classified once at load
// time into an immutable blend_mode[] array so the per-pixel path in
// the inner loop is three branches, not a compare. Grounded on
// video_player.go's decode/repeat-counter shape, generalized from a
// transport-controlled single-play clip to an always-looping one.

package main

import (
	"image"
	"os"
)

// blendMode is the cached per-pixel classification of the overlay
// alpha channel (spec §4.7).
type blendMode uint8

const (
	blendTransparent blendMode = iota // alpha < 5: copy background
	blendOpaque                       // alpha > 250: copy overlay
	blendMix                          // else: per-pixel alpha blend + dither
)

const (
	alphaTransparentMax = 5
	alphaOpaqueMin      = 250
)

// overlayLayer holds one classified alpha overlay (main or per-section).
type overlayLayer struct {
	width, height int
	rgb           []uint16 // straight (not premultiplied) RGB565-packed color, per pixel
	alpha         []uint8
	modes         []blendMode
}

// newOverlayLayer classifies img's alpha channel once, per spec §4.7's
// three-way split. Color is cached straight; blendDithered applies the
// alpha multiply per pixel.
func newOverlayLayer(img *DecodedImage, alphaSrc image.Image) *overlayLayer {
	w, h := img.Width, img.Height
	l := &overlayLayer{
		width:  w,
		height: h,
		rgb:    make([]uint16, w*h),
		alpha:  make([]uint8, w*h),
		modes:  make([]blendMode, w*h),
	}
	bounds := alphaSrc.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			l.rgb[i] = img.Pixels[i]
			a := uint8(255)
			if y < bounds.Dy() && x < bounds.Dx() {
				_, _, _, av := alphaSrc.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				a = uint8(av >> 8)
			}
			l.alpha[i] = a
			switch {
			case a < alphaTransparentMax:
				l.modes[i] = blendTransparent
			case a > alphaOpaqueMin:
				l.modes[i] = blendOpaque
			default:
				l.modes[i] = blendMix
			}
		}
	}
	return l
}

// BackgroundAnim drives the looping AVI clip plus optional overlays.
type BackgroundAnim struct {
	avi  *AVIFile
	xvid *XvidDecoder

	repeatCounter int
	frameIdx      int
	lastFrame     *Framebuffer

	mainOverlay    *overlayLayer
	sectionOverlay *overlayLayer
	navDepth       int
}

// OpenBackgroundAnim opens the looping clip at aviPath; overlayPath and
// sectionPath may be empty to skip either layer (spec §4.7: "an
// optional background_anim.png overlay").
func OpenBackgroundAnim(aviPath, overlayPath, sectionPath string) (*BackgroundAnim, error) {
	avi, err := OpenAVI(aviPath)
	if err != nil {
		return nil, err
	}
	b := &BackgroundAnim{
		avi:  avi,
		xvid: NewXvidDecoder(avi.Width, avi.Height),
	}
	if overlayPath != "" {
		ov, err := loadOverlay(overlayPath)
		if err != nil {
			avi.Close()
			return nil, err
		}
		b.mainOverlay = ov
	}
	if sectionPath != "" {
		ov, err := loadOverlay(sectionPath)
		if err != nil {
			avi.Close()
			return nil, err
		}
		b.sectionOverlay = ov
	}
	return b, nil
}

func loadOverlay(path string) (*overlayLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr("background", KindIoShort, path, err)
	}
	decoded, err := DecodeImageBytes(data)
	if err != nil {
		return nil, err
	}
	raw, _, err := decodeAny(data)
	if err != nil {
		return nil, err
	}
	return newOverlayLayer(decoded, raw), nil
}

// SetNavDepth selects which overlay composites over the background:
// depth 0 (root menu) uses the main overlay, deeper (inside a platform
// folder) uses the section overlay, per spec §4.7.
func (b *BackgroundAnim) SetNavDepth(depth int) {
	b.navDepth = depth
}

func (b *BackgroundAnim) activeOverlay() *overlayLayer {
	if b.navDepth > 0 && b.sectionOverlay != nil {
		return b.sectionOverlay
	}
	return b.mainOverlay
}

// Close releases the underlying AVI.
func (b *BackgroundAnim) Close() {
	if b.avi != nil {
		b.avi.Close()
		b.avi = nil
	}
}

// Tick advances one menu-rate frame, decoding a new source frame only
// when the repeat counter wraps to zero and always looping at
// end-of-stream (spec §4.7, reusing §4.3's repeat_count rule).
func (b *BackgroundAnim) Tick() error {
	if b.repeatCounter == 0 {
		if err := b.decodeCurrentFrame(); err != nil {
			return err
		}
		b.frameIdx++
		if b.frameIdx >= b.avi.TotalFrames() {
			b.frameIdx = 0
			b.xvid = NewXvidDecoder(b.avi.Width, b.avi.Height)
		}
	}
	b.repeatCounter = (b.repeatCounter + 1) % max1(b.avi.RepeatCount)
	return nil
}

func (b *BackgroundAnim) decodeCurrentFrame() error {
	chunk, err := b.avi.ReadFrameChunk(b.frameIdx, nil)
	if err != nil {
		return nil
	}
	if len(b.avi.VOL) > 0 {
		b.xvid.SendVOL(b.avi.VOL)
	}
	frame, err := b.xvid.DecodeFrame(chunk)
	if err != nil {
		return nil
	}
	fb := NewFramebuffer()
	ConvertYUVToRGB565(frame, fb, ModeUnchanged, true)
	b.lastFrame = fb
	return nil
}

// Render composites the current background frame with the active
// overlay (if any) into fb, per the cached three-branch blend_mode.
func (b *BackgroundAnim) Render(fb *Framebuffer) {
	if b.lastFrame == nil {
		fb.Clear(0)
	} else {
		copy(fb.Pixels[:], b.lastFrame.Pixels[:])
	}

	ov := b.activeOverlay()
	if ov == nil {
		return
	}
	offX := (ScreenWidth - ov.width) / 2
	offY := (ScreenHeight - ov.height) / 2
	for y := 0; y < ov.height; y++ {
		dstY := y + offY
		if dstY < 0 || dstY >= ScreenHeight {
			continue
		}
		for x := 0; x < ov.width; x++ {
			dstX := x + offX
			if dstX < 0 || dstX >= ScreenWidth {
				continue
			}
			i := y*ov.width + x
			switch ov.modes[i] {
			case blendTransparent:
				// background already in place
			case blendOpaque:
				fb.Set(dstX, dstY, ov.rgb[i])
			case blendMix:
				fb.Set(dstX, dstY, blendDithered(fb.At(dstX, dstY), ov.rgb[i], ov.alpha[i], dstX, dstY))
			}
		}
	}
}

// blendDithered alpha-blends overlay color "over" over background
// color "under" using straight (not premultiplied-on-disk) 8-bit alpha,
// adding a 4x4 Bayer dither term to the result to hide 16-bit banding
// (spec §4.7: "a 4x4 dither kernel on the output").
func blendDithered(under, over uint16, alpha uint8, x, y int) uint16 {
	ur, ug, ub := UnpackRGB565(under)
	or_, og, ob := UnpackRGB565(over)

	a := int32(alpha)
	r := (int32(or_)*a + int32(ur)*(255-a)) / 255
	g := (int32(og)*a + int32(ug)*(255-a)) / 255
	bch := (int32(ob)*a + int32(ub)*(255-a)) / 255

	d := bayer4x4[y&3][x&3] - 8
	r += d
	g += d
	bch += d

	return PackRGB565(clamp8(r), clamp8(g), clamp8(bch))
}
