// image_codecs.go - Image format decode (C1/C9, spec §4.8).
//
// PNG/JPEG/GIF decode via the standard library's image package (the
// teacher has no image-viewer code to ground this on, so this follows
// the rest of the pack's convention of reaching for golang.org/x/image
// for the formats stdlib doesn't cover: BMP and WebP). Every decoded
// image is normalized to a flat RGB565 pixel buffer immediately, so the
// viewer's zoom/pan/resample code (image_viewer.go) never branches on
// source format again.

package main

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// DecodedImage is a decoded image normalized to RGB565, source
// dimensions attached for fit-zoom computation (spec §4.8).
type DecodedImage struct {
	Width, Height int
	Pixels        []uint16 // row-major RGB565, len == Width*Height
}

// DecodeImageBytes sniffs the format and decodes data into a DecodedImage,
// rejecting anything over MaxImageDimension per axis or MaxImagePixels
// total (spec §3 boundary: "decoder refuses before allocating").
func DecodeImageBytes(data []byte) (*DecodedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
			return nil, newErr("image", KindTooLarge, "dimension exceeds maximum", nil)
		}
		if cfg.Width*cfg.Height > MaxImagePixels {
			return nil, newErr("image", KindTooLarge, "pixel count exceeds maximum", nil)
		}
	}
	_ = format

	img, _, err := decodeAny(data)
	if err != nil {
		return nil, newErr("image", KindDecodeError, "decode failed", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w*h > MaxImagePixels {
		return nil, newErr("image", KindTooLarge, "pixel count exceeds maximum", nil)
	}

	out := &DecodedImage{Width: w, Height: h, Pixels: make([]uint16, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pixels[y*w+x] = PackRGB565(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return out, nil
}

func decodeAny(data []byte) (image.Image, string, error) {
	r := bytes.NewReader(data)
	if img, err := png.Decode(r); err == nil {
		return img, "png", nil
	}
	r.Seek(0, 0)
	if img, err := jpeg.Decode(r); err == nil {
		return img, "jpeg", nil
	}
	r.Seek(0, 0)
	if img, err := gif.Decode(r); err == nil {
		return img, "gif", nil
	}
	r.Seek(0, 0)
	if img, err := bmp.Decode(r); err == nil {
		return img, "bmp", nil
	}
	r.Seek(0, 0)
	if img, err := webp.Decode(r); err == nil {
		return img, "webp", nil
	}
	return nil, "", errUnrecognizedFormat
}

var errUnrecognizedFormat = newErr("image", KindFormatUnsupported, "no codec recognized the file", nil)
