// thumbnails.go - ROM thumbnail discovery and raw RGB565 loading (spec §6).
//
// Grounded on render.c's get_thumbnail_path/load_raw_rgb565/load_thumbnail
// chain: a `.res/<basename>.rgb565` raw pixel dump is tried first
// (dimensions recovered from file size against a fixed table, not
// stored in the file), falling back to sibling image files with the
// ROM's own basename.

package main

import (
	"os"
	"path/filepath"
	"strings"
)

// thumbDimensions is the fixed (width, height) table render.c's
// load_raw_rgb565 checks a ".rgb565" file's size against, in order.
var thumbDimensions = [][2]int{
	{64, 64}, {128, 128}, {160, 160}, {200, 200},
	{250, 200}, {200, 250}, {320, 240}, {320, 256}, {400, 300},
}

var thumbnailSiblingExts = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif"}

// ThumbnailPath returns the `.res/<basename>.rgb565` path for a ROM
// file, per render.c's get_thumbnail_path.
func ThumbnailPath(romPath string) string {
	dir := filepath.Dir(romPath)
	base := filepath.Base(romPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, ".res", base+".rgb565")
}

// LoadThumbnail resolves and decodes a ROM's thumbnail: a raw RGB565
// dump in `.res/` detected by file size, then `.res/<basename>.<ext>`
// for each known image format, then a sibling of the ROM itself with
// the same basename.
func LoadThumbnail(romPath string) (*DecodedImage, error) {
	rgbPath := ThumbnailPath(romPath)
	if img, err := loadRawRGB565(rgbPath); err == nil {
		return img, nil
	}

	resDir := filepath.Join(filepath.Dir(romPath), ".res")
	base := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	for _, ext := range thumbnailSiblingExts {
		if img, err := decodeImageFile(filepath.Join(resDir, base+ext)); err == nil {
			return img, nil
		}
	}

	romDir := filepath.Dir(romPath)
	for _, ext := range thumbnailSiblingExts {
		if img, err := decodeImageFile(filepath.Join(romDir, base+ext)); err == nil {
			return img, nil
		}
	}

	return nil, newErr("thumbnail", KindNotFound, romPath, nil)
}

func decodeImageFile(path string) (*DecodedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeImageBytes(data)
}

// loadRawRGB565 matches path's file size against the fixed dimension
// table and, on a match, reads it directly as little-endian RGB565
// pixels (no header, no format detection beyond size).
func loadRawRGB565(path string) (*DecodedImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	size := info.Size()

	for _, dim := range thumbDimensions {
		w, h := dim[0], dim[1]
		if int64(w*h*2) != size {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		pixels := make([]uint16, w*h)
		for i := range pixels {
			pixels[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
		}
		return &DecodedImage{Width: w, Height: h, Pixels: pixels}, nil
	}
	return nil, newErr("thumbnail", KindFormatUnsupported, path, nil)
}
