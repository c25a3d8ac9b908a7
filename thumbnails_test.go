package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestThumbnailPath_BuildsResSubdirWithStrippedExtension(t *testing.T) {
	got := ThumbnailPath("/mnt/sda1/ROMS/nes/mario.nes")
	want := filepath.Join("/mnt/sda1/ROMS/nes", ".res", "mario.rgb565")
	if got != want {
		t.Fatalf("ThumbnailPath = %q, want %q", got, want)
	}
}

func TestLoadThumbnail_PrefersRawRGB565OverSiblingImage(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "mario.nes")
	resDir := filepath.Join(dir, ".res")
	if err := os.MkdirAll(resDir, 0o755); err != nil {
		t.Fatal(err)
	}

	w, h := 64, 64
	raw := make([]byte, w*h*2)
	for i := 0; i < w*h; i++ {
		raw[i*2] = 0x34
		raw[i*2+1] = 0x12
	}
	if err := os.WriteFile(filepath.Join(resDir, "mario.rgb565"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadThumbnail(romPath)
	if err != nil {
		t.Fatalf("LoadThumbnail: %v", err)
	}
	if img.Width != w || img.Height != h {
		t.Fatalf("dims = %dx%d, want %dx%d", img.Width, img.Height, w, h)
	}
	if img.Pixels[0] != 0x1234 {
		t.Fatalf("pixel[0] = %#x, want 0x1234", img.Pixels[0])
	}
}

func TestLoadThumbnail_FallsBackToSiblingOfROM(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "mario.nes")
	pngData := encodeTestPNG(t, 8, 8, color.RGBA{R: 100, G: 150, B: 200, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "mario.png"), pngData, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadThumbnail(romPath)
	if err != nil {
		t.Fatalf("LoadThumbnail: %v", err)
	}
	if img.Width != 8 || img.Height != 8 {
		t.Fatalf("dims = %dx%d, want 8x8", img.Width, img.Height)
	}
}

func TestLoadThumbnail_NoneFoundReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadThumbnail(filepath.Join(dir, "missing.nes"))
	if err == nil {
		t.Fatal("expected error when no thumbnail exists")
	}
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
