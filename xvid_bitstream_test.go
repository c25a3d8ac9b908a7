package main

import "testing"

// bitWriter is a small MSB-first bit packer used only to construct
// synthetic VOL headers for tests.
type bitWriter struct {
	buf  []byte
	pos  int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		byteIdx := w.pos / 8
		for len(w.buf) <= byteIdx {
			w.buf = append(w.buf, 0)
		}
		if bit == 1 {
			w.buf[byteIdx] |= 1 << uint(7-(w.pos%8))
		}
		w.pos++
	}
}

// buildVOLPayload constructs a minimal rectangular-shape VOL header
// payload (the bytes after the 0x000001 0x2x start code) encoding the
// given width/height, per ISO/IEC 14496-2 §6.2.3.
func buildVOLPayload(width, height int) []byte {
	w := &bitWriter{}
	w.writeBits(1, 1)     // random_accessible_vol
	w.writeBits(1, 8)     // video_object_type_indication
	w.writeBits(0, 1)     // is_object_layer_identifier
	w.writeBits(0, 4)     // aspect_ratio_info (not extended)
	w.writeBits(0, 1)     // vol_control_parameters
	w.writeBits(0, 2)     // video_object_layer_shape (rectangular)
	w.writeBits(1, 1)     // marker_bit
	w.writeBits(1000, 16) // vop_time_increment_resolution
	w.writeBits(1, 1)     // marker_bit
	w.writeBits(0, 1)     // fixed_vop_rate = 0
	w.writeBits(1, 1)     // marker_bit
	w.writeBits(uint32(width), 13)
	w.writeBits(1, 1) // marker_bit
	w.writeBits(uint32(height), 13)
	return w.buf
}

func TestParseVOLHeader_RecoversWidthHeight(t *testing.T) {
	payload := buildVOLPayload(352, 288)
	dims := parseVOLHeader(payload)
	if !dims.ok {
		t.Fatal("expected VOL header to parse successfully")
	}
	if dims.width != 352 || dims.height != 288 {
		t.Fatalf("got %dx%d, want 352x288", dims.width, dims.height)
	}
}

func TestParseVOLHeader_TruncatedPayloadFailsCleanly(t *testing.T) {
	dims := parseVOLHeader([]byte{0x01, 0x02})
	if dims.ok {
		t.Fatal("expected parse to fail on truncated payload")
	}
}

func TestFindStartCode_LocatesPrefixAndType(t *testing.T) {
	data := []byte{0xAA, 0x00, 0x00, 0x01, 0xB6, 0xFF}
	off, code := findStartCode(data, 0)
	if off != 1 {
		t.Fatalf("expected start code at offset 1, got %d", off)
	}
	if code != 0xB6 {
		t.Fatalf("expected type byte 0xB6, got %#x", code)
	}
}

func TestFindStartCode_NoneFound(t *testing.T) {
	off, _ := findStartCode([]byte{1, 2, 3, 4, 5}, 0)
	if off != -1 {
		t.Fatalf("expected -1 for no start code, got %d", off)
	}
}
