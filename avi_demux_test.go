package main

import (
	"encoding/binary"
	"os"
	"testing"
)

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendChunk(b []byte, tag string, data []byte) []byte {
	b = append(b, tag...)
	b = appendU32(b, uint32(len(data)))
	b = append(b, data...)
	if len(data)&1 != 0 {
		b = append(b, 0)
	}
	return b
}

// buildTestAVI constructs a minimal synthetic AVI with one video stream
// (30fps, 320x240) and optional audio chunks, using idxMode to select how
// idx1 entries express their offsets: "movi", "absolute", or "legacy"
// (movi-4), or "" to omit idx1 entirely (forcing the scanMovi fallback).
func buildTestAVI(t *testing.T, videoChunks, audioChunks [][]byte, idxMode string) string {
	t.Helper()

	avih := make([]byte, 0, 56)
	avih = appendU32(avih, 33333) // us per frame -> 30fps
	for len(avih) < 56 {
		avih = append(avih, 0)
	}

	strhVideo := make([]byte, 0, 64)
	strhVideo = append(strhVideo, "vids"...)
	for len(strhVideo) < 64 {
		strhVideo = append(strhVideo, 0)
	}

	strfVideo := make([]byte, 0, 40)
	strfVideo = appendU32(strfVideo, 40) // biSize
	strfVideo = appendU32(strfVideo, 320)
	strfVideo = appendU32(strfVideo, 240)
	for len(strfVideo) < 40 {
		strfVideo = append(strfVideo, 0)
	}

	strlVideo := appendChunk(nil, "strh", strhVideo)
	strlVideo = appendChunk(strlVideo, "strf", strfVideo)
	strlVideoList := append([]byte("strl"), strlVideo...)

	hdrlBody := appendChunk(nil, "avih", avih)
	hdrlBody = append(hdrlBody, "LIST"...)
	hdrlBody = appendU32(hdrlBody, uint32(len(strlVideoList)))
	hdrlBody = append(hdrlBody, strlVideoList...)

	if len(audioChunks) > 0 {
		strhAudio := make([]byte, 0, 64)
		strhAudio = append(strhAudio, "auds"...)
		for len(strhAudio) < 64 {
			strhAudio = append(strhAudio, 0)
		}
		strfAudio := make([]byte, 0, 16)
		strfAudio = appendU16(strfAudio, AudioFormatPCM)
		strfAudio = appendU16(strfAudio, 2)     // channels
		strfAudio = appendU32(strfAudio, 44100) // sample rate
		strfAudio = appendU32(strfAudio, 0)
		strfAudio = appendU16(strfAudio, 4)
		strfAudio = appendU16(strfAudio, 16)

		strlAudio := appendChunk(nil, "strh", strhAudio)
		strlAudio = appendChunk(strlAudio, "strf", strfAudio)
		strlAudioList := append([]byte("strl"), strlAudio...)

		hdrlBody = append(hdrlBody, "LIST"...)
		hdrlBody = appendU32(hdrlBody, uint32(len(strlAudioList)))
		hdrlBody = append(hdrlBody, strlAudioList...)
	}

	hdrlList := append([]byte("hdrl"), hdrlBody...)

	var movi []byte
	type rec struct {
		tag    string
		offset uint32
		size   uint32
	}
	var recs []rec
	for _, c := range videoChunks {
		offset := uint32(len(movi))
		movi = appendChunk(movi, "00dc", c)
		recs = append(recs, rec{"00dc", offset, uint32(len(c))})
	}
	for _, c := range audioChunks {
		offset := uint32(len(movi))
		movi = appendChunk(movi, "01wb", c)
		recs = append(recs, rec{"01wb", offset, uint32(len(c))})
	}
	moviList := append([]byte("movi"), movi...)

	var riffBody []byte
	riffBody = append(riffBody, "LIST"...)
	riffBody = appendU32(riffBody, uint32(len(hdrlList)))
	riffBody = append(riffBody, hdrlList...)
	riffBody = append(riffBody, "LIST"...)
	riffBody = appendU32(riffBody, uint32(len(moviList)))
	riffBody = append(riffBody, moviList...)

	// moviDataStart = offset of first byte after "movi" fourcc, measured
	// from the start of the file, needed to compute idx1 offset conventions.
	moviDataStart := uint32(4+4+4) + uint32(4+4+len(hdrlList)) + uint32(4+4+4)

	if idxMode != "" {
		var idx []byte
		for _, r := range recs {
			idx = append(idx, r.tag...)
			idx = appendU32(idx, 0x10) // AVIIF_KEYFRAME, unused by parser
			var off uint32
			switch idxMode {
			case "movi":
				off = r.offset
			case "absolute":
				off = moviDataStart + r.offset
			case "legacy":
				off = r.offset + 4
			}
			idx = appendU32(idx, off)
			idx = appendU32(idx, r.size)
		}
		riffBody = appendChunk(riffBody, "idx1", idx)
	}

	var file []byte
	file = append(file, "RIFF"...)
	file = appendU32(file, uint32(len(riffBody)+4))
	file = append(file, "AVI "...)
	file = append(file, riffBody...)

	f, err := os.CreateTemp(t.TempDir(), "test-*.avi")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(file); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestAVIOpen_LinearScanFallback(t *testing.T) {
	video := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10}}
	path := buildTestAVI(t, video, nil, "")

	a, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer a.Close()

	if a.TotalFrames() != len(video) {
		t.Fatalf("got %d frames, want %d", a.TotalFrames(), len(video))
	}
	if a.Width != 320 || a.Height != 240 {
		t.Fatalf("unexpected dims %dx%d", a.Width, a.Height)
	}
	if a.FPS != 30 {
		t.Fatalf("expected 30fps, got %d", a.FPS)
	}
	for i, want := range video {
		got, err := a.ReadFrameChunk(i, nil)
		if err != nil {
			t.Fatalf("ReadFrameChunk(%d): %v", i, err)
		}
		if string(got) != string(want) {
			t.Fatalf("frame %d mismatch: got %v want %v", i, got, want)
		}
	}
}

func TestAVIOpen_Idx1OffsetAutodetect(t *testing.T) {
	video := [][]byte{{1, 1, 1, 1}, {2, 2, 2, 2, 2}}
	audio := [][]byte{{9, 9}}

	for _, mode := range []string{"movi", "absolute", "legacy"} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			path := buildTestAVI(t, video, audio, mode)
			a, err := OpenAVI(path)
			if err != nil {
				t.Fatalf("OpenAVI(%s): %v", mode, err)
			}
			defer a.Close()

			if a.TotalFrames() != len(video) {
				t.Fatalf("%s: got %d frames, want %d", mode, a.TotalFrames(), len(video))
			}
			for i, want := range video {
				got, err := a.ReadFrameChunk(i, nil)
				if err != nil {
					t.Fatalf("%s: ReadFrameChunk(%d): %v", mode, i, err)
				}
				if string(got) != string(want) {
					t.Fatalf("%s: frame %d mismatch: got %v want %v", mode, i, got, want)
				}
			}
			if len(a.Index.AudioOffsets) != len(audio) {
				t.Fatalf("%s: got %d audio chunks, want %d", mode, len(a.Index.AudioOffsets), len(audio))
			}
		})
	}
}

func TestAVIOpen_NotAnAvi(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notavi-*.bin")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("not a riff file at all"))
	f.Close()

	_, err = OpenAVI(f.Name())
	if err == nil {
		t.Fatal("expected error for non-AVI file")
	}
	if !IsKind(err, KindFormatUnsupported) {
		t.Fatalf("expected KindFormatUnsupported, got %v", err)
	}
}

func TestAVIOpen_ZeroLength(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "empty-*.avi")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = OpenAVI(f.Name())
	if err == nil {
		t.Fatal("expected error opening zero-length file")
	}
}

func TestAVIOpen_EmptyMoviNoIdx1(t *testing.T) {
	path := buildTestAVI(t, nil, nil, "")
	a, err := OpenAVI(path)
	if err != nil {
		t.Fatalf("OpenAVI: %v", err)
	}
	defer a.Close()
	if a.TotalFrames() != 0 {
		t.Fatalf("expected 0 frames, got %d", a.TotalFrames())
	}
}
