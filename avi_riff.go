// avi_riff.go - Low-level RIFF chunk helpers for the AVI demuxer (C4).
//
// Grounded on the original source's video_player.c walking routines
// (vp_check4, vp_read32, vp_read_u32_le) and on the RIFF-chunk-walking
// idiom from other_examples/8c102d58_anaray-fq…avi.go, adapted here from
// a read-only decode tree into an owning little-endian byte reader.

package main

import "encoding/binary"

func isTag(b []byte, tag string) bool {
	if len(b) < 4 || len(tag) != 4 {
		return false
	}
	return b[0] == tag[0] && b[1] == tag[1] && b[2] == tag[2] && b[3] == tag[3]
}

func u32le(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func u16le(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// chunkKind classifies a 4-byte AVI stream-chunk tag suffix as spec §4.2
// describes: NNdc/NNwb with case-insensitive letters, NN decimal digits.
type chunkKind int

const (
	chunkNone chunkKind = iota
	chunkVideo
	chunkAudio
)

func classifyChunkTag(tag []byte) chunkKind {
	if len(tag) != 4 {
		return chunkNone
	}
	if tag[0] < '0' || tag[0] > '9' || tag[1] < '0' || tag[1] > '9' {
		return chunkNone
	}
	c2 := tag[2] | 0x20
	c3 := tag[3] | 0x20
	switch {
	case c2 == 'd' && c3 == 'c':
		return chunkVideo
	case c2 == 'w' && c3 == 'b':
		return chunkAudio
	default:
		return chunkNone
	}
}
