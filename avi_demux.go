// avi_demux.go - AVI/RIFF demuxer (C4, spec §4.2).
//
// Parses hdrl/strl/strf for media parameters, then builds the frame and
// audio chunk index either from idx1 (with the three-convention offset
// autodetect) or by a linear scan of movi. Grounded on
// original_source/cores/menu/video_player.c's vp_parse_avi / vp_parse_idx1
// / vp_scan_movi, translated from its fixed global-array C style into an
// owning Go struct with the same control flow and the same offset math.

package main

import (
	"io"
	"os"
)

const (
	AudioFormatPCM   = 0x0001
	AudioFormatADPCM = 0x0002
	AudioFormatMP3   = 0x0055
)

// AVIIndex holds the two parallel offset/size arrays built once at open
// time and immutable thereafter (spec §3).
type AVIIndex struct {
	FrameOffsets, FrameSizes []uint32
	AudioOffsets, AudioSizes []uint32
}

// AVIFile is an opened AVI container: its media parameters plus the
// immutable frame/audio chunk index (spec §3).
type AVIFile struct {
	f *os.File

	Index AVIIndex

	Width, Height int
	USPerFrame    uint32
	FPS           int
	RepeatCount   int

	HasAudio             bool
	AudioFormat          uint16
	AudioChannels        int
	AudioSampleRate      int
	AudioBits            int
	AudioBlockAlign      int
	ADPCMSamplesPerBlock int

	VOL []byte // MPEG-4 VOL extradata, <=256 bytes
}

// OpenAVI parses path's RIFF/AVI structure and builds the chunk index.
func OpenAVI(path string) (*AVIFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newErr("avi", KindNotFound, path, err)
		}
		return nil, newErr("avi", KindIoShort, path, err)
	}

	a := &AVIFile{
		f:           f,
		Width:       320,
		Height:      240,
		USPerFrame:  33333,
		FPS:         30,
		RepeatCount: 1,
	}

	if err := a.parse(); err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file handle.
func (a *AVIFile) Close() error {
	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}

func (a *AVIFile) readAt(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := a.f.ReadAt(buf, off)
	if read < n {
		if err == io.EOF || err == nil {
			return buf[:read], newErr("avi", KindIoShort, "short read", io.ErrUnexpectedEOF)
		}
		return buf[:read], err
	}
	return buf, nil
}

func (a *AVIFile) parse() error {
	pos := int64(0)

	tag, err := a.readAt(pos, 4)
	if err != nil || !isTag(tag, "RIFF") {
		return newErr("avi", KindFormatUnsupported, "not a RIFF file", nil)
	}
	pos += 4

	sizeBuf, err := a.readAt(pos, 4)
	if err != nil {
		return err
	}
	pos += 4
	riffSize := int64(u32le(sizeBuf))
	riffEnd := pos + riffSize

	kind, err := a.readAt(pos, 4)
	if err != nil || !isTag(kind, "AVI ") {
		return newErr("avi", KindFormatUnsupported, "not an AVI RIFF form", nil)
	}
	pos += 4

	var movistart, moviEnd int64
	foundMovi := false

	for pos+8 <= riffEnd {
		tag, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		szBuf, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		chunkSize := int64(u32le(szBuf))

		if isTag(tag, "LIST") {
			listType, err := a.readAt(pos, 4)
			if err != nil {
				break
			}
			listEnd := pos + chunkSize
			if isTag(listType, "hdrl") {
				if err := a.parseHdrl(pos+4, listEnd); err != nil {
					return err
				}
			} else if isTag(listType, "movi") {
				movistart = pos + 4
				moviEnd = listEnd
				foundMovi = true
			}
			pos = listEnd
		} else {
			pos += chunkSize
		}
		if chunkSize&1 != 0 {
			pos++
		}
	}

	if a.USPerFrame > 0 {
		fps := 1000000 / int(a.USPerFrame)
		if fps < 1 {
			fps = 1
		}
		a.FPS = fps
	}
	switch {
	case a.FPS >= 25:
		a.RepeatCount = 1
	case a.FPS >= 12:
		a.RepeatCount = 2
	default:
		a.RepeatCount = 3
	}

	if !foundMovi {
		// No movi list at all: a valid-but-empty container (spec §8 boundary).
		return nil
	}

	if !a.parseIdx1(movistart, moviEnd) {
		a.scanMovi(movistart, moviEnd)
	}
	return nil
}

func (a *AVIFile) parseHdrl(start, end int64) error {
	pos := start
	for pos+8 <= end {
		htag, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		hszBuf, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		hsize := int64(u32le(hszBuf))

		switch {
		case isTag(htag, "avih"):
			n := hsize
			if n > 56 {
				n = 56
			}
			if n >= 4 {
				buf, err := a.readAt(pos, int(n))
				if err == nil && len(buf) >= 4 {
					a.USPerFrame = u32le(buf[0:4])
				}
			}
			pos += hsize
		case isTag(htag, "LIST"):
			sub, err := a.readAt(pos, 4)
			strlEnd := pos + hsize
			if err == nil && isTag(sub, "strl") {
				a.parseStrl(pos+4, strlEnd)
			}
			pos = strlEnd
		default:
			pos += hsize
		}
		if hsize&1 != 0 {
			pos++
		}
	}
	return nil
}

func (a *AVIFile) parseStrl(start, end int64) {
	pos := start
	strlType := 0 // 0=unknown, 1=video, 2=audio

	for pos+8 <= end {
		htag, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		szBuf, err := a.readAt(pos, 4)
		if err != nil {
			break
		}
		pos += 4
		shsize := int64(u32le(szBuf))

		switch {
		case isTag(htag, "strh"):
			n := shsize
			if n > 64 {
				n = 64
			}
			if n >= 8 {
				buf, err := a.readAt(pos, int(n))
				if err == nil {
					switch {
					case isTag(buf[0:4], "auds"):
						strlType = 2
					case isTag(buf[0:4], "vids"):
						strlType = 1
					}
				}
			}
			pos += shsize
		case isTag(htag, "strf"):
			switch {
			case strlType == 2 && shsize >= 16:
				n := shsize
				if n > 64 {
					n = 64
				}
				buf, err := a.readAt(pos, int(n))
				if err == nil && len(buf) >= 16 {
					fmtTag := u16le(buf[0:2])
					channels := int(u16le(buf[2:4]))
					sampleRate := int(u32le(buf[4:8]))
					blockAlign := int(u16le(buf[12:14]))
					bits := int(u16le(buf[14:16]))

					a.AudioChannels = channels
					a.AudioSampleRate = sampleRate
					a.AudioBlockAlign = blockAlign
					a.AudioBits = bits

					if channels > 0 && sampleRate > 0 {
						switch fmtTag {
						case AudioFormatPCM:
							a.HasAudio = true
							a.AudioFormat = AudioFormatPCM
						case AudioFormatADPCM:
							a.HasAudio = true
							a.AudioFormat = AudioFormatADPCM
							if shsize >= 20 && len(buf) >= 20 {
								a.ADPCMSamplesPerBlock = int(u16le(buf[18:20]))
							} else {
								header := 14
								if channels == 1 {
									header = 7
								}
								if blockAlign > header && channels > 0 {
									a.ADPCMSamplesPerBlock = 2 + (blockAlign-header)*2/channels
								}
							}
						case AudioFormatMP3:
							a.HasAudio = true
							a.AudioFormat = AudioFormatMP3
						}
					}
				}
				pos += shsize
			case strlType == 1 && shsize >= 40:
				buf, err := a.readAt(pos, 40)
				if err == nil && len(buf) == 40 {
					a.Width = int(u32le(buf[4:8]))
					a.Height = int(u32le(buf[8:12]))
				}
				extraLen := int(shsize) - 40
				if extraLen > 0 && extraLen <= MaxVOLBytes {
					vol, err := a.readAt(pos+40, extraLen)
					if err == nil {
						a.VOL = vol
					}
				}
				pos += shsize
			default:
				pos += shsize
			}
		default:
			pos += shsize
		}
		if shsize&1 != 0 {
			pos++
		}
	}
}

// parseIdx1 looks for the idx1 chunk between movi's end and EOF, and if
// found, builds the index using the three-convention offset autodetect
// described in spec §4.2. Returns false if no usable idx1 was found
// (caller falls back to scanMovi).
func (a *AVIFile) parseIdx1(moviStart, moviEnd int64) bool {
	pos := moviEnd
	fi, err := a.f.Stat()
	if err != nil {
		return false
	}
	fileEnd := fi.Size()

	for pos+8 <= fileEnd {
		tag, err := a.readAt(pos, 4)
		if err != nil {
			return false
		}
		pos += 4
		szBuf, err := a.readAt(pos, 4)
		if err != nil {
			return false
		}
		pos += 4
		chunkSize := int64(u32le(szBuf))

		if isTag(tag, "idx1") {
			return a.parseIdx1Body(pos, chunkSize, moviStart)
		}
		pos += chunkSize
		if chunkSize&1 != 0 {
			pos++
		}
	}
	return false
}

func (a *AVIFile) parseIdx1Body(idxStart, chunkSize, moviStart int64) bool {
	numEntries := int(chunkSize / 16)

	// Step 1: find the first video entry to determine the offset format.
	var firstVideoOffset uint32
	foundVideo := false
	limit := numEntries
	if limit > 100 {
		limit = 100
	}
	for i := 0; i < limit; i++ {
		entry, err := a.readAt(idxStart+int64(i)*16, 16)
		if err != nil {
			break
		}
		if classifyChunkTag(entry[0:4]) == chunkVideo {
			firstVideoOffset = u32le(entry[8:12])
			foundVideo = true
			break
		}
	}
	if !foundVideo {
		return false
	}

	offsetBase := moviStart
	addHeader := int64(8)
	switch {
	case a.checkChunkHeader(moviStart + int64(firstVideoOffset)):
		offsetBase = moviStart
	case a.checkChunkHeader(int64(firstVideoOffset)):
		offsetBase = 0
	case a.checkChunkHeader(moviStart - 4 + int64(firstVideoOffset)):
		offsetBase = moviStart - 4
	default:
		offsetBase = moviStart
	}

	for i := 0; i < numEntries && len(a.Index.FrameOffsets) < MaxIndexEntries; i++ {
		entry, err := a.readAt(idxStart+int64(i)*16, 16)
		if err != nil {
			break
		}
		offset := u32le(entry[8:12])
		size := u32le(entry[12:16])
		absOffset := uint32(offsetBase+addHeader) + offset

		switch classifyChunkTag(entry[0:4]) {
		case chunkVideo:
			a.Index.FrameOffsets = append(a.Index.FrameOffsets, absOffset)
			a.Index.FrameSizes = append(a.Index.FrameSizes, size)
		case chunkAudio:
			if len(a.Index.AudioOffsets) < MaxIndexEntries {
				a.Index.AudioOffsets = append(a.Index.AudioOffsets, absOffset)
				a.Index.AudioSizes = append(a.Index.AudioSizes, size)
			}
		}
	}

	return len(a.Index.FrameOffsets) > 0
}

// checkChunkHeader probes offset for a plausible NNdc/NNwb chunk header
// (spec §4.2, §8's index invariant).
func (a *AVIFile) checkChunkHeader(offset int64) bool {
	if offset < 0 {
		return false
	}
	header, err := a.readAt(offset, 4)
	if err != nil || len(header) != 4 {
		return false
	}
	return classifyChunkTag(header) != chunkNone
}

// scanMovi is the idx1-less fallback: a linear walk of movi recording
// each NNdc/NNwb child chunk in file order.
func (a *AVIFile) scanMovi(start, end int64) {
	pos := start
	for pos+8 <= end && len(a.Index.FrameOffsets) < MaxIndexEntries {
		header, err := a.readAt(pos, 8)
		if err != nil || len(header) < 8 {
			break
		}
		size := u32le(header[4:8])
		dataPos := pos + 8

		switch classifyChunkTag(header[0:4]) {
		case chunkVideo:
			a.Index.FrameOffsets = append(a.Index.FrameOffsets, uint32(dataPos))
			a.Index.FrameSizes = append(a.Index.FrameSizes, size)
		case chunkAudio:
			if len(a.Index.AudioOffsets) < MaxIndexEntries {
				a.Index.AudioOffsets = append(a.Index.AudioOffsets, uint32(dataPos))
				a.Index.AudioSizes = append(a.Index.AudioSizes, size)
			}
		}

		pos = dataPos + int64(size)
		if size&1 != 0 {
			pos++
		}
	}
}

// TotalFrames is the number of indexed video chunks.
func (a *AVIFile) TotalFrames() int { return len(a.Index.FrameOffsets) }

// ReadFrameChunk reads the i'th video chunk's bytes into dst, sized by
// the index, capped at MaxFrameChunkBytes (spec §4.3 step 1).
func (a *AVIFile) ReadFrameChunk(i int, dst []byte) ([]byte, error) {
	if i < 0 || i >= len(a.Index.FrameOffsets) {
		return nil, newErr("avi", KindDecodeError, "frame index out of range", nil)
	}
	size := int(a.Index.FrameSizes[i])
	if size > MaxFrameChunkBytes {
		size = MaxFrameChunkBytes
	}
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	n, err := a.f.ReadAt(dst, int64(a.Index.FrameOffsets[i]))
	if n < size {
		return dst[:n], newErr("avi", KindIoShort, "short frame read", err)
	}
	return dst, nil
}

// ReadAudioChunk reads the i'th audio chunk's raw bytes.
func (a *AVIFile) ReadAudioChunk(i int) ([]byte, error) {
	if i < 0 || i >= len(a.Index.AudioOffsets) {
		return nil, newErr("avi", KindDecodeError, "audio index out of range", nil)
	}
	size := int(a.Index.AudioSizes[i])
	buf := make([]byte, size)
	n, err := a.f.ReadAt(buf, int64(a.Index.AudioOffsets[i]))
	if n < size {
		return buf[:n], newErr("avi", KindIoShort, "short audio read", err)
	}
	return buf, nil
}
