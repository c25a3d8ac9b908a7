// audio_pcm.go - Raw PCM decode (C2, spec §4.5).
//
// Reads bytes straight from the audio index's file positions, advancing
// a (chunk index, chunk byte offset) cursor. Mono samples are duplicated
// to stereo on ring write.

package main

// PCMDecoder decodes raw 8- or 16-bit PCM audio chunks into stereo
// int16 frames.
type PCMDecoder struct {
	avi       *AVIFile
	channels  int
	bitsPerSample int
	chunkIdx  int
	chunkPos  int
}

// NewPCMDecoder builds a PCM decoder cursor over avi's audio index.
func NewPCMDecoder(avi *AVIFile) *PCMDecoder {
	bits := avi.AudioBits
	if bits != 8 && bits != 16 {
		bits = 16
	}
	return &PCMDecoder{avi: avi, channels: avi.AudioChannels, bitsPerSample: bits}
}

// Reset rewinds the cursor to the start of the audio stream.
func (d *PCMDecoder) Reset() {
	d.chunkIdx = 0
	d.chunkPos = 0
}

// Done reports whether all audio chunks have been consumed.
func (d *PCMDecoder) Done() bool {
	return d.chunkIdx >= len(d.avi.Index.AudioOffsets)
}

// Decode reads the current chunk's remaining bytes (or up to maxFrames
// stereo frames' worth) and writes stereo int16 LE bytes to ring.
// Returns the number of stereo frames written.
func (d *PCMDecoder) Decode(ring *AudioRing, maxFrames int) (int, error) {
	bytesPerSample := d.bitsPerSample / 8
	written := 0

	for written < maxFrames && !d.Done() {
		chunk, err := d.avi.ReadAudioChunk(d.chunkIdx)
		if err != nil {
			return written, newErr("pcm", KindIoShort, "audio chunk read", err)
		}
		frameBytes := bytesPerSample * d.channels
		if frameBytes == 0 {
			d.chunkIdx++
			d.chunkPos = 0
			continue
		}
		for d.chunkPos+frameBytes <= len(chunk) && written < maxFrames {
			var left, right int16
			if d.channels == 1 {
				s := readPCMSample(chunk[d.chunkPos:], d.bitsPerSample)
				left, right = s, s
			} else {
				left = readPCMSample(chunk[d.chunkPos:], d.bitsPerSample)
				right = readPCMSample(chunk[d.chunkPos+bytesPerSample:], d.bitsPerSample)
			}
			writeStereoFrame(ring, left, right)
			d.chunkPos += frameBytes
			written++
		}
		if d.chunkPos >= len(chunk)-(len(chunk)%frameBytes) || d.chunkPos+frameBytes > len(chunk) {
			d.chunkIdx++
			d.chunkPos = 0
		}
	}
	return written, nil
}

func readPCMSample(b []byte, bits int) int16 {
	if bits == 8 {
		return (int16(b[0]) - 128) << 8
	}
	return int16(uint16(b[0]) | uint16(b[1])<<8)
}

// SeekBytes jumps the cursor to an absolute byte offset within the
// concatenated audio stream (spec §4.6: "for PCM it is a byte offset").
func (d *PCMDecoder) SeekBytes(byteOffset int64) {
	remaining := byteOffset
	for i, size := range d.avi.Index.AudioSizes {
		if remaining < int64(size) {
			d.chunkIdx = i
			d.chunkPos = int(remaining)
			return
		}
		remaining -= int64(size)
	}
	d.chunkIdx = len(d.avi.Index.AudioOffsets)
	d.chunkPos = 0
}

// writeStereoFrame appends one little-endian stereo int16 frame to ring.
func writeStereoFrame(ring *AudioRing, left, right int16) {
	var buf [4]byte
	buf[0] = byte(uint16(left))
	buf[1] = byte(uint16(left) >> 8)
	buf[2] = byte(uint16(right))
	buf[3] = byte(uint16(right) >> 8)
	ring.Write(buf[:])
}
