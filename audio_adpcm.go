// audio_adpcm.go - MS-ADPCM decode (C2, spec §4.5).
//
// Standard Microsoft ADPCM block format: a per-channel header (predictor
// index, delta, sample2, sample1) followed by a nibble stream. Decoded
// output always begins with the block's verbatim sample2 then sample1
// before any nibble-derived samples, matching the format's own framing.

package main

// Standard MS ADPCM coefficient and adaptation tables.
var adaptCoeff1 = [7]int32{256, 512, 0, 192, 240, 460, 392}
var adaptCoeff2 = [7]int32{0, -256, 0, 64, 0, -208, -232}
var adaptTable = [16]int32{230, 230, 230, 230, 307, 409, 512, 614, 768, 614, 512, 409, 307, 230, 230, 230}

type adpcmChannelState struct {
	predictorIdx int32
	delta        int32
	sample1      int32
	sample2      int32
}

// ADPCMDecoder decodes MS-ADPCM blocks from an AVI audio stream into
// stereo int16 frames.
type ADPCMDecoder struct {
	avi             *AVIFile
	channels        int
	blockAlign      int
	samplesPerBlock int
	chunkIdx        int
}

// NewADPCMDecoder builds an ADPCM decoder cursor over avi's audio index.
func NewADPCMDecoder(avi *AVIFile) *ADPCMDecoder {
	return &ADPCMDecoder{
		avi:             avi,
		channels:        avi.AudioChannels,
		blockAlign:      avi.AudioBlockAlign,
		samplesPerBlock: avi.ADPCMSamplesPerBlock,
	}
}

// Reset rewinds the cursor to the start of the audio stream.
func (d *ADPCMDecoder) Reset() {
	d.chunkIdx = 0
}

// Done reports whether all audio chunks have been consumed.
func (d *ADPCMDecoder) Done() bool {
	return d.chunkIdx >= len(d.avi.Index.AudioOffsets)
}

// Decode decodes the next audio chunk (one or more ADPCM blocks) and
// writes stereo int16 frames into ring, capped at maxFrames. Returns the
// number of frames written.
func (d *ADPCMDecoder) Decode(ring *AudioRing, maxFrames int) (int, error) {
	if d.Done() {
		return 0, nil
	}
	chunk, err := d.avi.ReadAudioChunk(d.chunkIdx)
	if err != nil {
		return 0, newErr("adpcm", KindIoShort, "audio chunk read", err)
	}
	d.chunkIdx++

	written := 0
	blockAlign := d.blockAlign
	if blockAlign <= 0 {
		blockAlign = len(chunk)
	}
	for off := 0; off+blockAlign <= len(chunk) && written < maxFrames; off += blockAlign {
		n, err := d.decodeBlock(chunk[off:off+blockAlign], ring, maxFrames-written)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (d *ADPCMDecoder) decodeBlock(block []byte, ring *AudioRing, maxFrames int) (int, error) {
	channels := d.channels
	if channels != 1 && channels != 2 {
		channels = 1
	}
	headerSize := 7 * channels
	if len(block) < headerSize {
		return 0, newErr("adpcm", KindDecodeError, "truncated block header", nil)
	}

	states := make([]adpcmChannelState, channels)
	pos := 0
	for ch := 0; ch < channels; ch++ {
		idx := int32(block[pos])
		if idx < 0 || idx > 6 {
			idx = 0
		}
		states[ch].predictorIdx = idx
		pos++
	}
	for ch := 0; ch < channels; ch++ {
		states[ch].delta = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}
	for ch := 0; ch < channels; ch++ {
		states[ch].sample1 = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}
	for ch := 0; ch < channels; ch++ {
		states[ch].sample2 = int32(int16(uint16(block[pos]) | uint16(block[pos+1])<<8))
		pos += 2
	}

	written := 0
	// Output order per channel is sample2 then sample1, verbatim.
	if channels == 1 {
		writeStereoFrame(ring, int16(states[0].sample2), int16(states[0].sample2))
		writeStereoFrame(ring, int16(states[0].sample1), int16(states[0].sample1))
	} else {
		writeStereoFrame(ring, int16(states[0].sample2), int16(states[1].sample2))
		writeStereoFrame(ring, int16(states[0].sample1), int16(states[1].sample1))
	}
	written += 2
	if written >= maxFrames {
		return written, nil
	}

	nibbleData := block[pos:]
	nibbleIdx := 0
	totalNibbles := len(nibbleData) * 2

	decodeNibble := func(ch int, nibble uint8) int32 {
		st := &states[ch]
		signed := int32(nibble)
		if signed > 7 {
			signed -= 16
		}
		pred := (st.sample1*adaptCoeff1[st.predictorIdx] + st.sample2*adaptCoeff2[st.predictorIdx]) >> 8
		sample := pred + signed*st.delta
		if sample > 32767 {
			sample = 32767
		}
		if sample < -32768 {
			sample = -32768
		}
		st.sample2 = st.sample1
		st.sample1 = sample
		st.delta = (adaptTable[nibble] * st.delta) >> 8
		if st.delta < 16 {
			st.delta = 16
		}
		return sample
	}

	for nibbleIdx < totalNibbles && written < maxFrames {
		byteVal := nibbleData[nibbleIdx/2]
		var nibble uint8
		if nibbleIdx%2 == 0 {
			nibble = byteVal >> 4
		} else {
			nibble = byteVal & 0x0F
		}
		ch := nibbleIdx % channels
		sample := decodeNibble(ch, nibble)
		nibbleIdx++

		if channels == 1 {
			writeStereoFrame(ring, int16(sample), int16(sample))
			written++
		} else if ch == channels-1 {
			// Last channel of the pair just decoded; left channel value
			// was decoded the previous iteration and cached in states[0].
			writeStereoFrame(ring, int16(states[0].sample1), int16(sample))
			written++
		}
	}
	return written, nil
}
