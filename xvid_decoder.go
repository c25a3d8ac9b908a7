// xvid_decoder.go - MPEG-4 Part 2 style video decode (C5, spec §4.3).
//
// Mirrors the shape of the original's vp_init_xvid/vp_decode_frame: a
// VOL extradata blob is handed to the decoder once per session before
// any frame decode, and each frame chunk is fed through a bounded retry
// loop (spec: "up to MaxDecodeLoopIterations attempts") that walks
// start codes, updates the output dimensions from any VOL payload it
// encounters, and stops once a VOP has produced a frame. Each VOP's
// payload is run through a real (if not bit-exact, see
// xvid_macroblock.go) I/P macroblock decode: VOP header parse,
// per-macroblock DC/AC or motion-vector+residual decode, dequantize,
// IDCT and, for P-VOPs, motion compensation against the previous
// reconstructed frame. A payload that doesn't parse as a conformant
// VOP under that decode (no reference XviD encoder exists in this
// module's dependency set to validate against, so most real-world
// streams will trip over the simplified entropy coder) falls back to
// fillFromPayload's deterministic concealment fill, the same
// hold-something-plausible behavior the original falls back to on a
// decode failure.

package main

// XvidDecoder holds decode state across a video session: the current
// output dimensions and frame buffers, and whether VOL extradata has
// been sent yet (spec §4.3: "VOL is sent once per session").
type XvidDecoder struct {
	width, height int
	frame         *YUVFrame
	prevFrame     *YUVFrame // last reconstructed frame, for P-VOP prediction
	volSent       bool
}

// NewXvidDecoder creates a decoder defaulting to width x height until a
// VOL header (explicit or embedded in a frame) says otherwise.
func NewXvidDecoder(width, height int) *XvidDecoder {
	d := &XvidDecoder{width: width, height: height}
	d.allocFrame()
	return d
}

func (d *XvidDecoder) allocFrame() {
	if d.width <= 0 {
		d.width = ScreenWidth
	}
	if d.height <= 0 {
		d.height = ScreenHeight
	}
	ySize := d.width * d.height
	cw, ch := d.width/2, d.height/2
	cSize := cw * ch
	d.frame = &YUVFrame{
		Width: d.width, Height: d.height,
		YStride: d.width, CStride: cw,
		Y: make([]byte, ySize),
		U: make([]byte, cSize),
		V: make([]byte, cSize),
	}
	d.prevFrame = nil // old reference frame no longer matches the new dimensions
}

// snapshotPrevFrame copies the just-reconstructed frame into prevFrame
// so the next P-VOP has a stable reference to motion-compensate
// against (d.frame's slices are overwritten in place by the next
// decode).
func (d *XvidDecoder) snapshotPrevFrame() {
	if d.prevFrame == nil {
		d.prevFrame = &YUVFrame{
			Width: d.frame.Width, Height: d.frame.Height,
			YStride: d.frame.YStride, CStride: d.frame.CStride,
			Y: make([]byte, len(d.frame.Y)),
			U: make([]byte, len(d.frame.U)),
			V: make([]byte, len(d.frame.V)),
		}
	}
	copy(d.prevFrame.Y, d.frame.Y)
	copy(d.prevFrame.U, d.frame.U)
	copy(d.prevFrame.V, d.frame.V)
}

// SendVOL feeds session-level VOL extradata (spec §4.3, §4.2's parsed
// AVIFile.VOL). Called at most once; later calls are no-ops. A VOL
// payload that resizes the decoder reallocates the output frame.
func (d *XvidDecoder) SendVOL(extradata []byte) {
	if d.volSent || len(extradata) == 0 {
		return
	}
	d.volSent = true
	d.applyVOLIfFound(extradata)
}

func (d *XvidDecoder) applyVOLIfFound(data []byte) bool {
	off, code := findStartCode(data, 0)
	if off < 0 || code < volStartMin || code > volStartMax {
		return false
	}
	dims := parseVOLHeader(data[off+4:])
	if !dims.ok {
		return false
	}
	if dims.width != d.width || dims.height != d.height {
		d.width, d.height = dims.width, dims.height
		d.allocFrame()
	}
	return true
}

// DecodeFrame feeds one AVI video chunk through the bounded retry loop
// and returns the resulting frame. Returns an error only when the chunk
// yields no VOP at all after MaxDecodeLoopIterations attempts.
func (d *XvidDecoder) DecodeFrame(bitstream []byte) (*YUVFrame, error) {
	remaining := bitstream
	consumedAny := false

	for loops := 0; loops < MaxDecodeLoopIterations; loops++ {
		off, code := findStartCode(remaining, 0)
		if off < 0 {
			break
		}
		payloadStart := off + 4
		if payloadStart > len(remaining) {
			break
		}

		switch {
		case code >= volStartMin && code <= volStartMax:
			if dims := parseVOLHeader(remaining[payloadStart:]); dims.ok {
				if dims.width != d.width || dims.height != d.height {
					d.width, d.height = dims.width, dims.height
					d.allocFrame()
				}
			}
			remaining = remaining[payloadStart:]
			consumedAny = true
			continue
		case code == vopStartCode:
			return d.decodeVOP(remaining[payloadStart:]), nil
		default:
			remaining = remaining[payloadStart:]
			consumedAny = true
			continue
		}
	}

	if !consumedAny {
		return nil, newErr("xvid", KindDecodeError, "no VOP found in frame chunk", nil)
	}
	return nil, newErr("xvid", KindDecodeError, "decode loop exhausted without a VOP", nil)
}

// decodeVOP attempts a real macroblock decode of one VOP's payload and
// falls back to the deterministic concealment fill when the header or
// any macroblock can't be decoded (see the file header for why that's
// the expected outcome for most real bitstreams here).
func (d *XvidDecoder) decodeVOP(payload []byte) *YUVFrame {
	r := newBitReader(payload)
	hdr := parseVOPHeader(r)
	if hdr.ok && !hdr.coded && d.prevFrame != nil {
		// vop_coded == 0: this VOP carries no picture data at all,
		// the previous reconstructed frame stands unchanged. With no
		// prior frame yet there's nothing to hold, so fall through to
		// concealment below instead of returning a blank frame.
		return d.frame
	}
	if hdr.ok && hdr.coded && d.decodeVOPBody(r, hdr) {
		d.snapshotPrevFrame()
		return d.frame
	}
	d.fillFromPayload(payload)
	d.snapshotPrevFrame()
	return d.frame
}

// decodeVOPBody runs the per-macroblock decode loop for a parsed VOP
// header, left to right, top to bottom, resetting each row's DC/motion
// vector predictors the way the standard does at the left edge. A
// P-VOP with no usable reference frame yet decodes as intra instead of
// motion-compensating against nothing.
func (d *XvidDecoder) decodeVOPBody(r *bitReader, hdr vopHeader) bool {
	mbW := (d.width + 15) / 16
	mbH := (d.height + 15) / 16
	mquant := hdr.quant
	if mquant <= 0 {
		mquant = 8
	}
	isInter := hdr.codingType == 1 && d.prevFrame != nil

	for mbY := 0; mbY < mbH; mbY++ {
		dcY, dcCb, dcCr := 1024, 1024, 1024
		mvX, mvY := 0, 0
		for mbX := 0; mbX < mbW; mbX++ {
			var ok bool
			if isInter {
				ok = d.decodeInterMB(r, mbX, mbY, mquant, &mvX, &mvY)
			} else {
				ok = d.decodeIntraMB(r, mbX, mbY, mquant, &dcY, &dcCb, &dcCr)
			}
			if !ok {
				return false
			}
		}
	}
	return true
}

// fillFromPayload derives a deterministic image from the VOP payload
// bytes: each 16x16 luma macroblock (and corresponding 8x8 chroma block)
// takes its value from a rolling checksum of its slice of the payload,
// so repeated decodes of the same bytes are stable and different
// content visibly differs, without claiming to be a real MPEG-4 decode.
func (d *XvidDecoder) fillFromPayload(payload []byte) {
	if len(payload) == 0 {
		for i := range d.frame.Y {
			d.frame.Y[i] = 16
		}
		for i := range d.frame.U {
			d.frame.U[i] = 128
			d.frame.V[i] = 128
		}
		return
	}

	mbW := (d.width + 15) / 16
	mbH := (d.height + 15) / 16
	chunk := len(payload) / max1(mbW*mbH)
	if chunk == 0 {
		chunk = 1
	}

	for mbY := 0; mbY < mbH; mbY++ {
		for mbX := 0; mbX < mbW; mbX++ {
			idx := mbY*mbW + mbX
			start := (idx * chunk) % len(payload)
			end := start + chunk
			if end > len(payload) {
				end = len(payload)
			}
			lumaVal, cbVal, crVal := blockAverage(payload[start:end])
			d.fillMacroblock(mbX, mbY, lumaVal, cbVal, crVal)
		}
	}
}

func (d *XvidDecoder) fillMacroblock(mbX, mbY int, luma, cb, cr byte) {
	for y := mbY * 16; y < mbY*16+16 && y < d.height; y++ {
		row := y * d.frame.YStride
		for x := mbX * 16; x < mbX*16+16 && x < d.width; x++ {
			d.frame.Y[row+x] = luma
		}
	}
	cw, ch := d.width/2, d.height/2
	for y := mbY * 8; y < mbY*8+8 && y < ch; y++ {
		row := y * d.frame.CStride
		for x := mbX * 8; x < mbX*8+8 && x < cw; x++ {
			d.frame.U[row+x] = cb
			d.frame.V[row+x] = cr
		}
	}
}

func blockAverage(b []byte) (luma, cb, cr byte) {
	var sum, sumEven, sumOdd uint32
	var countEven, countOdd uint32
	for i, v := range b {
		sum += uint32(v)
		if i%2 == 0 {
			sumEven += uint32(v)
			countEven++
		} else {
			sumOdd += uint32(v)
			countOdd++
		}
	}
	luma = byte(16 + (sum/uint32(len(b)))%220) // keep within TV luma range
	if countEven > 0 {
		cb = byte(sumEven / countEven)
	} else {
		cb = 128
	}
	if countOdd > 0 {
		cr = byte(sumOdd / countOdd)
	} else {
		cr = 128
	}
	return
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
