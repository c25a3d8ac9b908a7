// video_player.go - Full-screen video playback UI (C8, spec §4.6).
//
// Wraps the AVI demuxer, XviD pipeline, YUV conversion, and audio mixer
// behind a Playing/Paused/Menu state machine with seek, play-mode
// end-of-stream handling, and a Locked flag that suppresses all input
// but the shoulder-button combo that set it. Grounded on the teacher's
// media_loader.go resume-state pattern (remembering the last path so a
// reopen picks up where it left off) generalized from ROM load state to
// (path, frame index).

package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PlayerState is the C8 top-level state machine (spec §4.6).
type PlayerState int

const (
	PlayerPlaying PlayerState = iota
	PlayerPaused
	PlayerMenu
)

// PlayMode governs end-of-stream behavior (spec §4.6).
type PlayMode int

const (
	PlayModeRepeat PlayMode = iota
	PlayModeOnce
	PlayModeAZ
	PlayModeShuffle
)

// IconFlash names the one-second icon shown after a playback action
// (spec §4.6: "flashes a centered visual icon for one second").
type IconFlash int

const (
	IconNone IconFlash = iota
	IconSeekForward
	IconSeekBack
	IconJumpForward
	IconJumpBack
	IconPause
	IconPlay
)

// VideoPlayer drives one open AVI through playback, grounded on the
// teacher's single-owner-per-resource convention (spec §3, §5).
type VideoPlayer struct {
	avi     *AVIFile
	path    string
	dir     string
	xvid    *XvidDecoder
	mixer   *AudioMixer
	audioDec audioChunkDecoder

	state    PlayerState
	mode     PlayMode
	locked   bool
	frameIdx int

	repeatCounter int

	iconFlash     IconFlash
	iconTicksLeft int

	lastFrame *Framebuffer

	resume map[string]int // path -> last frame index, process-lifetime (spec §3: "Close ... persists in memory")
}

// NewVideoPlayer constructs an idle player with an empty resume table.
func NewVideoPlayer() *VideoPlayer {
	return &VideoPlayer{resume: make(map[string]int)}
}

// Open opens path, resuming at the remembered frame index if this path
// was previously closed (spec §8: "open;close() followed by open()
// restores frame_index ... when play-mode is Repeat or Once").
func (p *VideoPlayer) Open(path string) error {
	avi, err := OpenAVI(path)
	if err != nil {
		return err
	}
	p.avi = avi
	p.path = path
	p.dir = filepath.Dir(path)
	p.xvid = NewXvidDecoder(avi.Width, avi.Height)
	p.audioDec = newAudioDecoderFor(avi)
	ringSize := uint32(AudioRingSizeVideo)
	p.mixer = NewAudioMixer(p.audioDec, NewAudioRing(ringSize), avi.AudioSampleRate, avi.FPS)

	p.frameIdx = 0
	if last, ok := p.resume[path]; ok && (p.mode == PlayModeRepeat || p.mode == PlayModeOnce) {
		p.frameIdx = clampInt(last, 0, maxSeekFrame(avi))
	}
	p.repeatCounter = 0
	p.state = PlayerPlaying
	return nil
}

// newAudioDecoderFor picks the right C2 decoder for the stream's
// wFormatTag (spec §4.2).
func newAudioDecoderFor(avi *AVIFile) audioChunkDecoder {
	switch avi.AudioFormat {
	case AudioFormatADPCM:
		return NewADPCMDecoder(avi)
	case AudioFormatMP3:
		return NewMP3Decoder(avi)
	default:
		return NewPCMDecoder(avi)
	}
}

// Close releases resources and remembers (path, frameIdx) for resume.
func (p *VideoPlayer) Close() {
	if p.avi == nil {
		return
	}
	p.resume[p.path] = p.frameIdx
	p.avi.Close()
	p.avi = nil
}

func maxSeekFrame(avi *AVIFile) int {
	max := avi.TotalFrames() - 2*avi.FPS
	if max < 0 {
		max = 0
	}
	return max
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HandleInput applies one tick's button state, honoring Locked (spec
// §4.6: "suppresses all input except that same combo").
func (p *VideoPlayer) HandleInput(btn ButtonState, shoulderCombo bool) {
	if p.locked {
		if shoulderCombo {
			p.locked = false
		}
		return
	}
	if shoulderCombo {
		p.locked = true
		return
	}

	switch {
	case btn.Left:
		p.seekSeconds(-15)
		p.flashIcon(IconSeekBack)
	case btn.Right:
		p.seekSeconds(15)
		p.flashIcon(IconSeekForward)
	case btn.Up:
		p.seekSeconds(60)
		p.flashIcon(IconJumpForward)
	case btn.Down:
		p.seekSeconds(-60)
		p.flashIcon(IconJumpBack)
	case btn.A:
		p.TogglePause()
	case btn.Start:
		p.state = PlayerMenu
	case btn.B:
		p.Close()
	}
}

func (p *VideoPlayer) flashIcon(icon IconFlash) {
	p.iconFlash = icon
	p.iconTicksLeft = TargetFPS // one second at the scheduler's target rate
}

// TogglePause flips Playing<->Paused; seeks never leave Playing (spec
// §4.6), so this is the only other state transition besides Menu/B-exit.
func (p *VideoPlayer) TogglePause() {
	switch p.state {
	case PlayerPlaying:
		p.state = PlayerPaused
		p.flashIcon(IconPause)
	case PlayerPaused:
		p.state = PlayerPlaying
		p.flashIcon(IconPlay)
	}
}

// seekSeconds applies a relative seek in seconds, clamping to
// [0, total_frames - 2*fps] and rearming the post-seek mute window
// (spec §4.6).
func (p *VideoPlayer) seekSeconds(deltaSec int) {
	if p.avi == nil {
		return
	}
	deltaFrames := deltaSec * p.avi.FPS
	target := clampInt(p.frameIdx+deltaFrames, 0, maxSeekFrame(p.avi))
	p.seekToFrame(target)
}

func (p *VideoPlayer) seekToFrame(target int) {
	p.frameIdx = target
	p.repeatCounter = 0
	// Enough mute ticks to cover MP3MuteSamples (~93ms at 44.1kHz).
	muteTicks := 1
	if p.avi.AudioSampleRate > 0 {
		muteTicks = (MP3MuteSamples*p.avi.FPS + p.avi.AudioSampleRate - 1) / p.avi.AudioSampleRate
	}
	p.mixer.Seek(target, muteTicks)
	p.repositionAudioCursor(target)
}

// repositionAudioCursor recomputes the audio decoder's cursor for the
// new video position, per format (spec §4.6).
func (p *VideoPlayer) repositionAudioCursor(targetFrame int) {
	switch dec := p.audioDec.(type) {
	case *PCMDecoder:
		bytesPerSample := dec.bitsPerSample / 8
		targetSec := float64(targetFrame) / float64(p.avi.FPS)
		byteOffset := int64(targetSec * float64(p.avi.AudioSampleRate) * float64(bytesPerSample*dec.channels))
		dec.SeekBytes(byteOffset)
	case *ADPCMDecoder:
		targetSec := float64(targetFrame) / float64(p.avi.FPS)
		targetSamples := int(targetSec * float64(p.avi.AudioSampleRate))
		if dec.samplesPerBlock > 0 {
			dec.chunkIdx = targetSamples / dec.samplesPerBlock
		}
	case *MP3Decoder:
		samplesPerFrame := 576
		if p.avi.AudioSampleRate >= 32000 {
			samplesPerFrame = 1152
		}
		targetSec := float64(targetFrame) / float64(p.avi.FPS)
		targetSamples := int(targetSec * float64(p.avi.AudioSampleRate))
		dec.feeder.chunkIdx = targetSamples / samplesPerFrame
		if dec.feeder.chunkIdx > len(p.avi.Index.AudioOffsets) {
			dec.feeder.chunkIdx = len(p.avi.Index.AudioOffsets)
		}
	}
}

// Tick advances playback by one frame tick (spec §4.3's repeat-count
// upsampling applies here): decodes a new source frame only when the
// repeat counter wraps to zero, otherwise redisplays the last frame.
func (p *VideoPlayer) Tick() error {
	if p.iconTicksLeft > 0 {
		p.iconTicksLeft--
		if p.iconTicksLeft == 0 {
			p.iconFlash = IconNone
		}
	}
	if p.avi == nil {
		return nil
	}
	if p.state != PlayerPlaying {
		p.mixer.Tick(p.frameIdx)
		return nil
	}

	if p.repeatCounter == 0 {
		if err := p.decodeCurrentFrame(); err != nil {
			return err
		}
		if p.frameIdx+1 >= p.avi.TotalFrames() {
			p.handleEndOfStream()
		} else {
			p.frameIdx++
		}
	}
	p.repeatCounter = (p.repeatCounter + 1) % max1(p.avi.RepeatCount)
	p.mixer.Tick(p.frameIdx)
	return nil
}

func (p *VideoPlayer) decodeCurrentFrame() error {
	chunk, err := p.avi.ReadFrameChunk(p.frameIdx, nil)
	if err != nil {
		return nil // video pretends success on decode error (spec §7)
	}
	if len(p.avi.VOL) > 0 {
		p.xvid.SendVOL(p.avi.VOL)
	}
	frame, err := p.xvid.DecodeFrame(chunk)
	if err != nil {
		return nil // next tick retries (spec §4.3 step 4)
	}
	fb := NewFramebuffer()
	ConvertYUVToRGB565(frame, fb, ModeUnchanged, true)
	p.lastFrame = fb
	return nil
}

// handleEndOfStream applies the active play mode (spec §4.6).
func (p *VideoPlayer) handleEndOfStream() {
	switch p.mode {
	case PlayModeRepeat:
		p.frameIdx = 0
		p.repeatCounter = 0
		if p.xvid != nil {
			p.xvid = NewXvidDecoder(p.avi.Width, p.avi.Height)
		}
		p.audioDec.Reset()
		p.mixer.Seek(0, 0)
	case PlayModeOnce:
		p.state = PlayerPaused
	case PlayModeAZ:
		p.advanceDirectory(1)
	case PlayModeShuffle:
		p.advanceShuffle()
	}
}

// advanceDirectory closes the current file, lists sibling .avi files
// case-insensitively sorted, and opens the successor (direction +1 or
// -1), per spec §4.6's Play A-Z mode.
func (p *VideoPlayer) advanceDirectory(direction int) {
	entries, err := listAVIFiles(p.dir)
	if err != nil || len(entries) == 0 {
		p.state = PlayerPaused
		return
	}
	cur := filepath.Base(p.path)
	idx := indexOfCI(entries, cur)
	next := (idx + direction + len(entries)) % len(entries)
	p.Close()
	p.Open(filepath.Join(p.dir, entries[next]))
}

func listAVIFiles(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, de := range des {
		if !de.IsDir() && strings.EqualFold(filepath.Ext(de.Name()), ".avi") {
			out = append(out, de.Name())
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out, nil
}

func indexOfCI(entries []string, name string) int {
	for i, e := range entries {
		if strings.EqualFold(e, name) {
			return i
		}
	}
	return 0
}

// advanceShuffle picks a random sibling different from the current
// file, up to MaxShuffleAttempts tries, per spec §4.6.
func (p *VideoPlayer) advanceShuffle() {
	entries, err := listAVIFiles(p.dir)
	if err != nil || len(entries) == 0 {
		p.state = PlayerPaused
		return
	}
	cur := filepath.Base(p.path)
	pick := entries[0]
	for attempt := 0; attempt < MaxShuffleAttempts; attempt++ {
		candidate := entries[shuffleIndex(attempt, len(entries))]
		if !strings.EqualFold(candidate, cur) || len(entries) == 1 {
			pick = candidate
			break
		}
	}
	p.Close()
	p.Open(filepath.Join(p.dir, pick))
}

// shuffleIndex is a deterministic stand-in for a host-provided RNG call
// (spec leaves the entropy source to the host; the selection policy —
// "up to 20 attempts, must differ from current" — is what's specified).
func shuffleIndex(attempt, n int) int {
	return (attempt*2654435761 + 1) % n
}

// State, Mode, Locked, FrameIndex, IconFlash expose read-only playback
// status for the render scheduler / UI overlay.
func (p *VideoPlayer) State() PlayerState  { return p.state }
func (p *VideoPlayer) Mode() PlayMode      { return p.mode }
func (p *VideoPlayer) Locked() bool        { return p.locked }
func (p *VideoPlayer) FrameIndex() int     { return p.frameIdx }
func (p *VideoPlayer) Icon() IconFlash     { return p.iconFlash }
func (p *VideoPlayer) SetMode(m PlayMode)  { p.mode = m }

// Render draws the last converted frame into fb, or black if none yet
// (spec §4.1: "a subsystem that fails to render returns a black
// framebuffer").
func (p *VideoPlayer) Render(fb *Framebuffer) {
	if p.lastFrame == nil {
		fb.Clear(0)
		return
	}
	copy(fb.Pixels[:], p.lastFrame.Pixels[:])
}
