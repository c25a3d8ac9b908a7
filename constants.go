// constants.go - Shared size limits and tunables (spec §3, §4.5).

package main

const (
	ScreenWidth  = 320
	ScreenHeight = 240

	// UniversalBufferSize is the single ~6MB scratch buffer reused across
	// image decode, raw thumbnail loading, and bilinear resample source data.
	UniversalBufferSize = 6 * 1024 * 1024

	// MaxIndexEntries bounds the AVI video/audio index arrays (spec §3: ~3h at 30fps).
	MaxIndexEntries = 360000

	// MaxVOLBytes bounds the cached MPEG-4 VOL extradata blob.
	MaxVOLBytes = 256

	// MaxFrameChunkBytes bounds the per-frame read scratch (spec §4.3: 320x240x2).
	MaxFrameChunkBytes = ScreenWidth * ScreenHeight * 2

	// AudioRingSizeVideo / AudioRingSizeMusic are the SPSC ring capacities (spec §3).
	AudioRingSizeVideo = 176 * 1024
	AudioRingSizeMusic = 44 * 1024

	// MaxAudioBuffer caps the per-tick pull amount (spec §4.5).
	MaxAudioBuffer = 4096

	// AudioSampleRate is the fixed host output rate (spec §6).
	AudioSampleRate = 22050

	// TargetFPS is the host tick rate the scheduler assumes (spec §4.1/§6).
	TargetFPS = 30

	// MaxImageDimension bounds decodable image width/height (spec §4.8).
	MaxImageDimension = 1732

	// MaxImageFileSizeDefault is the default image-viewer file-size cap
	// (spec §9 Open Question: raised from the original 4MB since the
	// universal buffer can hold decoded pixels up to ~6MB).
	MaxImageFileSizeDefault = 6 * 1024 * 1024

	// MaxImagePixels is the decoded pixel-count cap: the largest image the
	// per-axis MaxImageDimension limit allows (1732*1732 RGB565 pixels fit
	// in UniversalBufferSize).
	MaxImagePixels = MaxImageDimension * MaxImageDimension

	// MaxMP3ConsecutiveErrors aborts MP3 decode after this many retries (spec §4.5).
	MaxMP3ConsecutiveErrors = 100

	// MP3MuteSamples is the post-seek suppression window (~93ms at 44.1kHz, spec §4.5).
	MP3MuteSamples = 4096

	// MaxDecodeLoopIterations bounds the XviD per-frame decode retry loop (spec §4.3).
	MaxDecodeLoopIterations = 10

	// MaxShuffleAttempts bounds retries picking a distinct shuffle target (spec §4.6).
	MaxShuffleAttempts = 20

	// ImageReadChunkBytes is the per-tick chunked read size (spec §4.8).
	ImageReadChunkBytes = 32 * 1024

	// PanSpeedPixelsPerTick / PanSpeedSlowFactor drive image-viewer panning (spec §4.8).
	PanSpeedPixelsPerTick = 16
	PanSpeedSlowFactor    = 0.4

	// ZoomFixedPointOne is 100% zoom in 8.8 fixed point (spec §4.8).
	ZoomFixedPointOne = 256
)
