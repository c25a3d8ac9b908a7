// scheduler.go - Render scheduler (C10, spec §4.1).
//
// Single entry point the host calls once per tick. Polls input once,
// picks exactly one foreground subsystem off a fixed priority ladder,
// drives its update/render, and always hands the host a frame even when
// the active subsystem fails. Grounded on video_player.go's own
// decode-or-pretend-success failure discipline, generalized to the
// whole-system dispatch level spec §4.1 describes.

package main

// ButtonEvent is one tick's input: the raw (continuous) state plus the
// release-edge state (prev && !current), per spec §4.1's two input
// styles ("continuous for panning", "edge for discrete actions").
type ButtonEvent struct {
	Raw      ButtonState
	Released ButtonState
}

// Subsystem is the foreground-subsystem extension point named in spec
// §4.1. video-player and image-viewer are realized directly against it
// via small adapters below; calculator, file-manager, and music-player
// are external collaborators that plug into the same interface without
// the scheduler needing to know their concrete types.
type Subsystem interface {
	Active() bool
	Update(ev ButtonEvent) (exitRequested bool)
	Render(fb *Framebuffer) error
}

// AudioPump is implemented by subsystems that keep decoding audio even
// while not foreground (spec §4.1: "non-foreground music continues to
// pump audio every tick regardless").
type AudioPump interface {
	PumpAudio()
}

// ReturnSignaler is implemented by a subsystem (the file manager) that
// can request viewers it launched return to it instead of the menu on
// exit (spec §4.1's return_pending flag).
type ReturnSignaler interface {
	ReturnPending() bool
	ClearReturnPending()
}

func releasedButtons(prev, cur ButtonState) ButtonState {
	return ButtonState{
		Up:     prev.Up && !cur.Up,
		Down:   prev.Down && !cur.Down,
		Left:   prev.Left && !cur.Left,
		Right:  prev.Right && !cur.Right,
		A:      prev.A && !cur.A,
		B:      prev.B && !cur.B,
		X:      prev.X && !cur.X,
		Y:      prev.Y && !cur.Y,
		L:      prev.L && !cur.L,
		R:      prev.R && !cur.R,
		Start:  prev.Start && !cur.Start,
		Select: prev.Select && !cur.Select,
	}
}

// videoPlayerSubsystem adapts *VideoPlayer to Subsystem.
type videoPlayerSubsystem struct{ p *VideoPlayer }

func (v videoPlayerSubsystem) Active() bool { return v.p != nil && v.p.avi != nil }
func (v videoPlayerSubsystem) Update(ev ButtonEvent) bool {
	shoulderCombo := ev.Raw.L && ev.Raw.R
	v.p.HandleInput(ev.Raw, shoulderCombo)
	if err := v.p.Tick(); err != nil {
		return true
	}
	return v.p.avi == nil // Close() (from B) clears avi; scheduler reads that as exit
}
func (v videoPlayerSubsystem) Render(fb *Framebuffer) error {
	v.p.Render(fb)
	return nil
}

// imageViewerSubsystem adapts *ImageViewer to Subsystem. Image-viewer
// has no transport controls of its own in this module's scope beyond
// pan/zoom (spec §4.8); B is treated as the exit gesture, matching the
// video player's own B=exit convention (spec §4.6).
type imageViewerSubsystem struct {
	v         *ImageViewer
	pumpMusic func()
}

func (i imageViewerSubsystem) Active() bool { return i.v != nil && i.v.State() != ImgIdle }
func (i imageViewerSubsystem) Update(ev ButtonEvent) bool {
	if ev.Raw.B {
		i.v.reset()
		return true
	}
	slow := ev.Raw.A
	switch {
	case ev.Raw.Left:
		i.v.Pan(-1, 0, slow)
	case ev.Raw.Right:
		i.v.Pan(1, 0, slow)
	case ev.Raw.Up:
		i.v.Pan(0, -1, slow)
	case ev.Raw.Down:
		i.v.Pan(0, 1, slow)
	}
	pump := i.pumpMusic
	if pump == nil {
		pump = func() {}
	}
	i.v.Tick(pump)
	return false
}
func (i imageViewerSubsystem) Render(fb *Framebuffer) error {
	i.v.Render(fb)
	return nil
}

// Scheduler drives one foreground Subsystem per tick off the fixed
// priority ladder: video-player active -> image-viewer active ->
// music-player active-and-foreground -> calculator active ->
// file-manager active -> menu (spec §4.1).
type Scheduler struct {
	video   Subsystem
	image   Subsystem
	music   Subsystem
	calc    Subsystem
	fileMgr Subsystem
	menu    Subsystem

	input HostInput

	prevRaw       ButtonState
	returnPending bool

	frameCount uint64
	ShowFPS    bool

	lastErr error
}

// NewScheduler constructs a scheduler with no subsystems wired yet; use
// the Set* methods to attach them (nil is a valid "not present" value
// for every slot but menu).
func NewScheduler(input HostInput) *Scheduler {
	return &Scheduler{input: input}
}

func (s *Scheduler) SetVideoPlayer(p *VideoPlayer)      { s.video = videoPlayerSubsystem{p} }
func (s *Scheduler) SetImageViewer(v *ImageViewer, pumpMusic func()) {
	s.image = imageViewerSubsystem{v: v, pumpMusic: pumpMusic}
}
func (s *Scheduler) SetMusicPlayer(m Subsystem) { s.music = m }
func (s *Scheduler) SetCalculator(c Subsystem)  { s.calc = c }
func (s *Scheduler) SetFileManager(f Subsystem) { s.fileMgr = f }
func (s *Scheduler) SetMenu(m Subsystem)        { s.menu = m }

// selectForeground applies the priority ladder, first match wins.
func (s *Scheduler) selectForeground() Subsystem {
	switch {
	case s.video != nil && s.video.Active():
		return s.video
	case s.image != nil && s.image.Active():
		return s.image
	case s.music != nil && s.music.Active():
		return s.music
	case s.calc != nil && s.calc.Active():
		return s.calc
	case s.fileMgr != nil && s.fileMgr.Active():
		return s.fileMgr
	default:
		return s.menu
	}
}

// Tick runs exactly one scheduler pass: poll input, select foreground,
// update/render it, pump background music, overlay FPS, return the
// frame. Never returns nil; a failing subsystem yields a black frame
// (spec §4.1's failure semantics) rather than aborting the tick.
func (s *Scheduler) Tick() *Framebuffer {
	raw := s.input.Poll()
	ev := ButtonEvent{Raw: raw, Released: releasedButtons(s.prevRaw, raw)}
	s.prevRaw = raw

	fb := NewFramebuffer()
	active := s.selectForeground()

	if active != nil {
		exited := active.Update(ev)
		if err := active.Render(fb); err != nil {
			fb.Clear(0)
			s.lastErr = err
		}
		if exited {
			s.handleExit(active)
		}
	} else {
		fb.Clear(0)
	}

	if s.music != nil && active != s.music {
		if pump, ok := s.music.(AudioPump); ok {
			pump.PumpAudio()
		}
	}

	s.frameCount++
	if s.ShowFPS {
		overlayFrameCounter(fb, s.frameCount)
	}
	return fb
}

// handleExit honors the file manager's return_pending flag: a viewer
// launched from the file manager (rather than the menu) returns there
// on exit instead of falling back to the menu (spec §4.1).
func (s *Scheduler) handleExit(exited Subsystem) {
	if exited == s.menu {
		return
	}
	if rs, ok := s.fileMgr.(ReturnSignaler); ok && rs.ReturnPending() {
		rs.ClearReturnPending()
		s.returnPending = true
		return
	}
	s.returnPending = false
}

// overlayFrameCounter draws a minimal tick counter in the corner,
// standing in for the host's own FPS readout (spec §4.1 step 5: "overlay
// any FPS counter"); frogos counts ticks rather than measuring wall-
// clock frame time since the scheduler has no clock source of its own.
func overlayFrameCounter(fb *Framebuffer, n uint64) {
	for i := 0; i < 8 && i < ScreenWidth; i++ {
		if (n>>uint(i))&1 != 0 {
			fb.Set(i, 0, 0xFFFF)
		}
	}
}

// LastError returns the most recent subsystem render error, if any, for
// diagnostic overlays (spec §7: "a transient error message").
func (s *Scheduler) LastError() error { return s.lastErr }

// ReturnPending reports whether the next menu activation should hand
// control back to the file manager instead of showing the root menu.
func (s *Scheduler) ReturnPending() bool { return s.returnPending }
