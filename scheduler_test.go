//go:build headless

package main

import "testing"

type fakeSubsystem struct {
	active   bool
	exitNext bool
	updates  int
	renderFn func(fb *Framebuffer) error
}

func (f *fakeSubsystem) Active() bool { return f.active }
func (f *fakeSubsystem) Update(ev ButtonEvent) bool {
	f.updates++
	return f.exitNext
}
func (f *fakeSubsystem) Render(fb *Framebuffer) error {
	if f.renderFn != nil {
		return f.renderFn(fb)
	}
	return nil
}

type fakeAudioPump struct {
	fakeSubsystem
	pumps int
}

func (f *fakeAudioPump) PumpAudio() { f.pumps++ }

type fakeFileManager struct {
	fakeSubsystem
	pending bool
}

func (f *fakeFileManager) ReturnPending() bool { return f.pending }
func (f *fakeFileManager) ClearReturnPending() { f.pending = false }

func TestScheduler_PriorityLadderPicksHighestActive(t *testing.T) {
	input := &headlessHostInput{}
	s := NewScheduler(input)

	calc := &fakeSubsystem{active: true}
	fileMgr := &fakeFileManager{fakeSubsystem: fakeSubsystem{active: true}}
	menu := &fakeSubsystem{active: true}

	s.SetCalculator(calc)
	s.SetFileManager(fileMgr)
	s.SetMenu(menu)

	s.Tick()
	if calc.updates != 1 {
		t.Fatalf("expected calculator (higher in ladder) to be picked, got calc.updates=%d fileMgr.updates=%d menu.updates=%d",
			calc.updates, fileMgr.updates, menu.updates)
	}
	if fileMgr.updates != 0 || menu.updates != 0 {
		t.Fatal("expected only the highest-priority active subsystem to update")
	}
}

func TestScheduler_FallsBackToMenuWhenNothingElseActive(t *testing.T) {
	input := &headlessHostInput{}
	s := NewScheduler(input)
	menu := &fakeSubsystem{active: true}
	s.SetMenu(menu)
	s.SetCalculator(&fakeSubsystem{active: false})

	s.Tick()
	if menu.updates != 1 {
		t.Fatalf("expected menu to run when nothing else is active, got %d updates", menu.updates)
	}
}

func TestScheduler_NonForegroundMusicStillPumpsAudio(t *testing.T) {
	input := &headlessHostInput{}
	s := NewScheduler(input)
	menu := &fakeSubsystem{active: true}
	music := &fakeAudioPump{fakeSubsystem: fakeSubsystem{active: false}}

	s.SetMenu(menu)
	s.SetMusicPlayer(music)

	s.Tick()
	if music.pumps != 1 {
		t.Fatalf("expected background music to pump audio even while not foreground, got %d pumps", music.pumps)
	}
	if music.updates != 0 {
		t.Fatal("non-foreground music should not receive Update, only PumpAudio")
	}
}

func TestScheduler_FailingRenderYieldsBlackFrameNotAbort(t *testing.T) {
	input := &headlessHostInput{}
	s := NewScheduler(input)
	menu := &fakeSubsystem{
		active: true,
		renderFn: func(fb *Framebuffer) error {
			fb.Clear(0xFFFF) // write something, then fail
			return newErr("test", KindDecodeError, "boom", nil)
		},
	}
	s.SetMenu(menu)

	fb := s.Tick()
	if fb == nil {
		t.Fatal("Tick must never return a nil frame")
	}
	for _, p := range fb.Pixels {
		if p != 0 {
			t.Fatal("expected a failing render to be overwritten with a black frame")
		}
	}
	if s.LastError() == nil {
		t.Fatal("expected LastError to record the render failure")
	}
}

func TestScheduler_ReturnPendingHonoredOnViewerExit(t *testing.T) {
	input := &headlessHostInput{}
	s := NewScheduler(input)
	fileMgr := &fakeFileManager{fakeSubsystem: fakeSubsystem{active: false}, pending: true}
	calc := &fakeSubsystem{active: true, exitNext: true}
	menu := &fakeSubsystem{active: true}

	s.SetCalculator(calc)
	s.SetFileManager(fileMgr)
	s.SetMenu(menu)

	s.Tick()
	if !s.ReturnPending() {
		t.Fatal("expected scheduler to honor the file manager's return_pending flag on viewer exit")
	}
	if fileMgr.pending {
		t.Fatal("expected ClearReturnPending to have been called")
	}
}
