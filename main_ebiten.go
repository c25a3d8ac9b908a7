//go:build !headless && !bench

// main_ebiten.go - real entry point (spec §6).
//
// Drives the Scheduler off ebiten's own game loop, the same Update/Draw
// split the teacher's video_backend_ebiten.go used for the VM's display,
// generalized to the single 320x240 framebuffer this console presents.

package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

type ebitenApp struct {
	app   *App
	video *ebitenHostVideo
	audio HostAudio
}

func (e *ebitenApp) Update() error {
	fb := e.app.Scheduler.Tick()
	return e.video.PresentFrame(fb)
}

func (e *ebitenApp) Draw(screen *ebiten.Image) {
	screen.DrawImage(e.video.Image(), nil)
}

func (e *ebitenApp) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	video := NewEbitenHostVideo().(*ebitenHostVideo)
	audio := NewOtoHostAudio()
	input := NewEbitenHostInput()

	loader := func(handoff string) {
		fmt.Fprintf(os.Stderr, "frogos: launch handoff %q\n", handoff)
	}

	app, err := NewApp(input, loader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frogos: init failed: %v\n", err)
		os.Exit(1)
	}

	if err := video.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "frogos: video start failed: %v\n", err)
		os.Exit(1)
	}
	defer video.Stop()

	ebiten.SetWindowSize(ScreenWidth*2, ScreenHeight*2)
	ebiten.SetWindowTitle("frogos")

	game := &ebitenApp{app: app, video: video, audio: audio}
	if err := ebiten.RunGame(game); err != nil {
		fmt.Fprintf(os.Stderr, "frogos: %v\n", err)
		os.Exit(1)
	}
}
