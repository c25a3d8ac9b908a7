//go:build headless

// main_headless.go - headless entry point for tests and CI (spec §6).
//
// Ticks the scheduler a fixed number of times against the headless host
// backends and exits; no real display, audio, or input device is ever
// opened. Mirrors hostvideo_headless.go's "keep the real backend's
// constructor name so callers don't need a build-tag switch" approach.

package main

import "fmt"

func main() {
	input := NewEbitenHostInput().(*headlessHostInput)
	video := NewEbitenHostVideo().(*headlessHostVideo)

	loader := func(handoff string) {
		fmt.Printf("frogos: launch handoff %q\n", handoff)
	}

	app, err := NewApp(input, loader)
	if err != nil {
		fmt.Printf("frogos: init failed: %v\n", err)
		return
	}
	video.Start()
	defer video.Stop()

	for i := 0; i < 60; i++ {
		fb := app.Scheduler.Tick()
		video.PresentFrame(fb)
	}
}
