//go:build !headless

// hostinput_ebiten.go - ebiten-backed HostInput (spec §6).
//
// Maps the handheld's physical d-pad/button set onto keyboard keys for
// desktop development builds, the same "what the host actually has"
// translation the teacher does for its special-key forwarding in
// video_backend_ebiten.go, just targeting a fixed button set instead of
// full keyboard passthrough.

package main

import "github.com/hajimehoshi/ebiten/v2"

type ebitenHostInput struct{}

// NewEbitenHostInput constructs the real input backend.
func NewEbitenHostInput() HostInput {
	return &ebitenHostInput{}
}

func (ebitenHostInput) Poll() ButtonState {
	return ButtonState{
		Up:     ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:   ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:  ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		X:      ebiten.IsKeyPressed(ebiten.KeyA),
		Y:      ebiten.IsKeyPressed(ebiten.KeyS),
		L:      ebiten.IsKeyPressed(ebiten.KeyQ),
		R:      ebiten.IsKeyPressed(ebiten.KeyW),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
	}
}
