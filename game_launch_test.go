package main

import "testing"

func TestGameLauncher_FormatsHandoffString(t *testing.T) {
	var got string
	loader := func(handoff string) { got = handoff }
	g := NewGameLauncher("/mnt/sda1/ROMS", loader)

	if err := g.Launch("gba/Super Game.gba"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	want := "gpSP;gba;Super Game.gba"
	if got != want {
		t.Fatalf("handoff = %q, want %q", got, want)
	}
	handoff, name := g.LastHandoff()
	if handoff != want {
		t.Fatalf("LastHandoff() = %q, want %q", handoff, want)
	}
	if name != "Super Game" {
		t.Fatalf("extension-stripped name = %q, want %q", name, "Super Game")
	}
}

func TestGameLauncher_RejectsPathTraversal(t *testing.T) {
	calls := 0
	loader := func(string) { calls++ }
	g := NewGameLauncher("/mnt/sda1/ROMS", loader)

	if err := g.Launch("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal path to be rejected")
	}
	if calls != 0 {
		t.Fatal("loader must never be invoked for a rejected path")
	}
}

func TestGameLauncher_RejectsAbsolutePath(t *testing.T) {
	g := NewGameLauncher("/mnt/sda1/ROMS", func(string) {})
	if err := g.Launch("/etc/passwd"); err == nil {
		t.Fatal("expected absolute path to be rejected")
	}
}

func TestGameLauncher_RejectsUnknownExtension(t *testing.T) {
	calls := 0
	g := NewGameLauncher("/mnt/sda1/ROMS", func(string) { calls++ })
	if err := g.Launch("weird/game.xyz"); err == nil {
		t.Fatal("expected unknown extension to be rejected")
	}
	if calls != 0 {
		t.Fatal("loader must never be invoked for an unsupported extension")
	}
}
