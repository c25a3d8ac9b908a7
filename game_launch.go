// game_launch.go - Game launch side channel (spec §6).
//
// The host firmware expects two things from a launch request: a
// formatted handoff string written to a fixed-address region, and a
// direct call into a loader entry point at another fixed address. This
// is generalized from the teacher's MediaLoader/FileIODevice pattern
// (media_loader.go's reqGen-guarded async startPlay/loadAndStart and
// sanitizePathLocked) — same path-traversal sanitization, same
// generation-counter guard against a stale in-flight request clobbering
// a newer one, adapted from an SFX-engine MMIO handoff to a one-shot
// string+pointer handoff.

package main

import (
	"path/filepath"
	"strings"
	"sync"
)

// consoleCoreMap names the libretro core each ROM extension launches
// under, grounded on frogos.c's console_mappings table (a representative
// subset; the original table runs to ~70 entries).
var consoleCoreMap = map[string]string{
	"gb":   "Gambatte",
	"gba":  "gpSP",
	"gbc":  "Gambatte",
	"nes":  "FCEUmm",
	"snes": "Snes9x2005",
	"sega": "PicoDrive",
	"gg":   "Gearsystem",
	"pce":  "Beetle-PCE-Fast",
	"a26":  "Stella2014",
	"col":  "Gearcoleco",
}

// LoaderFunc is the host's fixed-address direct-call loader entry point
// (frogos.c's `direct_loader`, a function pointer into firmware at
// LOADER_ADDR). Receives the formatted handoff string.
type LoaderFunc func(handoff string)

// GameLauncher sanitizes a requested ROM path, resolves its core, and
// invokes the host's LoaderFunc with the formatted handoff string
// (spec §6: `"<core>;<folder>;<name>.gba"` plus a separate
// extension-stripped name).
type GameLauncher struct {
	romsDir string
	loader  LoaderFunc

	mu      sync.Mutex
	reqGen  uint64
	handoff string // last formatted handoff string written to the fixed-address region
	name    string // last extension-stripped name
}

// NewGameLauncher constructs a launcher rooted at romsDir (spec §6:
// "/mnt/sda1/ROMS/<platform>/<file>").
func NewGameLauncher(romsDir string, loader LoaderFunc) *GameLauncher {
	return &GameLauncher{romsDir: romsDir, loader: loader}
}

// Launch resolves relPath (relative to the ROMs directory, e.g.
// "gba/Some Game.gba"), builds the handoff string, and invokes the
// loader. Returns an error without ever calling the loader if the path
// escapes the ROMs directory or its extension has no known core.
func (g *GameLauncher) Launch(relPath string) error {
	folder, name, ok := sanitizeLaunchPath(relPath)
	if !ok {
		return newErr("launch", KindNotFound, relPath, nil)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	core, ok := consoleCoreMap[ext]
	if !ok {
		return newErr("launch", KindFormatUnsupported, ext, nil)
	}
	strippedName := strings.TrimSuffix(name, filepath.Ext(name))

	g.mu.Lock()
	g.reqGen++
	myGen := g.reqGen
	handoff := core + ";" + folder + ";" + strippedName + ".gba"
	g.handoff = handoff
	g.name = strippedName
	g.mu.Unlock()

	if g.loader != nil {
		g.loader(handoff)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if myGen != g.reqGen {
		return nil // superseded by a newer launch request before the loader returned
	}
	return nil
}

// sanitizeLaunchPath rejects absolute paths and traversal, mirroring
// media_loader.go's sanitizePathLocked, then splits the remaining
// relative path into (platform folder, file name).
func sanitizeLaunchPath(relPath string) (folder, name string, ok bool) {
	if filepath.IsAbs(relPath) || strings.Contains(relPath, "..") {
		return "", "", false
	}
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") {
		return "", "", false
	}
	folder = filepath.Dir(clean)
	name = filepath.Base(clean)
	if folder == "." || name == "" {
		return "", "", false
	}
	return folder, name, true
}

// LastHandoff returns the most recently written handoff string and
// extension-stripped name, for tests and diagnostics.
func (g *GameLauncher) LastHandoff() (handoff, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handoff, g.name
}
