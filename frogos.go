// frogos.go - top-level wiring for the frogos launcher (spec §6).
//
// Builds the Scheduler and its subsystems from a ROMS root directory,
// the way frogos.c's own init path threads MediaLoader/RomCatalog/
// GfxTheme together before entering its event loop. The menu itself
// (platform/game list, calculator, on-screen keyboard, text editor,
// favorites, file manager) is an external collaborator per spec §1's
// Non-goals; menuSubsystem here is the minimal built-in stand-in that
// lets a ROMS tree actually be browsed and launched end to end without
// those surfaces.

package main

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	romsRoot    = "/mnt/sda1/ROMS"
	configsRoot = "/mnt/sda1/configs"
	themesRoot  = "/mnt/sda1/THEMES"
)

var mediaExtensions = map[string]bool{
	".avi": true,
}
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".gif": true, ".webp": true,
}

// App owns every long-lived subsystem and the Scheduler that dispatches
// across them.
type App struct {
	Scheduler *Scheduler

	video    *VideoPlayer
	imageVwr *ImageViewer
	launcher *GameLauncher
	catalog  *RomCatalog
	config   *GlobalConfig
	theme    *Theme
	bg       *BackgroundAnim
	menu     *menuSubsystem
}

// NewApp wires every SPEC_FULL.md subsystem against a ROMS root,
// applying the global config and the active theme's resources.
func NewApp(input HostInput, loader LoaderFunc) (*App, error) {
	cfg, err := LoadGlobalConfig(romsRoot)
	if err != nil {
		return nil, err
	}

	themeName := "default"
	if names, err := ListThemes(themesRoot); err == nil && len(names) > 0 {
		themeName = names[0]
	}
	theme, err := LoadTheme(filepath.Join(themesRoot, themeName))
	if err != nil {
		return nil, err
	}

	catalog := NewRomCatalog(romsRoot, filepath.Join(configsRoot, "frogui_empty_dirs.cache"))
	video := NewVideoPlayer()
	imageVwr := &ImageViewer{}
	launcher := NewGameLauncher(romsRoot, loader)

	var bg *BackgroundAnim
	if aviPath := theme.BackgroundAnimPath(); aviPath != "" {
		bg, _ = OpenBackgroundAnim(aviPath, theme.BackgroundOverlayPath(), theme.SectionOverlayPath())
	}

	menu := newMenuSubsystem(catalog, launcher, video, imageVwr, bg)

	sched := NewScheduler(input)
	sched.SetVideoPlayer(video)
	sched.SetImageViewer(imageVwr, nil)
	sched.SetMenu(menu)
	sched.ShowFPS = cfg.ShowDebug

	return &App{
		Scheduler: sched,
		video:     video,
		imageVwr:  imageVwr,
		launcher:  launcher,
		catalog:   catalog,
		config:    cfg,
		theme:     theme,
		bg:        bg,
		menu:      menu,
	}, nil
}

// menuSubsystem is the minimal built-in root screen: it lists platform
// folders and, inside one, the ROM/media files found there, launching
// whichever kind of file is selected through the right subsystem. A
// full interactive on-screen UI (fonts, scrolling lists, the
// calculator/OSK/text-editor/favorites/file-manager surfaces) is out of
// scope per spec §1; this just makes the wiring end-to-end reachable.
type menuSubsystem struct {
	catalog  *RomCatalog
	launcher *GameLauncher
	video    *VideoPlayer
	imageVwr *ImageViewer
	bg       *BackgroundAnim

	platforms   []Platform
	platformIdx int
	fileIdx     int
	inPlatform  bool
}

func newMenuSubsystem(catalog *RomCatalog, launcher *GameLauncher, video *VideoPlayer, imageVwr *ImageViewer, bg *BackgroundAnim) *menuSubsystem {
	m := &menuSubsystem{catalog: catalog, launcher: launcher, video: video, imageVwr: imageVwr, bg: bg}
	m.rescan()
	return m
}

func (m *menuSubsystem) rescan() {
	platforms, err := m.catalog.Scan()
	if err != nil {
		platforms = nil
	}
	sort.Slice(platforms, func(i, j int) bool {
		return strings.ToLower(platforms[i].Name) < strings.ToLower(platforms[j].Name)
	})
	m.platforms = platforms
}

// Active is always true: the menu is the fallback at the bottom of the
// scheduler's priority ladder (spec §4.1).
func (m *menuSubsystem) Active() bool { return true }

func (m *menuSubsystem) Update(ev ButtonEvent) bool {
	if m.bg != nil {
		navDepth := 0
		if m.inPlatform {
			navDepth = 1
		}
		m.bg.SetNavDepth(navDepth)
		m.bg.Tick()
	}

	if len(m.platforms) == 0 {
		return false
	}

	if !m.inPlatform {
		switch {
		case ev.Released.Down:
			m.platformIdx = (m.platformIdx + 1) % len(m.platforms)
		case ev.Released.Up:
			m.platformIdx = (m.platformIdx - 1 + len(m.platforms)) % len(m.platforms)
		case ev.Released.A:
			m.inPlatform = true
			m.fileIdx = 0
		}
		return false
	}

	files := m.platforms[m.platformIdx].Files
	switch {
	case ev.Released.B:
		m.inPlatform = false
	case ev.Released.Down && len(files) > 0:
		m.fileIdx = (m.fileIdx + 1) % len(files)
	case ev.Released.Up && len(files) > 0:
		m.fileIdx = (m.fileIdx - 1 + len(files)) % len(files)
	case ev.Released.A && len(files) > 0:
		m.openSelection(files[m.fileIdx])
	}
	return false
}

func (m *menuSubsystem) openSelection(name string) {
	platform := m.platforms[m.platformIdx].Name
	rel := filepath.Join(platform, name)
	ext := strings.ToLower(filepath.Ext(name))
	full := filepath.Join(romsRoot, rel)

	switch {
	case mediaExtensions[ext]:
		m.video.Open(full)
	case imageExtensions[ext]:
		m.imageVwr.Open(full, UniversalBufferSize)
	default:
		m.launcher.Launch(rel)
	}
}

func (m *menuSubsystem) Render(fb *Framebuffer) error {
	if m.bg != nil {
		m.bg.Render(fb)
	} else {
		fb.Clear(0)
	}
	return nil
}
