// config.go - display filters and global settings (spec §6).
//
// Two independent key=value stores, both grounded on display_opts.c's
// load/save pair:
//
//   - DisplayOptions: per-folder configs/<folder>/<folder>_display.opt
//     (mode, pattern_count/patternN wildcards, disk1_only).
//   - GlobalConfig: the single ROMS/.frogpmp.cfg carrying
//     color_mode/xvid_black/show_time/show_debug/play_mode.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	maxDisplayPatterns = 4
	maxPatternLen      = 16
)

// DisplayMode mirrors display_opts.h's DisplayMode enum.
type DisplayMode int

const (
	DisplayFilesAndDirs DisplayMode = iota
	DisplayFilesOnly
)

// DisplayOptions is one platform folder's filtering preferences.
type DisplayOptions struct {
	Mode          DisplayMode
	Patterns      []string // up to maxDisplayPatterns wildcards, e.g. "*.zip"
	Disk1Only     bool
	folder        string
	configRoot    string
}

// NewDisplayOptions returns defaults for folder, matching
// display_opts_init/display_opts_load's reset-to-defaults behavior.
func NewDisplayOptions(configRoot, folder string) *DisplayOptions {
	return &DisplayOptions{Mode: DisplayFilesAndDirs, folder: folder, configRoot: configRoot}
}

func (d *DisplayOptions) path() string {
	lower := strings.ToLower(d.folder)
	return filepath.Join(d.configRoot, lower, lower+"_display.opt")
}

// LoadDisplayOptions reads configs/<folder>/<folder>_display.opt. A
// missing file is not an error - it leaves the zero-value defaults in
// place, matching display_opts_load's fopen-fails-silently behavior.
func LoadDisplayOptions(configRoot, folder string) (*DisplayOptions, error) {
	d := NewDisplayOptions(configRoot, folder)

	f, err := os.Open(d.path())
	if err != nil {
		return d, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])

		switch {
		case key == "mode":
			if value == "files_only" {
				d.Mode = DisplayFilesOnly
			} else {
				d.Mode = DisplayFilesAndDirs
			}
		case key == "pattern_count":
			n, _ := strconv.Atoi(value)
			if n < 0 {
				n = 0
			}
			if n > maxDisplayPatterns {
				n = maxDisplayPatterns
			}
			for len(d.Patterns) < n {
				d.Patterns = append(d.Patterns, "")
			}
		case strings.HasPrefix(key, "pattern") && len(key) == len("pattern")+1:
			idx := int(key[len(key)-1] - '0')
			if idx >= 0 && idx < maxDisplayPatterns {
				for len(d.Patterns) <= idx {
					d.Patterns = append(d.Patterns, "")
				}
				if len(value) > maxPatternLen-1 {
					value = value[:maxPatternLen-1]
				}
				d.Patterns[idx] = value
			}
		case key == "disk1_only":
			d.Disk1Only = value == "true"
		}
	}
	return d, nil
}

// Save writes the options back to configs/<folder>/<folder>_display.opt,
// creating the configs directory tree if needed (display_opts_save's
// ensure_directory).
func (d *DisplayOptions) Save() error {
	if err := os.MkdirAll(filepath.Dir(d.path()), 0o755); err != nil {
		return newErr("config", KindIoShort, d.path(), err)
	}
	f, err := os.Create(d.path())
	if err != nil {
		return newErr("config", KindIoShort, d.path(), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# FrogUI Display Options for %s\n", d.folder)
	mode := "files_and_dirs"
	if d.Mode == DisplayFilesOnly {
		mode = "files_only"
	}
	fmt.Fprintf(w, "mode=%s\n", mode)
	fmt.Fprintf(w, "pattern_count=%d\n", len(d.Patterns))
	for i := 0; i < maxDisplayPatterns; i++ {
		p := ""
		if i < len(d.Patterns) {
			p = d.Patterns[i]
		}
		fmt.Fprintf(w, "pattern%d=%s\n", i, p)
	}
	fmt.Fprintf(w, "disk1_only=%s\n", boolToYesNo(d.Disk1Only))
	return w.Flush()
}

func boolToYesNo(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// MatchesPatterns reports whether name matches any of the options'
// wildcard patterns, or is allowed unconditionally if no patterns are set.
func (d *DisplayOptions) MatchesPatterns(name string) bool {
	if len(d.Patterns) == 0 {
		return true
	}
	for _, pat := range d.Patterns {
		if pat == "" {
			continue
		}
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// PixelPacking selects the framebuffer's packing convention (spec §2).
type PixelPacking int

const (
	ColorModeRGB565 PixelPacking = iota
	ColorModeBGR565
)

// GlobalConfig is the ROMS/.frogpmp.cfg key=value store.
type GlobalConfig struct {
	ColorMode PixelPacking
	XvidBlack bool // xvid_black key, loaded and saved; no decode path reads it (frames always convert with TV-range luma)
	ShowTime  bool
	ShowDebug bool
	PlayMode  PlayMode

	path string
}

// DefaultGlobalConfig returns the defaults used when .frogpmp.cfg is
// absent.
func DefaultGlobalConfig(path string) *GlobalConfig {
	return &GlobalConfig{
		ColorMode: ColorModeRGB565,
		PlayMode:  PlayModeRepeat,
		path:      path,
	}
}

// LoadGlobalConfig reads romsDir/.frogpmp.cfg, tolerating a missing
// file by returning the defaults.
func LoadGlobalConfig(romsDir string) (*GlobalConfig, error) {
	path := filepath.Join(romsDir, ".frogpmp.cfg")
	cfg := DefaultGlobalConfig(path)

	f, err := os.Open(path)
	if err != nil {
		return cfg, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])

		switch key {
		case "color_mode":
			if value == "bgr565" {
				cfg.ColorMode = ColorModeBGR565
			} else {
				cfg.ColorMode = ColorModeRGB565
			}
		case "xvid_black":
			cfg.XvidBlack = value == "true"
		case "show_time":
			cfg.ShowTime = value == "true"
		case "show_debug":
			cfg.ShowDebug = value == "true"
		case "play_mode":
			if value == "once" {
				cfg.PlayMode = PlayModeOnce
			} else {
				cfg.PlayMode = PlayModeRepeat
			}
		}
	}
	return cfg, nil
}

// Save writes the config back to its .frogpmp.cfg path.
func (c *GlobalConfig) Save() error {
	f, err := os.Create(c.path)
	if err != nil {
		return newErr("config", KindIoShort, c.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	colorMode := "rgb565"
	if c.ColorMode == ColorModeBGR565 {
		colorMode = "bgr565"
	}
	playMode := "repeat"
	if c.PlayMode == PlayModeOnce {
		playMode = "once"
	}
	fmt.Fprintf(w, "color_mode=%s\n", colorMode)
	fmt.Fprintf(w, "xvid_black=%s\n", boolToYesNo(c.XvidBlack))
	fmt.Fprintf(w, "show_time=%s\n", boolToYesNo(c.ShowTime))
	fmt.Fprintf(w, "show_debug=%s\n", boolToYesNo(c.ShowDebug))
	fmt.Fprintf(w, "play_mode=%s\n", playMode)
	return w.Flush()
}
