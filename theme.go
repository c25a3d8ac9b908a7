// theme.go - menu theme loading (spec §6).
//
// Grounded on gfx_theme.c's parse_theme_ini: an INI-style
// THEMES/<name>/theme.ini with [theme]/[general], [layout] and [colors]
// sections. Per gfx_theme.c's v19 note, name= and background= keys in
// [theme]/[general] are intentionally ignored - the theme name comes
// from the folder name, and background images are resolved by a fixed
// path search instead. Resource path resolution (background_anim.avi,
// background_anim.png, per-section and per-platform overlays) follows
// load_background_image's priority order.

package main

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ThemeLayout holds the FrogUI custom [layout] section. Zero values mean
// "not present in theme.ini"; callers fall back to their own defaults,
// matching parse_theme_ini's parse_int(value, DEFAULT_*) pattern.
type ThemeLayout struct {
	PlatformListX, PlatformListYStart, PlatformListYEnd int
	PlatformItemHeight, PlatformVisibleItems             int

	GameListX, GameListYStart, GameListYEnd int
	GameItemHeight, GameVisibleItems        int

	ThumbX, ThumbY, ThumbWidth, ThumbHeight int

	HeaderX, HeaderY int
	LegendX, LegendY int
	CounterX, CounterY int
}

// Theme is a parsed THEMES/<name>/theme.ini plus the resource paths it
// resolves to.
type Theme struct {
	Name string
	Path string

	PlatformTextBackground bool
	GameTextBackground     bool

	GameScreenshotXStart, GameScreenshotXEnd int
	GameScreenshotYStart, GameScreenshotYEnd int

	HasCustomLayout bool
	Layout          ThemeLayout

	HasCustomColors  bool
	BgColor          uint16
	TextColor        uint16
	SelectBgColor    uint16
	SelectTextColor  uint16
}

// LoadTheme parses themeDir/theme.ini, if present, into a Theme rooted
// at themeDir. A missing theme.ini is not an error - the returned Theme
// just carries no custom layout or colors, matching parse_theme_ini's
// fopen-fails-returns-defaults behavior.
func LoadTheme(themeDir string) (*Theme, error) {
	t := &Theme{Name: filepath.Base(themeDir), Path: themeDir}

	f, err := os.Open(filepath.Join(themeDir, "theme.ini"))
	if err != nil {
		return t, nil
	}
	defer f.Close()

	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			if end := strings.IndexByte(line, ']'); end > 0 {
				section = strings.ToLower(line[1:end])
			}
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		value := strings.TrimSpace(line[eq+1:])

		switch section {
		case "theme", "general":
			t.applyGeneralKey(key, value)
		case "layout":
			t.HasCustomLayout = true
			t.applyGeneralKey(key, value) // v22: text-background/screenshot keys also allowed here
			t.applyLayoutKey(key, value)
		case "colors":
			t.applyColorKey(key, value)
		}
	}
	return t, nil
}

func (t *Theme) applyGeneralKey(key, value string) {
	switch key {
	case "platform_text_background":
		t.PlatformTextBackground = parseIniBool(value)
	case "game_text_background":
		t.GameTextBackground = parseIniBool(value)
	case "game_screenshot_x_start":
		t.GameScreenshotXStart = parseIniInt(value, 0)
	case "game_screenshot_x_end":
		t.GameScreenshotXEnd = parseIniInt(value, 0)
	case "game_screenshot_y_start":
		t.GameScreenshotYStart = parseIniInt(value, 0)
	case "game_screenshot_y_end":
		t.GameScreenshotYEnd = parseIniInt(value, 0)
	}
}

func (t *Theme) applyLayoutKey(key, value string) {
	l := &t.Layout
	switch key {
	case "platform_list_x":
		l.PlatformListX = parseIniInt(value, l.PlatformListX)
	case "platform_list_y_start":
		l.PlatformListYStart = parseIniInt(value, l.PlatformListYStart)
	case "platform_list_y_end":
		l.PlatformListYEnd = parseIniInt(value, l.PlatformListYEnd)
	case "platform_item_height":
		l.PlatformItemHeight = parseIniInt(value, l.PlatformItemHeight)
	case "platform_visible_items":
		l.PlatformVisibleItems = parseIniInt(value, l.PlatformVisibleItems)
	case "game_list_x":
		l.GameListX = parseIniInt(value, l.GameListX)
	case "game_list_y_start":
		l.GameListYStart = parseIniInt(value, l.GameListYStart)
	case "game_list_y_end":
		l.GameListYEnd = parseIniInt(value, l.GameListYEnd)
	case "game_item_height":
		l.GameItemHeight = parseIniInt(value, l.GameItemHeight)
	case "game_visible_items":
		l.GameVisibleItems = parseIniInt(value, l.GameVisibleItems)
	case "thumb_x":
		l.ThumbX = parseIniInt(value, l.ThumbX)
	case "thumb_y":
		l.ThumbY = parseIniInt(value, l.ThumbY)
	case "thumb_width":
		l.ThumbWidth = parseIniInt(value, l.ThumbWidth)
	case "thumb_height":
		l.ThumbHeight = parseIniInt(value, l.ThumbHeight)
	case "header_x":
		l.HeaderX = parseIniInt(value, l.HeaderX)
	case "header_y":
		l.HeaderY = parseIniInt(value, l.HeaderY)
	case "legend_x":
		l.LegendX = parseIniInt(value, l.LegendX)
	case "legend_y":
		l.LegendY = parseIniInt(value, l.LegendY)
	case "counter_x":
		l.CounterX = parseIniInt(value, l.CounterX)
	case "counter_y":
		l.CounterY = parseIniInt(value, l.CounterY)
	}
}

func (t *Theme) applyColorKey(key, value string) {
	color, ok := parseHexColor565(value)
	if !ok {
		return
	}
	t.HasCustomColors = true
	switch key {
	case "bg":
		t.BgColor = color
	case "text":
		t.TextColor = color
	case "select_bg":
		t.SelectBgColor = color
	case "select_text":
		t.SelectTextColor = color
	}
}

func parseIniBool(value string) bool {
	n, _ := strconv.Atoi(value)
	return n != 0
}

func parseIniInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// parseHexColor565 parses a "#RRGGBB"-style hex color into packed
// RGB565, mirroring parse_hex_color. An unparseable value reports ok=false
// (parse_hex_color's 0xFFFF sentinel for "no color").
func parseHexColor565(value string) (uint16, bool) {
	value = strings.TrimPrefix(value, "#")
	if len(value) != 6 {
		return 0, false
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, false
	}
	r := uint16((n >> 19) & 0x1F)
	g := uint16((n >> 10) & 0x3F)
	b := uint16((n >> 3) & 0x1F)
	return r<<11 | g<<5 | b, true
}

// BackgroundAnimPath resolves the theme's animated background AVI,
// trying resources/general/background_anim.avi, then
// background_anim.avi in the theme root, then the legacy
// resources/general/background.avi and background.avi names, in that
// order (load_background_image's step 1a-1d). Returns "" if none exist.
func (t *Theme) BackgroundAnimPath() string {
	candidates := []string{
		filepath.Join(t.Path, "resources", "general", "background_anim.avi"),
		filepath.Join(t.Path, "background_anim.avi"),
		filepath.Join(t.Path, "resources", "general", "background.avi"),
		filepath.Join(t.Path, "background.avi"),
	}
	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// BackgroundOverlayPath resolves the transparent overlay PNG composited
// over the main menu's animated background (load_background_image step 2).
func (t *Theme) BackgroundOverlayPath() string {
	p := filepath.Join(t.Path, "resources", "general", "background_anim.png")
	if fileExists(p) {
		return p
	}
	return ""
}

// SectionOverlayPath resolves the per-section overlay PNG composited
// over the animated background while browsing inside a platform folder.
func (t *Theme) SectionOverlayPath() string {
	p := filepath.Join(t.Path, "resources", "sections", "background_anim.png")
	if fileExists(p) {
		return p
	}
	return ""
}

// LogoPath resolves the FrogUI logo shown on the main menu.
func (t *Theme) LogoPath() string {
	p := filepath.Join(t.Path, "resources", "general", "frogui_logo.png")
	if fileExists(p) {
		return p
	}
	return ""
}

// PlatformLogoPath resolves a per-platform logo, e.g.
// resources/<platform>/logo.png.
func (t *Theme) PlatformLogoPath(platform string) string {
	p := filepath.Join(t.Path, "resources", platform, "logo.png")
	if fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ListThemes lists subdirectories of themesRoot containing a theme.ini,
// sorted case-insensitively.
func ListThemes(themesRoot string) ([]string, error) {
	des, err := os.ReadDir(themesRoot)
	if err != nil {
		return nil, newErr("theme", KindNotFound, themesRoot, err)
	}
	var names []string
	for _, de := range des {
		if !de.IsDir() {
			continue
		}
		if fileExists(filepath.Join(themesRoot, de.Name(), "theme.ini")) {
			names = append(names, de.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}
