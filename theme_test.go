package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeThemeIni(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "theme.ini"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTheme_ParsesLayoutAndColorsSections(t *testing.T) {
	dir := t.TempDir()
	writeThemeIni(t, dir, `
; sample theme
[theme]
name=IgnoredName
platform_text_background=1

[layout]
platform_list_x=10
platform_list_y_start=20
thumb_width=64
thumb_height=64

[colors]
bg=#FF0000
text=#00FF00
`)

	theme, err := LoadTheme(dir)
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if theme.Name != filepath.Base(dir) {
		t.Fatalf("theme name should come from folder, not theme.ini's name= key")
	}
	if !theme.PlatformTextBackground {
		t.Fatal("expected platform_text_background=1 to be honored")
	}
	if !theme.HasCustomLayout {
		t.Fatal("expected HasCustomLayout after a [layout] section")
	}
	if theme.Layout.PlatformListX != 10 || theme.Layout.PlatformListYStart != 20 {
		t.Fatalf("layout = %+v, want x=10 y_start=20", theme.Layout)
	}
	if theme.Layout.ThumbWidth != 64 || theme.Layout.ThumbHeight != 64 {
		t.Fatalf("thumb dims = %dx%d, want 64x64", theme.Layout.ThumbWidth, theme.Layout.ThumbHeight)
	}
	if !theme.HasCustomColors {
		t.Fatal("expected HasCustomColors after a [colors] section")
	}
	if theme.BgColor == 0 {
		t.Fatal("expected bg color to be parsed to a nonzero RGB565 value")
	}
}

func TestLoadTheme_MissingIniIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	theme, err := LoadTheme(dir)
	if err != nil {
		t.Fatalf("LoadTheme should tolerate a missing theme.ini: %v", err)
	}
	if theme.HasCustomLayout || theme.HasCustomColors {
		t.Fatal("expected no custom layout/colors without a theme.ini")
	}
}

func TestTheme_BackgroundAnimPathPriorityOrder(t *testing.T) {
	dir := t.TempDir()
	theme := &Theme{Path: dir}
	if got := theme.BackgroundAnimPath(); got != "" {
		t.Fatalf("expected no background anim path, got %q", got)
	}

	legacyRoot := filepath.Join(dir, "background.avi")
	if err := os.WriteFile(legacyRoot, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := theme.BackgroundAnimPath(); got != legacyRoot {
		t.Fatalf("path = %q, want legacy root background.avi", got)
	}

	generalDir := filepath.Join(dir, "resources", "general")
	if err := os.MkdirAll(generalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	preferred := filepath.Join(generalDir, "background_anim.avi")
	if err := os.WriteFile(preferred, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := theme.BackgroundAnimPath(); got != preferred {
		t.Fatalf("path = %q, want preferred resources/general/background_anim.avi over legacy", got)
	}
}

func TestListThemes_OnlyReturnsFoldersWithThemeIni(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"Classic", "NoIni"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeThemeIni(t, filepath.Join(root, "Classic"), "[theme]\n")

	names, err := ListThemes(root)
	if err != nil {
		t.Fatalf("ListThemes: %v", err)
	}
	if len(names) != 1 || names[0] != "Classic" {
		t.Fatalf("names = %v, want [Classic]", names)
	}
}
