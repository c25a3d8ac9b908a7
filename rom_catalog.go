// rom_catalog.go - ROMs directory catalog (spec §6).
//
// Scans /mnt/sda1/ROMS/<platform>/<file>, grouped by platform folder,
// suppressing folders known to be empty via a small flat cache file
// (configs/frogui_empty_dirs.cache) so navigation doesn't re-stat every
// folder on every menu entry. Grounded on frogos.c's
// load_empty_dirs_cache/rebuild_empty_dirs_cache pair: same skip list
// (dotfiles, "frogui", "saves", "save"), same one-name-per-line flat
// file, same rebuild-on-miss behavior.

package main

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var skipPlatformFolders = map[string]bool{
	"frogui": true,
	"saves":  true,
	"save":   true,
}

// Platform is one ROMs subdirectory and the files found in it.
type Platform struct {
	Name  string
	Files []string
}

// RomCatalog scans a ROMs root directory and caches which platform
// folders are empty.
type RomCatalog struct {
	romsDir   string
	cachePath string
}

// NewRomCatalog constructs a catalog rooted at romsDir, with its empty-
// folder cache at cachePath (spec §6:
// "configs/frogui_empty_dirs.cache").
func NewRomCatalog(romsDir, cachePath string) *RomCatalog {
	return &RomCatalog{romsDir: romsDir, cachePath: cachePath}
}

// Scan lists platform folders under the ROMs root, skipping ones the
// empty-dirs cache already knows are empty, and returns each non-empty
// folder's file list sorted case-insensitively.
func (c *RomCatalog) Scan() ([]Platform, error) {
	empty, err := c.loadEmptyDirsCache()
	if err != nil {
		empty, err = c.rebuildEmptyDirsCache()
		if err != nil {
			return nil, err
		}
	}

	des, err := os.ReadDir(c.romsDir)
	if err != nil {
		return nil, newErr("catalog", KindNotFound, c.romsDir, err)
	}

	var platforms []Platform
	for _, de := range des {
		name := de.Name()
		if !de.IsDir() || strings.HasPrefix(name, ".") || skipPlatformFolders[strings.ToLower(name)] {
			continue
		}
		if empty[strings.ToLower(name)] {
			continue
		}
		files, err := listPlatformFiles(filepath.Join(c.romsDir, name))
		if err != nil || len(files) == 0 {
			continue
		}
		platforms = append(platforms, Platform{Name: name, Files: files})
	}
	sort.Slice(platforms, func(i, j int) bool {
		return strings.ToLower(platforms[i].Name) < strings.ToLower(platforms[j].Name)
	})
	return platforms, nil
}

func listPlatformFiles(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, de := range des {
		if !de.IsDir() && !strings.HasPrefix(de.Name(), ".") {
			files = append(files, de.Name())
		}
	}
	sort.Slice(files, func(i, j int) bool { return strings.ToLower(files[i]) < strings.ToLower(files[j]) })
	return files, nil
}

// loadEmptyDirsCache reads the flat cache file, one lowercased folder
// name per line.
func (c *RomCatalog) loadEmptyDirsCache() (map[string]bool, error) {
	f, err := os.Open(c.cachePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	empty := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			empty[strings.ToLower(name)] = true
		}
	}
	return empty, nil
}

// rebuildEmptyDirsCache rescans the ROMs root for directories with no
// non-dotfile content and writes the result back to the cache file.
func (c *RomCatalog) rebuildEmptyDirsCache() (map[string]bool, error) {
	empty := make(map[string]bool)
	des, err := os.ReadDir(c.romsDir)
	if err != nil {
		return nil, newErr("catalog", KindNotFound, c.romsDir, err)
	}

	var names []string
	for _, de := range des {
		name := de.Name()
		if !de.IsDir() || strings.HasPrefix(name, ".") || skipPlatformFolders[strings.ToLower(name)] {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(c.romsDir, name))
		if err != nil {
			continue
		}
		hasContent := false
		for _, s := range sub {
			if !strings.HasPrefix(s.Name(), ".") {
				hasContent = true
				break
			}
		}
		if !hasContent {
			empty[strings.ToLower(name)] = true
			names = append(names, name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err == nil {
		f, err := os.Create(c.cachePath)
		if err == nil {
			w := bufio.NewWriter(f)
			for _, n := range names {
				w.WriteString(n + "\n")
			}
			w.Flush()
			f.Close()
		}
	}
	return empty, nil
}
