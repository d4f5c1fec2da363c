package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Cache manages downloaded modloader installers so repeated installs of the
// same loader do not download the installer again
type Cache struct {
	basePath string
}

// Entry describes one cached installer
type Entry struct {
	Name    string
	Version string
	Path    string
	Size    int64
}

// New creates a new cache manager
func New(basePath string) *Cache {
	return &Cache{basePath: basePath}
}

// BasePath returns the cache root
func (c *Cache) BasePath() string {
	return c.basePath
}

// InstallerPath returns the path where an installer version's jar is stored
func (c *Cache) InstallerPath(name, version string) string {
	return filepath.Join(c.basePath, "installers", name, version, fmt.Sprintf("%s-%s.jar", name, version))
}

// Exists checks if an installer version is cached
func (c *Cache) Exists(name, version string) bool {
	info, err := os.Stat(c.InstallerPath(name, version))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Delete removes a cached installer version
func (c *Cache) Delete(name, version string) error {
	if err := os.RemoveAll(filepath.Dir(c.InstallerPath(name, version))); err != nil {
		return fmt.Errorf("deleting cached installer: %w", err)
	}
	return nil
}

// List returns all cached installers sorted by name then version
func (c *Cache) List() ([]Entry, error) {
	root := filepath.Join(c.basePath, "installers")

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".jar" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: parts[0], Version: parts[1], Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing cached installers: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Version < entries[j].Version
	})
	return entries, nil
}

// Size returns the total size of cached installers
func (c *Cache) Size() (int64, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total, nil
}

// Clean removes every cached installer
func (c *Cache) Clean() error {
	if err := os.RemoveAll(filepath.Join(c.basePath, "installers")); err != nil {
		return fmt.Errorf("cleaning cache: %w", err)
	}
	return nil
}
