package linker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// Linker places a single file from a source tree into a destination tree
type Linker interface {
	Place(src, dst string) error
	Method() domain.LinkMethod
}

// New creates a linker for the given method
func New(method domain.LinkMethod) Linker {
	switch method {
	case domain.LinkHardlink:
		return NewHardlink()
	default:
		return NewCopy()
	}
}

// PlaceTree walks srcDir and places every regular file at the same relative
// path under dstDir. It returns the placed paths relative to dstDir,
// slash-separated, in walk order. Symlinks inside srcDir are skipped so a
// package cannot point the instance at files outside its own tree.
func PlaceTree(l Linker, srcDir, dstDir string) ([]string, error) {
	var placed []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(dst, 0755)
		case !d.Type().IsRegular():
			return nil
		}

		if err := l.Place(path, dst); err != nil {
			return fmt.Errorf("placing %s: %w", rel, err)
		}
		placed = append(placed, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
