package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// HardlinkLinker places files using hard links. The link keeps the file alive
// after the staging tree is removed, so instances stay self-contained.
type HardlinkLinker struct {
	fallback *CopyLinker
}

// NewHardlink creates a new hardlink linker
func NewHardlink() *HardlinkLinker {
	return &HardlinkLinker{fallback: NewCopy()}
}

// Place creates a hard link from src to dst. When src and dst are on different
// filesystems the file is copied instead.
func (l *HardlinkLinker) Place(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing file: %w", err)
	}

	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return l.fallback.Place(src, dst)
		}
		return fmt.Errorf("creating hardlink: %w", err)
	}

	return nil
}

// Method returns the link method
func (l *HardlinkLinker) Method() domain.LinkMethod {
	return domain.LinkHardlink
}
