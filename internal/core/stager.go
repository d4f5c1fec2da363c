package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// Stager extracts a package into a fixed staging directory it owns for the
// duration of one run
type Stager struct {
	dir       string
	extractor *Extractor
	confirm   Confirmer
}

// NewStager creates a stager that extracts into dir. A pre-existing dir is
// only removed when confirm approves.
func NewStager(dir string, confirm Confirmer) *Stager {
	return &Stager{
		dir:       dir,
		extractor: NewExtractor(),
		confirm:   confirm,
	}
}

// Dir returns the staging directory
func (s *Stager) Dir() string {
	return s.dir
}

// Stage extracts packagePath into the staging directory.
// It fails with domain.ErrNotFound when the package is missing, domain.ErrConflict
// when a stale staging directory exists and removal is declined, and
// domain.ErrFormat when the payload is not a valid archive.
func (s *Stager) Stage(ctx context.Context, packagePath string) (*domain.StagingArea, error) {
	info, err := os.Stat(packagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("package %s: %w", packagePath, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("checking package: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: package %s is a directory", domain.ErrFormat, packagePath)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := claimDir(s.confirm, s.dir, "staging directory"); err != nil {
		return nil, err
	}

	if err := s.extractor.Extract(packagePath, s.dir); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(packagePath)
	if err != nil {
		abs = packagePath
	}
	return &domain.StagingArea{Root: s.dir, PackagePath: abs}, nil
}

// Cleanup removes a staging area
func (s *Stager) Cleanup(area *domain.StagingArea) error {
	if area == nil {
		return nil
	}
	if err := os.RemoveAll(area.Root); err != nil {
		return fmt.Errorf("removing staging directory %s: %w", area.Root, err)
	}
	return nil
}
