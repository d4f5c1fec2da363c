package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/linker"
)

// InstanceBuilder turns a staged package into a standalone instance directory
type InstanceBuilder struct {
	linker  linker.Linker
	confirm Confirmer
}

// NewInstanceBuilder creates a builder placing override files with l.
// A nil linker copies.
func NewInstanceBuilder(l linker.Linker, confirm Confirmer) *InstanceBuilder {
	if l == nil {
		l = linker.NewCopy()
	}
	return &InstanceBuilder{linker: l, confirm: confirm}
}

// Create makes a fresh instance directory at dir holding the package's
// override trees; client overrides are applied last. An existing dir is only
// replaced when the confirmer approves, otherwise domain.ErrConflict is returned.
func (b *InstanceBuilder) Create(ctx context.Context, area *domain.StagingArea, dir string) (*domain.Instance, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving instance directory: %w", err)
	}

	if err := claimDir(b.confirm, root, "instance directory"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating instance directory: %w", err)
	}

	for _, tree := range []string{domain.OverridesDir, domain.ClientOverridesDir} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src := filepath.Join(area.Root, tree)
		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", tree, err)
		}
		if !info.IsDir() {
			continue
		}

		if _, err := linker.PlaceTree(b.linker, src, root); err != nil {
			return nil, fmt.Errorf("applying %s: %w", tree, err)
		}
	}

	return &domain.Instance{Root: root}, nil
}

// Seal checks that every client-side manifest file was fetched and records the
// file list on the instance
func (b *InstanceBuilder) Seal(inst *domain.Instance, manifest *domain.Manifest, report *FetchReport) error {
	if err := report.Err(); err != nil {
		return err
	}

	fetched := make(map[string]bool, len(report.Succeeded))
	for _, p := range report.Succeeded {
		fetched[p] = true
	}

	var files []string
	for _, entry := range manifest.Files {
		if !entry.ClientSide() {
			continue
		}
		if !fetched[entry.Path] {
			return fmt.Errorf("%w: %s was never fetched", domain.ErrNetwork, entry.Path)
		}
		files = append(files, entry.Path)
	}
	sort.Strings(files)

	inst.Files = files
	return nil
}
