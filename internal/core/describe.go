package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/storage/config"
)

// Defaults are the values an install of a package would use
type Defaults struct {
	ProfileName       string `json:"profile_name"`
	VersionID         string `json:"version_id"`
	MinecraftDir      string `json:"minecraft_dir"`
	ProfileDir        string `json:"profile_dir"`
	GameVersion       string `json:"game_version"`
	Modloader         string `json:"modloader"`
	LoaderVersion     string `json:"loader_version,omitempty"`
	LauncherVersionID string `json:"launcher_version_id"`
}

// Describe reports the defaults an install of opts.PackagePath would use
// with the service's configuration
func (s *Service) Describe(ctx context.Context, opts InstallOptions) (*Defaults, error) {
	return Describe(ctx, s.config, opts)
}

// Describe reports the defaults an install of opts.PackagePath would use
// under cfg. It needs no Service: the ledger and the mrunpack directories are
// neither opened nor created. The package is staged into a private temp
// directory that is removed afterwards.
func Describe(ctx context.Context, cfg *config.Config, opts InstallOptions) (*Defaults, error) {
	tmp, err := os.MkdirTemp("", "mrunpack-describe-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	stager := NewStager(filepath.Join(tmp, "pack"), NeverConfirm)
	area, err := stager.Stage(ctx, opts.PackagePath)
	if err != nil {
		return nil, fmt.Errorf("staging package: %w", err)
	}

	manifest, err := ReadManifest(area)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	launcherRoot, err := resolveLauncherRoot(cfg, opts.LauncherRoot, false)
	if err != nil {
		return nil, err
	}

	sel := domain.ResolveModloader(manifest.Dependencies)
	name := ProfileName(opts.ProfileName, manifest, opts.PackagePath)
	profileDir := opts.InstanceDir
	if profileDir == "" {
		profileDir = filepath.Join(launcherRoot, InstanceDirName(name))
	} else if abs, err := filepath.Abs(profileDir); err == nil {
		profileDir = abs
	}

	return &Defaults{
		ProfileName:       name,
		VersionID:         manifest.PackVersion(),
		MinecraftDir:      launcherRoot,
		ProfileDir:        profileDir,
		GameVersion:       sel.GameVersion,
		Modloader:         sel.Kind.String(),
		LoaderVersion:     sel.LoaderVersion,
		LauncherVersionID: sel.VersionID(),
	}, nil
}
