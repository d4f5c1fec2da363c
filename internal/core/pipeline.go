package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/launcher"
	"github.com/DonovanMods/mrunpack/internal/storage/config"
	"github.com/DonovanMods/mrunpack/internal/storage/db"
)

// InstallOptions controls a single install run
type InstallOptions struct {
	PackagePath  string
	LauncherRoot string // Empty: minecraft_dir from config, then the OS default
	InstanceDir  string // Empty: <LauncherRoot>/<profile name>, or <work dir>/instance for dry runs
	ProfileName  string // Empty: manifest name, then the package file stem
	Icon         string // Launcher icon name or path to a PNG
	DryRun       bool
	Jobs         int // Concurrent downloads; 0 uses the configured value
	Observer     FetchObserver
}

// Warning is a step that failed without aborting the install
type Warning struct {
	Step     string
	Err      error
	Guidance string // What the user has to do by hand
}

func (w Warning) String() string {
	if w.Guidance == "" {
		return fmt.Sprintf("%s: %v", w.Step, w.Err)
	}
	return fmt.Sprintf("%s: %v; %s", w.Step, w.Err, w.Guidance)
}

// InstallResult describes a finished (or partially finished) install
type InstallResult struct {
	Manifest       *domain.Manifest
	Selection      domain.ModloaderSelection
	IgnoredLoaders []string
	ProfileName    string
	ProfileID      string
	VersionID      string // Launcher version id the profile starts
	InstanceDir    string
	LauncherRoot   string
	Report         *FetchReport
	Modloader      *InstallOutcome
	Warnings       []Warning
	DryRun         bool
}

// Install runs the whole pipeline for one package: stage, read the manifest,
// build the instance, fetch its files, install the modloader and register a
// launcher profile. Structural and download failures abort and name what was
// left on disk; modloader and registry failures are returned as warnings.
func (s *Service) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	result := &InstallResult{DryRun: opts.DryRun}

	launcherRoot, err := resolveLauncherRoot(s.config, opts.LauncherRoot, !opts.DryRun)
	if err != nil {
		return result, err
	}
	result.LauncherRoot = launcherRoot

	stager := NewStager(s.StagingDir(), s.confirm)
	s.logger.Debug("staging package", "package", opts.PackagePath, "dir", stager.Dir())
	area, err := stager.Stage(ctx, opts.PackagePath)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return result, fmt.Errorf("staging package: %w", err)
		}
		return result, leftBehind(fmt.Errorf("staging package: %w", err), stager.Dir())
	}

	manifest, err := ReadManifest(area)
	if err != nil {
		return result, leftBehind(fmt.Errorf("reading manifest: %w", err), area.Root)
	}
	result.Manifest = manifest

	result.Selection = domain.ResolveModloader(manifest.Dependencies)
	result.VersionID = result.Selection.VersionID()
	result.IgnoredLoaders = domain.IgnoredLoaders(manifest.Dependencies)
	if len(result.IgnoredLoaders) > 0 {
		s.logger.Warn("pack declares more than one modloader",
			"using", result.Selection.Kind, "ignored", strings.Join(result.IgnoredLoaders, ","))
	}
	s.logger.Info("read manifest", "name", manifest.Name, "version", manifest.PackVersion(),
		"minecraft", manifest.GameVersion(), "loader", result.Selection.Kind, "files", len(manifest.Files))

	result.ProfileName = ProfileName(opts.ProfileName, manifest, opts.PackagePath)
	instanceDir := opts.InstanceDir
	if instanceDir == "" {
		if opts.DryRun {
			instanceDir = s.DryRunInstanceDir()
		} else {
			instanceDir = filepath.Join(launcherRoot, InstanceDirName(result.ProfileName))
		}
	}

	instanceDir, err = filepath.Abs(instanceDir)
	if err != nil {
		return result, leftBehind(fmt.Errorf("resolving instance directory: %w", err), area.Root)
	}
	// The instance must not contain, or live inside, the staging area
	if nested(instanceDir, stager.Dir()) {
		if cerr := stager.Cleanup(area); cerr != nil {
			s.logger.Warn("removing staging directory", "err", cerr)
		}
		return result, fmt.Errorf("instance directory %s overlaps staging directory %s: %w",
			instanceDir, stager.Dir(), domain.ErrConflict)
	}

	if _, statErr := os.Stat(instanceDir); statErr == nil {
		if prev, err := s.db.LatestInstallFor(instanceDir); err == nil && prev != nil {
			s.logger.Info("instance directory holds an earlier install",
				"pack", prev.PackName, "version", prev.PackVersion, "installed", prev.InstalledAt.Format(time.DateTime))
		}
	}

	builder := NewInstanceBuilder(s.linker(), s.confirm)
	inst, err := builder.Create(ctx, area, instanceDir)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Nothing but this run's own staging has been written
			if cerr := stager.Cleanup(area); cerr != nil {
				s.logger.Warn("removing staging directory", "err", cerr)
			}
			return result, fmt.Errorf("creating instance: %w", err)
		}
		return result, leftBehind(fmt.Errorf("creating instance: %w", err), area.Root, instanceDir)
	}
	result.InstanceDir = inst.Root
	s.logger.Debug("instance created", "dir", inst.Root, "link", s.config.LinkMethod)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = s.config.Jobs
	}
	fetcher := NewFetcher(s.downloader, jobs)
	fetcher.SetObserver(opts.Observer)
	result.Report = fetcher.Fetch(ctx, manifest.Files, inst.Root)
	s.logger.Info("fetched files", "ok", len(result.Report.Succeeded), "failed", len(result.Report.Failed),
		"skipped", len(result.Report.Skipped), "bytes", result.Report.Bytes)

	if err := builder.Seal(inst, manifest, result.Report); err != nil {
		return result, leftBehind(err, area.Root, inst.Root)
	}

	if opts.DryRun {
		if err := stager.Cleanup(area); err != nil {
			result.Warnings = append(result.Warnings, Warning{Step: "cleanup", Err: err})
		}
		s.record(result, inst, opts.PackagePath)
		return result, nil
	}

	outcome, err := s.modloader.Install(ctx, result.Selection, launcherRoot)
	result.Modloader = outcome
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, leftBehind(fmt.Errorf("installing modloader: %w: %w", domain.ErrCancelled, ctxErr), area.Root, inst.Root)
		}
		s.logger.Warn("modloader install failed", "err", err)
		if outcome != nil && outcome.Output != nil && outcome.Output.Stderr != "" {
			s.logger.Debug("installer output", "stderr", outcome.Output.Stderr)
		}
		result.Warnings = append(result.Warnings, Warning{
			Step:     "modloader",
			Err:      err,
			Guidance: ManualInstallHint(result.Selection, s.config.InstallerVersions(), launcherRoot),
		})
	}

	if err := s.register(ctx, result, opts.Icon); err != nil {
		return result, leftBehind(err, area.Root, inst.Root)
	}

	if err := stager.Cleanup(area); err != nil {
		result.Warnings = append(result.Warnings, Warning{Step: "cleanup", Err: err})
	}

	s.record(result, inst, opts.PackagePath)
	return result, nil
}

// register adds the launcher profile. Registry problems become warnings;
// only cancellation is returned.
func (s *Service) register(ctx context.Context, result *InstallResult, iconArg string) error {
	icon, err := launcher.IconValue(iconArg)
	if err != nil {
		result.Warnings = append(result.Warnings, Warning{Step: "icon", Err: err})
		icon = ""
	}

	registrar := launcher.NewRegistrar(result.LauncherRoot)
	if existing, err := registrar.Profiles(); err == nil {
		for _, p := range existing {
			if p.Name == result.ProfileName {
				s.logger.Warn("a launcher profile with this name already exists", "name", p.Name, "id", p.ID)
				break
			}
		}
	}

	id, err := registrar.Register(ctx, launcher.ProfileRequest{
		Name:      result.ProfileName,
		VersionID: result.VersionID,
		GameDir:   result.InstanceDir,
		Icon:      icon,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("registering profile: %w: %w", domain.ErrCancelled, ctxErr)
		}
		s.logger.Warn("profile registration failed", "err", err)
		result.Warnings = append(result.Warnings, Warning{
			Step: "profile",
			Err:  err,
			Guidance: fmt.Sprintf("create a launcher profile named %q with version %s and game directory %s",
				result.ProfileName, result.VersionID, result.InstanceDir),
		})
		return nil
	}

	result.ProfileID = id
	s.logger.Info("registered profile", "name", result.ProfileName, "id", id, "version", result.VersionID)
	return nil
}

// record writes the install to the ledger. Failures are logged only.
func (s *Service) record(result *InstallResult, inst *domain.Instance, packagePath string) {
	status := db.StatusInstalled
	switch {
	case result.DryRun:
		status = db.StatusDryRun
	case len(result.Warnings) > 0:
		status = db.StatusPartial
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.String())
	}

	if abs, err := filepath.Abs(packagePath); err == nil {
		packagePath = abs
	}

	rec := &db.InstallRecord{
		PackName:      result.Manifest.Name,
		PackVersion:   result.Manifest.PackVersion(),
		PackagePath:   packagePath,
		InstanceDir:   inst.Root,
		LauncherRoot:  result.LauncherRoot,
		LoaderKind:    result.Selection.Kind.String(),
		LoaderVersion: result.Selection.LoaderVersion,
		GameVersion:   result.Selection.GameVersion,
		VersionID:     result.VersionID,
		ProfileID:     result.ProfileID,
		Status:        status,
		Warnings:      warnings,
		Files:         inst.Files,
	}
	if err := s.db.SaveInstall(rec); err != nil {
		s.logger.Warn("recording install", "err", err)
	}
}

// resolveLauncherRoot picks the launcher root from the override, the config
// and the OS default, in that order. When mustExist is set a missing
// directory fails with domain.ErrNotFound.
func resolveLauncherRoot(cfg *config.Config, override string, mustExist bool) (string, error) {
	root := override
	if root == "" && cfg != nil {
		root = cfg.MinecraftDir
	}
	if root == "" {
		def, err := config.DefaultMinecraftDir()
		if err != nil {
			return "", fmt.Errorf("locating .minecraft: %w", err)
		}
		root = def
	}

	if !mustExist {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolving minecraft directory: %w", err)
		}
		return abs, nil
	}

	abs, err := config.ParseLauncherRoot(root)
	if err != nil {
		if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
			return "", fmt.Errorf("%s: %w", root, domain.ErrNotFound)
		}
		return "", fmt.Errorf("minecraft directory %s: %w", root, err)
	}
	return abs, nil
}

// ProfileName picks the profile name: the override, else the manifest name,
// else the package file name without its extension
func ProfileName(override string, manifest *domain.Manifest, packagePath string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if manifest != nil {
		if name := strings.TrimSpace(manifest.Name); name != "" {
			return name
		}
	}
	base := filepath.Base(packagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// InstanceDirName turns a profile name into a single safe directory name
func InstanceDirName(profileName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, profileName)
	name = strings.TrimSpace(strings.TrimRight(name, ". "))
	if name == "" || name == "." || name == ".." {
		return "modpack"
	}
	return name
}

// nested reports whether a and b are the same directory or one contains the other
func nested(a, b string) bool {
	inside := func(parent, child string) bool {
		rel, err := filepath.Rel(parent, child)
		if err != nil {
			return false
		}
		return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
	}
	return inside(a, b) || inside(b, a)
}

// leftBehind annotates err with the directories an aborted run left on disk
func leftBehind(err error, dirs ...string) error {
	var present []string
	for _, d := range dirs {
		if _, statErr := os.Lstat(d); statErr == nil {
			present = append(present, d)
		}
	}
	if len(present) == 0 {
		return err
	}
	return fmt.Errorf("%w (left on disk for inspection: %s)", err, strings.Join(present, ", "))
}
