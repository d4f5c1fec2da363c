package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/storage/cache"
)

// InstallOutcome describes what the modloader step did
type InstallOutcome struct {
	Selection     domain.ModloaderSelection
	Skipped       bool   // No modloader needed
	InstallerPath string // Cached installer jar
	Cached        bool   // Installer jar was already cached
	Output        *ProcessResult
}

// ModloaderInstaller installs a modloader into a launcher root by running its
// official installer jar
type ModloaderInstaller struct {
	downloader *Downloader
	cache      *cache.Cache
	runner     ProcessRunner
	javaPath   string
	versions   domain.InstallerVersions
}

// NewModloaderInstaller creates an installer that caches jars in c and runs
// them with javaPath through runner
func NewModloaderInstaller(downloader *Downloader, c *cache.Cache, runner ProcessRunner, javaPath string, versions domain.InstallerVersions) *ModloaderInstaller {
	if javaPath == "" {
		javaPath = "java"
	}
	return &ModloaderInstaller{
		downloader: downloader,
		cache:      c,
		runner:     runner,
		javaPath:   javaPath,
		versions:   versions,
	}
}

// Install runs the installer for sel against launcherRoot. LoaderNone is a
// no-op. Failing to obtain or run the installer returns domain.ErrExternalProcess.
func (m *ModloaderInstaller) Install(ctx context.Context, sel domain.ModloaderSelection, launcherRoot string) (*InstallOutcome, error) {
	outcome := &InstallOutcome{Selection: sel}
	if !sel.RequiresInstaller() {
		outcome.Skipped = true
		return outcome, nil
	}

	jar, cached, err := m.installerJar(ctx, sel)
	outcome.InstallerPath = jar
	outcome.Cached = cached
	if err != nil {
		return outcome, err
	}

	args := append([]string{"-jar", jar}, sel.InstallerArgs(launcherRoot)...)
	result, err := m.runner.Run(ctx, filepath.Dir(jar), m.javaPath, args...)
	outcome.Output = result
	if err != nil {
		return outcome, fmt.Errorf("installing %s %s: %w", sel.Kind, sel.LoaderVersion, err)
	}

	return outcome, nil
}

// installerJar returns the cached installer for sel, downloading it first when absent
func (m *ModloaderInstaller) installerJar(ctx context.Context, sel domain.ModloaderSelection) (string, bool, error) {
	name, version := sel.InstallerCacheKey(m.versions)
	path := m.cache.InstallerPath(name, version)
	if m.cache.Exists(name, version) {
		return path, true, nil
	}

	url := sel.InstallerURL(m.versions)
	if _, err := m.downloader.Download(ctx, url, path, Expect{}, nil); err != nil {
		return path, false, fmt.Errorf("%w: downloading %s installer from %s: %w", domain.ErrExternalProcess, sel.Kind, url, err)
	}
	return path, false, nil
}

// ManualInstallHint tells the user how to finish a modloader install by hand
func ManualInstallHint(sel domain.ModloaderSelection, versions domain.InstallerVersions, launcherRoot string) string {
	if !sel.RequiresInstaller() {
		return ""
	}
	return fmt.Sprintf("install %s %s for Minecraft %s manually: download %s and run `java -jar <installer> %s`",
		sel.Kind, sel.LoaderVersion, sel.GameVersion, sel.InstallerURL(versions),
		strings.Join(sel.InstallerArgs(launcherRoot), " "))
}
