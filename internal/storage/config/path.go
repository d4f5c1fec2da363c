// Package config provides configuration file parsing and the default
// locations of mrunpack's own directories and the game launcher.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (
	// AppName names mrunpack's directories under the XDG base directories
	AppName = "mrunpack"

	// FileName is the configuration file inside the config directory
	FileName = "config.yaml"

	// LauncherProfilesFile is the launcher's profile registry inside the launcher root
	LauncherProfilesFile = "launcher_profiles.json"
)

// DefaultConfigDir returns the directory holding config.yaml
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultDataDir returns the directory holding the install ledger
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultCacheDir returns the directory holding downloaded installers
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultMinecraftDir returns the launcher root for the running OS
func DefaultMinecraftDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return MinecraftDirFor(runtime.GOOS, home, os.Getenv), nil
}

// MinecraftDirFor returns the launcher root the official launcher uses on goos.
//   - windows: %APPDATA%\.minecraft
//   - darwin:  ~/Library/Application Support/minecraft
//   - others:  ~/.minecraft
func MinecraftDirFor(goos, home string, getenv func(string) string) string {
	switch goos {
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, ".minecraft")
		}
		return filepath.Join(home, "AppData", "Roaming", ".minecraft")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft")
	default:
		return filepath.Join(home, ".minecraft")
	}
}

// ParseLauncherRoot validates a launcher root directory and returns its absolute path.
// It returns an error if:
//   - The path is empty
//   - The path does not exist
//   - The path is not a directory
func ParseLauncherRoot(path string) (string, error) {
	if path == "" {
		return "", errors.New("minecraft directory cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("minecraft directory does not exist; run the launcher once first")
		}
		return "", err
	}

	if !info.IsDir() {
		return "", errors.New("minecraft directory path is a file, not a directory")
	}

	return abs, nil
}
