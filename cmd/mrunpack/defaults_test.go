package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := runCLI(t, append([]string{"defaults", env.pack}, env.globalArgs()...)...)
	require.NoError(t, err)

	var defaults core.Defaults
	require.NoError(t, json.Unmarshal([]byte(out), &defaults))
	assert.Equal(t, "Vanilla Plus", defaults.ProfileName)
	assert.Equal(t, "4.0.1", defaults.VersionID)
	assert.Equal(t, "none", defaults.Modloader)
	assert.Equal(t, "1.21", defaults.LauncherVersionID)
	assert.True(t, filepath.IsAbs(defaults.MinecraftDir))
	assert.Equal(t, filepath.Join(defaults.MinecraftDir, "Vanilla Plus"), defaults.ProfileDir)
	assert.NoDirExists(t, env.dataDir)
}

func TestDefaultsCmd_Overrides(t *testing.T) {
	env := newTestEnv(t)
	profileDir := filepath.Join(env.workDir, "Sunday")

	args := append([]string{"defaults", env.pack,
		"--minecraft-dir", env.mcDir,
		"--profile-dir", profileDir,
		"--profile-name", "Sunday",
	}, env.globalArgs()...)
	out, err := runCLI(t, args...)
	require.NoError(t, err)

	var defaults core.Defaults
	require.NoError(t, json.Unmarshal([]byte(out), &defaults))
	assert.Equal(t, "Sunday", defaults.ProfileName)
	assert.Equal(t, env.mcDir, defaults.MinecraftDir)
	assert.Equal(t, profileDir, defaults.ProfileDir)

	assert.NoDirExists(t, profileDir)
	assert.NoDirExists(t, env.configDir)
	assert.NoDirExists(t, env.dataDir)
}

func TestDefaultsCmd_MissingPackage(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, append([]string{"defaults", filepath.Join(env.workDir, "nope.mrpack")}, env.globalArgs()...)...)
	assert.Error(t, err)
}
