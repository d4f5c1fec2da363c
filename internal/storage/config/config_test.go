package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkCopy, cfg.LinkMethod)
	assert.Equal(t, "java", cfg.JavaPath)
	assert.Equal(t, config.DefaultJobs, cfg.Jobs)
	assert.Equal(t, config.DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, config.DefaultInstallerTimeout, cfg.InstallerTimeout)
	assert.Empty(t, cfg.MinecraftDir)
	assert.Equal(t, domain.DefaultInstallerVersions(), cfg.InstallerVersions())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
link_method: hardlink
minecraft_dir: /games/minecraft
java_path: /usr/lib/jvm/java-17/bin/java
jobs: 3
http_timeout: 30s
installer_timeout: 2m
fabric_installer_version: 1.0.1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkHardlink, cfg.LinkMethod)
	assert.Equal(t, "/games/minecraft", cfg.MinecraftDir)
	assert.Equal(t, "/usr/lib/jvm/java-17/bin/java", cfg.JavaPath)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2*time.Minute, cfg.InstallerTimeout)
	assert.Equal(t, "1.0.1", cfg.InstallerVersions().Fabric)
	assert.Equal(t, domain.DefaultQuiltInstallerVersion, cfg.InstallerVersions().Quilt)
}

func TestLoadConfig_InvalidJobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jobs: 0\n"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs")
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jobs: [nope"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	cfg.LinkMethod = domain.LinkHardlink
	cfg.Jobs = 2
	cfg.MinecraftDir = "/mc"
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkHardlink, loaded.LinkMethod)
	assert.Equal(t, 2, loaded.Jobs)
	assert.Equal(t, "/mc", loaded.MinecraftDir)
	assert.Equal(t, config.DefaultHTTPTimeout, loaded.HTTPTimeout)
}
