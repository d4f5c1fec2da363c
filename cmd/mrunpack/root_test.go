package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "mrunpack", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)

	for _, name := range []string{"config", "data", "work-dir", "verbose", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"install", "defaults", "history", "cache"})
}

func TestColorEnabled(t *testing.T) {
	t.Cleanup(resetFlags)

	t.Setenv("NO_COLOR", "")
	noColor = false
	assert.True(t, colorEnabled())

	noColor = true
	assert.False(t, colorEnabled())
	assert.Equal(t, "text", colorGreen("text"))

	noColor = false
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled())
	assert.Equal(t, "text", colorRed("text"))
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("staging: %w", domain.ErrConflict), want: "--yes"},
		{err: fmt.Errorf("fetch: %w", domain.ErrNetwork), want: "rerun"},
		{err: fmt.Errorf("manifest: %w", domain.ErrSchema), want: "not a valid Modrinth modpack"},
		{err: context.Canceled, want: "Interrupted"},
	}
	for _, tt := range tests {
		assert.Contains(t, errorHint(tt.err), tt.want)
	}
	assert.Empty(t, errorHint(fmt.Errorf("something else")))
}

func TestGetServiceConfig(t *testing.T) {
	t.Cleanup(resetFlags)
	configDir = t.TempDir()
	dataDir = t.TempDir()
	workDir = "work"

	cfg, err := getServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, configDir, cfg.ConfigDir)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "cache"), cfg.CacheDir)
	assert.Equal(t, "work", cfg.WorkDir)
}

func TestInitService(t *testing.T) {
	t.Cleanup(resetFlags)
	base := t.TempDir()
	configDir = filepath.Join(base, "config")
	dataDir = filepath.Join(base, "data")

	svc, err := initService(core.NeverConfirm)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, svc.Close())
	})

	assert.DirExists(t, configDir)
	assert.DirExists(t, dataDir)
	assert.FileExists(t, filepath.Join(dataDir, core.DatabaseFile))
}
