package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStager_Stage(t *testing.T) {
	dir := t.TempDir()
	pack := writeZip(t, filepath.Join(dir, "pack.mrpack"), map[string]string{
		"modrinth.index.json": "{}",
		"overrides/a.txt":     "a",
	})
	stagingDir := filepath.Join(dir, ".tmp")

	stager := core.NewStager(stagingDir, nil)
	area, err := stager.Stage(context.Background(), pack)
	require.NoError(t, err)

	assert.Equal(t, stagingDir, area.Root)
	assert.Equal(t, pack, area.PackagePath)
	assert.FileExists(t, filepath.Join(stagingDir, "modrinth.index.json"))
	assert.FileExists(t, filepath.Join(stagingDir, "overrides", "a.txt"))

	require.NoError(t, stager.Cleanup(area))
	assert.NoDirExists(t, stagingDir)
	assert.FileExists(t, pack)
}

func TestStager_Stage_MissingPackage(t *testing.T) {
	dir := t.TempDir()
	stager := core.NewStager(filepath.Join(dir, ".tmp"), core.AlwaysConfirm)

	_, err := stager.Stage(context.Background(), filepath.Join(dir, "absent.mrpack"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoDirExists(t, filepath.Join(dir, ".tmp"))
}

func TestStager_Stage_ExistingStaging(t *testing.T) {
	tests := []struct {
		name    string
		approve bool
		wantErr error
	}{
		{name: "declined", approve: false, wantErr: domain.ErrConflict},
		{name: "approved", approve: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pack := writeZip(t, filepath.Join(dir, "pack.mrpack"), map[string]string{"modrinth.index.json": "{}"})
			stagingDir := filepath.Join(dir, ".tmp")
			marker := filepath.Join(stagingDir, "leftover.txt")
			require.NoError(t, os.MkdirAll(stagingDir, 0755))
			require.NoError(t, os.WriteFile(marker, []byte("old"), 0644))

			var prompts []string
			stager := core.NewStager(stagingDir, answer(tt.approve, &prompts))
			_, err := stager.Stage(context.Background(), pack)

			require.Len(t, prompts, 1)
			assert.Contains(t, prompts[0], stagingDir)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.FileExists(t, marker, "declined removal must not mutate staging")
				return
			}
			require.NoError(t, err)
			assert.NoFileExists(t, marker)
			assert.FileExists(t, filepath.Join(stagingDir, "modrinth.index.json"))
		})
	}
}

func TestStager_Stage_NilConfirmerDeclines(t *testing.T) {
	dir := t.TempDir()
	pack := writeZip(t, filepath.Join(dir, "pack.mrpack"), map[string]string{"modrinth.index.json": "{}"})
	stagingDir := filepath.Join(dir, ".tmp")
	require.NoError(t, os.MkdirAll(stagingDir, 0755))

	_, err := core.NewStager(stagingDir, nil).Stage(context.Background(), pack)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStager_Stage_InvalidPackage(t *testing.T) {
	dir := t.TempDir()
	pack := filepath.Join(dir, "pack.mrpack")
	require.NoError(t, os.WriteFile(pack, []byte("not a zip"), 0644))

	_, err := core.NewStager(filepath.Join(dir, ".tmp"), nil).Stage(context.Background(), pack)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}
