package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/domain"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract_Zip(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	files := map[string]string{
		"modrinth.index.json":          "{}",
		"overrides/config/a.toml":      "a = 1",
		"overrides/options.txt":        "fov:90",
		"client-overrides/shaders.txt": "on",
	}
	zipPath := writeZip(t, filepath.Join(srcDir, "pack.zip"), files)

	err := core.NewExtractor().Extract(zipPath, destDir)
	require.NoError(t, err)

	for name, want := range files {
		content, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(content))
	}
}

func TestExtractor_Extract_DetectsByContent(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	// .mrpack is a zip under another name and is read in place
	packPath := writeZip(t, filepath.Join(srcDir, "pack.mrpack"), map[string]string{"a.txt": "a"})

	require.NoError(t, core.NewExtractor().Extract(packPath, destDir))
	assert.FileExists(t, filepath.Join(destDir, "a.txt"))
	assert.FileExists(t, packPath, "input package must not be renamed")
	_, err := os.Stat(filepath.Join(srcDir, "pack.zip"))
	assert.True(t, os.IsNotExist(err), "no renamed copy is created")
}

func TestExtractor_Extract_ZipWithDirectories(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	zipPath := filepath.Join(srcDir, "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	_, err = w.Create("overrides/")
	require.NoError(t, err)
	fw, err := w.Create("overrides/file.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	require.NoError(t, core.NewExtractor().Extract(zipPath, destDir))

	info, err := os.Stat(filepath.Join(destDir, "overrides"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.FileExists(t, filepath.Join(destDir, "overrides", "file.txt"))
}

func TestExtractor_Extract_NotAZip(t *testing.T) {
	srcDir := t.TempDir()
	path := filepath.Join(srcDir, "pack.mrpack")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0644))

	err := core.NewExtractor().Extract(path, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestExtractor_Extract_MissingArchive(t *testing.T) {
	err := core.NewExtractor().Extract(filepath.Join(t.TempDir(), "absent.mrpack"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractor_Extract_PathTraversal(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "dest")

	zipPath := writeZip(t, filepath.Join(srcDir, "evil.zip"), map[string]string{
		"../escaped.txt": "gotcha",
	})

	err := core.NewExtractor().Extract(zipPath, destDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFormat)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(destDir), "escaped.txt"))
}
