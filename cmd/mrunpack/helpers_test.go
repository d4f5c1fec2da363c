package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	configDir string
	dataDir   string
	workDir   string
	mcDir     string
	pack      string
}

// newTestEnv creates isolated directories, a launcher root with an empty
// registry and an offline vanilla pack
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	env := &testEnv{
		configDir: filepath.Join(base, "config"),
		dataDir:   filepath.Join(base, "data"),
		workDir:   filepath.Join(base, "work"),
		mcDir:     filepath.Join(base, ".minecraft"),
	}
	require.NoError(t, os.MkdirAll(env.workDir, 0755))
	require.NoError(t, os.MkdirAll(env.mcDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.mcDir, "launcher_profiles.json"), []byte(`{"profiles": {}, "version": 3}`), 0644))

	manifest, err := json.Marshal(map[string]any{
		"formatVersion": 1,
		"game":          "minecraft",
		"name":          "Vanilla Plus",
		"versionId":     "4.0.1",
		"files":         []any{},
		"dependencies":  map[string]string{"minecraft": "1.21"},
	})
	require.NoError(t, err)

	env.pack = filepath.Join(base, "vanilla-plus.mrpack")
	f, err := os.Create(env.pack)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range map[string]string{
		"modrinth.index.json":   string(manifest),
		"overrides/options.txt": "renderDistance:12",
	} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	t.Cleanup(resetFlags)
	return env
}

func (e *testEnv) globalArgs() []string {
	return []string{"--config", e.configDir, "--data", e.dataDir, "--work-dir", e.workDir, "--no-color"}
}

// resetFlags restores flag variables that persist between executions
func resetFlags() {
	configDir, dataDir, workDir = "", "", "."
	verbose, noColor = false, false
	installDryRun, installYes, installGetDefaults = false, false, false
	installMinecraftDir, installProfileDir, installProfileName, installIcon = "", "", "", ""
	installJobs = 0
	historyLimit, historyJSON = 20, false
}

// runCLI executes the root command with args and returns its stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
