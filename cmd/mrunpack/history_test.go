package main

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Structure(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
	assert.NotEmpty(t, historyCmd.Short)
	assert.NotNil(t, historyCmd.PersistentFlags().Lookup("json"))
	assert.NotNil(t, historyCmd.Flags().Lookup("limit"))
}

func TestHistoryCmd_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, err := runCLI(t, append([]string{"history"}, env.globalArgs()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No installs yet.")
}

func TestHistoryCmd_AfterInstall(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, append([]string{"install", env.pack, "--minecraft-dir", env.mcDir}, env.globalArgs()...)...)
	require.NoError(t, err)
	_, err = runCLI(t, append([]string{"install", env.pack, "--dry-run", "--minecraft-dir", env.mcDir}, env.globalArgs()...)...)
	require.NoError(t, err)

	out, err := runCLI(t, append([]string{"history", "--json"}, env.globalArgs()...)...)
	require.NoError(t, err)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, db.StatusDryRun, entries[0].Status, "newest first")
	assert.Equal(t, db.StatusInstalled, entries[1].Status)
	assert.Equal(t, "Vanilla Plus", entries[1].Pack)
	assert.Equal(t, "4.0.1", entries[1].Version)
	assert.Equal(t, "none", entries[1].Modloader)
	assert.Equal(t, "1.21", entries[1].VersionID)
	assert.Len(t, entries[1].ProfileID, 32)

	out, err = runCLI(t, append([]string{"history", "--json=false"}, env.globalArgs()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Vanilla Plus 4.0.1")
	assert.Contains(t, out, "installed")
}

func TestHistoryShowCmd(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, append([]string{"install", env.pack, "--minecraft-dir", env.mcDir}, env.globalArgs()...)...)
	require.NoError(t, err)

	out, err := runCLI(t, append([]string{"history", "--json"}, env.globalArgs()...)...)
	require.NoError(t, err)
	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	id := strconv.FormatInt(entries[0].ID, 10)

	out, err = runCLI(t, append([]string{"history", "show", id, "--json=false"}, env.globalArgs()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Vanilla Plus 4.0.1")
	assert.Contains(t, out, env.pack)
	assert.Contains(t, out, "Files (0):")

	out, err = runCLI(t, append([]string{"history", "show", id, "--json"}, env.globalArgs()...)...)
	require.NoError(t, err)
	var entry historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, entries[0].ID, entry.ID)
	assert.Equal(t, env.pack, entry.Package)
}

func TestHistoryShowCmd_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := runCLI(t, append([]string{"history", "show", "abc"}, env.globalArgs()...)...)
	assert.Error(t, err)

	_, err = runCLI(t, append([]string{"history", "show", "42"}, env.globalArgs()...)...)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
