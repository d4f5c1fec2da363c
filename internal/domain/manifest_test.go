package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileEntry_ClientSide(t *testing.T) {
	assert.True(t, (&FileEntry{Path: "mods/a.jar"}).ClientSide())
	assert.True(t, (&FileEntry{Env: &FileEnv{Client: EnvRequired, Server: EnvUnsupported}}).ClientSide())
	assert.True(t, (&FileEntry{Env: &FileEnv{Client: EnvOptional}}).ClientSide())
	assert.False(t, (&FileEntry{Env: &FileEnv{Client: EnvUnsupported, Server: EnvRequired}}).ClientSide())
}

func TestManifest_GameVersion(t *testing.T) {
	m := &Manifest{Dependencies: map[string]string{"minecraft": "1.20.1", "fabric-loader": "0.15.0"}}
	assert.Equal(t, "1.20.1", m.GameVersion())
}

func TestParseLinkMethod(t *testing.T) {
	assert.Equal(t, LinkHardlink, ParseLinkMethod("hardlink"))
	assert.Equal(t, LinkCopy, ParseLinkMethod("copy"))
	assert.Equal(t, LinkCopy, ParseLinkMethod("symlink"))
	assert.Equal(t, "hardlink", LinkHardlink.String())
}

func TestNewLauncherProfile(t *testing.T) {
	now := time.Date(2024, 3, 9, 17, 4, 5, 123456789, time.FixedZone("CET", 3600))

	p := NewLauncherProfile("My Pack", "fabric-loader-0.15.0-1.20.1", "/games/pack", "", now)

	assert.Equal(t, "My Pack", p.Name)
	assert.Equal(t, "custom", p.Type)
	assert.Equal(t, "2024-03-09T16:04:05.123Z", p.Created)
	assert.Equal(t, p.Created, p.LastUsed)
	assert.Equal(t, "fabric-loader-0.15.0-1.20.1", p.LastVersionID)
	assert.Equal(t, "/games/pack", p.GameDir)
	assert.Empty(t, p.Icon)
}
