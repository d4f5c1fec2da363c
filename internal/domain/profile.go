package domain

import "time"

// ProfileTimeLayout is the launcher's timestamp format: UTC with a trailing Z.
const ProfileTimeLayout = "2006-01-02T15:04:05.000Z"

// ProfileTypeCustom marks a profile created outside the launcher UI.
const ProfileTypeCustom = "custom"

// LauncherProfile is one record in the launcher's profile registry
type LauncherProfile struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Created       string `json:"created"`
	LastUsed      string `json:"lastUsed"`
	LastVersionID string `json:"lastVersionId"`
	GameDir       string `json:"gameDir"`
	Icon          string `json:"icon,omitempty"`
}

// NewLauncherProfile builds a custom profile whose created and lastUsed
// timestamps are both set to now.
func NewLauncherProfile(name, versionID, gameDir, icon string, now time.Time) LauncherProfile {
	ts := now.UTC().Format(ProfileTimeLayout)
	return LauncherProfile{
		Name:          name,
		Type:          ProfileTypeCustom,
		Created:       ts,
		LastUsed:      ts,
		LastVersionID: versionID,
		GameDir:       gameDir,
		Icon:          icon,
	}
}
