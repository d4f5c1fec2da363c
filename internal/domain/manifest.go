package domain

// ManifestFileName is the fixed location of the pack index inside a staged package.
const ManifestFileName = "modrinth.index.json"

// Override trees inside a staged package. Client overrides are applied after
// the common ones so they win on conflicting paths.
const (
	OverridesDir       = "overrides"
	ClientOverridesDir = "client-overrides"
)

// GameDependency is the dependency key carrying the base game version.
const GameDependency = "minecraft"

// Manifest describes a modpack: its identity, the components it depends on and
// the remotely hosted files that make up the instance.
type Manifest struct {
	FormatVersion int               `json:"formatVersion"`
	Game          string            `json:"game"`
	Name          string            `json:"name"`
	VersionID     string            `json:"versionId"`
	Summary       string            `json:"summary,omitempty"`
	Dependencies  map[string]string `json:"dependencies"`
	Files         []FileEntry       `json:"files"`
}

// GameVersion returns the base game version the pack targets.
func (m *Manifest) GameVersion() string {
	return m.Dependencies[GameDependency]
}

// FileEntry is a single file to download into the instance tree.
type FileEntry struct {
	Path      string            `json:"path"`
	Downloads []string          `json:"downloads"`
	FileSize  int64             `json:"fileSize,omitempty"`
	Hashes    map[string]string `json:"hashes,omitempty"`
	Env       *FileEnv          `json:"env,omitempty"`
}

// EnvSupport values used by FileEnv.
const (
	EnvRequired    = "required"
	EnvOptional    = "optional"
	EnvUnsupported = "unsupported"
)

// FileEnv declares on which side a file is needed.
type FileEnv struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

// ClientSide reports whether the file belongs in a client instance.
// Entries without an env block are always installed.
func (f *FileEntry) ClientSide() bool {
	return f.Env == nil || f.Env.Client != EnvUnsupported
}

// DefaultPackVersion is reported for packs that omit versionId.
const DefaultPackVersion = "1.0.0"

// PackVersion returns the pack's own version, falling back to DefaultPackVersion.
func (m *Manifest) PackVersion() string {
	if m.VersionID == "" {
		return DefaultPackVersion
	}
	return m.VersionID
}
