package domain

import "fmt"

// LoaderKind identifies a modloader family
type LoaderKind int

const (
	LoaderNone LoaderKind = iota // Vanilla: no modloader required
	LoaderFabric
	LoaderForge
	LoaderQuilt
	LoaderNeoForge
)

func (k LoaderKind) String() string {
	if spec, ok := loaderSpecFor(k); ok {
		return spec.name
	}
	if k == LoaderNone {
		return "none"
	}
	return "unknown"
}

// ModloaderSelection is the single modloader a pack is installed with.
type ModloaderSelection struct {
	Kind          LoaderKind
	LoaderVersion string // Empty for LoaderNone
	GameVersion   string
}

// Default installer releases for loaders that ship a version-independent installer.
const (
	DefaultFabricInstallerVersion = "1.1.0"
	DefaultQuiltInstallerVersion  = "1.0.0"
)

// InstallerVersions pins the generic installer releases used for Fabric and Quilt.
type InstallerVersions struct {
	Fabric string
	Quilt  string
}

// DefaultInstallerVersions returns the installer releases used when none are configured.
func DefaultInstallerVersions() InstallerVersions {
	return InstallerVersions{
		Fabric: DefaultFabricInstallerVersion,
		Quilt:  DefaultQuiltInstallerVersion,
	}
}

// loaderSpec is one row of the loader table. Adding a loader kind means adding a row.
type loaderSpec struct {
	kind          LoaderKind
	name          string
	dependencyKey string
	installerURL  func(sel ModloaderSelection, iv InstallerVersions) string
	installArgs   func(sel ModloaderSelection, launcherRoot string) []string
	versionID     func(sel ModloaderSelection) string
	cacheKey      func(sel ModloaderSelection, iv InstallerVersions) (string, string)
}

// loaderTable is ordered by resolution priority: the first row whose
// dependency key is present in a manifest wins.
var loaderTable = []loaderSpec{
	{
		kind:          LoaderFabric,
		name:          "fabric",
		dependencyKey: "fabric-loader",
		installerURL: func(_ ModloaderSelection, iv InstallerVersions) string {
			return fmt.Sprintf("https://maven.fabricmc.net/net/fabricmc/fabric-installer/%[1]s/fabric-installer-%[1]s.jar", iv.Fabric)
		},
		installArgs: func(sel ModloaderSelection, root string) []string {
			return []string{"client", "-mcversion", sel.GameVersion, "-loader", sel.LoaderVersion, "-dir", root}
		},
		versionID: func(sel ModloaderSelection) string {
			return fmt.Sprintf("fabric-loader-%s-%s", sel.LoaderVersion, sel.GameVersion)
		},
		cacheKey: func(_ ModloaderSelection, iv InstallerVersions) (string, string) {
			return "fabric-installer", iv.Fabric
		},
	},
	{
		kind:          LoaderForge,
		name:          "forge",
		dependencyKey: "forge",
		installerURL: func(sel ModloaderSelection, _ InstallerVersions) string {
			return fmt.Sprintf("https://maven.minecraftforge.net/net/minecraftforge/forge/%[1]s-%[2]s/forge-%[1]s-%[2]s-installer.jar", sel.GameVersion, sel.LoaderVersion)
		},
		installArgs: func(_ ModloaderSelection, root string) []string {
			return []string{"--installClient", "--installDir", root}
		},
		versionID: func(sel ModloaderSelection) string {
			return fmt.Sprintf("forge-%s-%s", sel.GameVersion, sel.LoaderVersion)
		},
		cacheKey: func(sel ModloaderSelection, _ InstallerVersions) (string, string) {
			return "forge-installer", sel.GameVersion + "-" + sel.LoaderVersion
		},
	},
	{
		kind:          LoaderQuilt,
		name:          "quilt",
		dependencyKey: "quilt-loader",
		installerURL: func(_ ModloaderSelection, iv InstallerVersions) string {
			return fmt.Sprintf("https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-installer/%[1]s/quilt-installer-%[1]s.jar", iv.Quilt)
		},
		installArgs: func(sel ModloaderSelection, root string) []string {
			return []string{"install", "client", sel.GameVersion, sel.LoaderVersion, "--install-dir=" + root}
		},
		versionID: func(sel ModloaderSelection) string {
			return fmt.Sprintf("quilt-loader-%s-%s", sel.LoaderVersion, sel.GameVersion)
		},
		cacheKey: func(_ ModloaderSelection, iv InstallerVersions) (string, string) {
			return "quilt-installer", iv.Quilt
		},
	},
	{
		kind:          LoaderNeoForge,
		name:          "neoforge",
		dependencyKey: "neoforge",
		installerURL: func(sel ModloaderSelection, _ InstallerVersions) string {
			return fmt.Sprintf("https://maven.neoforged.net/releases/net/neoforged/neoforge/%[1]s/neoforge-%[1]s-installer.jar", sel.LoaderVersion)
		},
		installArgs: func(_ ModloaderSelection, root string) []string {
			return []string{"--installClient", "--installDir", root}
		},
		versionID: func(sel ModloaderSelection) string {
			return "neoforge-" + sel.LoaderVersion
		},
		cacheKey: func(sel ModloaderSelection, _ InstallerVersions) (string, string) {
			return "neoforge-installer", sel.LoaderVersion
		},
	},
}

func loaderSpecFor(kind LoaderKind) (loaderSpec, bool) {
	for _, spec := range loaderTable {
		if spec.kind == kind {
			return spec, true
		}
	}
	return loaderSpec{}, false
}

// ResolveModloader picks the modloader for a dependency map.
// Loaders are checked in the fixed order Fabric, Forge, Quilt, NeoForge and the
// first present key wins, whatever its value; any further loader keys are
// ignored (see IgnoredLoaders).
// With no loader key the selection is LoaderNone carrying only the game version.
func ResolveModloader(deps map[string]string) ModloaderSelection {
	sel := ModloaderSelection{Kind: LoaderNone, GameVersion: deps[GameDependency]}
	for _, spec := range loaderTable {
		if v, ok := deps[spec.dependencyKey]; ok {
			sel.Kind = spec.kind
			sel.LoaderVersion = v
			return sel
		}
	}
	return sel
}

// IgnoredLoaders returns the dependency keys of loaders that are declared in
// deps but lost to a higher-priority loader, in priority order.
func IgnoredLoaders(deps map[string]string) []string {
	var ignored []string
	found := false
	for _, spec := range loaderTable {
		if _, ok := deps[spec.dependencyKey]; ok {
			if found {
				ignored = append(ignored, spec.dependencyKey)
			}
			found = true
		}
	}
	return ignored
}

// LoaderDependencyKeys returns the manifest dependency keys of all known loaders in priority order.
func LoaderDependencyKeys() []string {
	keys := make([]string, 0, len(loaderTable))
	for _, spec := range loaderTable {
		keys = append(keys, spec.dependencyKey)
	}
	return keys
}

// VersionID returns the launcher version id the selection installs, which is
// what a profile's lastVersionId must name. Vanilla selections use the game version.
func (s ModloaderSelection) VersionID() string {
	if spec, ok := loaderSpecFor(s.Kind); ok {
		return spec.versionID(s)
	}
	return s.GameVersion
}

// InstallerURL returns the download URL of the installer jar, or "" for LoaderNone.
func (s ModloaderSelection) InstallerURL(iv InstallerVersions) string {
	if spec, ok := loaderSpecFor(s.Kind); ok {
		return spec.installerURL(s, iv)
	}
	return ""
}

// InstallerArgs returns the installer's client-mode arguments targeting launcherRoot.
func (s ModloaderSelection) InstallerArgs(launcherRoot string) []string {
	if spec, ok := loaderSpecFor(s.Kind); ok {
		return spec.installArgs(s, launcherRoot)
	}
	return nil
}

// InstallerCacheKey returns the cache-relative identity of the installer jar:
// a generic installer is shared across loader versions, versioned ones are not.
func (s ModloaderSelection) InstallerCacheKey(iv InstallerVersions) (name, version string) {
	if spec, ok := loaderSpecFor(s.Kind); ok {
		return spec.cacheKey(s, iv)
	}
	return "", ""
}

// RequiresInstaller reports whether the selection needs an external installer run.
func (s ModloaderSelection) RequiresInstaller() bool {
	return s.Kind != LoaderNone
}
