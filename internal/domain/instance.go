package domain

// LinkMethod determines how override files are placed into an instance
type LinkMethod int

const (
	LinkCopy     LinkMethod = iota // Default: independent copy
	LinkHardlink                   // Hardlink (same filesystem only, no extra space)
)

func (m LinkMethod) String() string {
	switch m {
	case LinkCopy:
		return "copy"
	case LinkHardlink:
		return "hardlink"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod
func ParseLinkMethod(s string) LinkMethod {
	switch s {
	case "hardlink":
		return LinkHardlink
	default:
		return LinkCopy
	}
}

// StagingArea is the transient extraction workspace for one package.
type StagingArea struct {
	Root        string // Directory the package was extracted into
	PackagePath string // Package the area was staged from
}

// Instance is a self-contained game directory built from a package.
type Instance struct {
	Root  string   // Absolute instance directory
	Files []string // Manifest files placed under Root (slash-separated, sorted)
}
