// Package launcher edits the Minecraft launcher's profile registry
// (launcher_profiles.json) without disturbing records it does not own.
package launcher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"

	"github.com/google/uuid"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

// ProfilesFile is the registry file name inside a launcher root
const ProfilesFile = "launcher_profiles.json"

// ProfileRequest describes the profile to register
type ProfileRequest struct {
	Name      string
	VersionID string // Launcher version id the profile starts
	GameDir   string // Instance directory
	Icon      string // Optional icon name or data URI
}

// Profile is a summary of an existing registry record
type Profile struct {
	ID            string
	Name          string
	LastVersionID string
	GameDir       string
}

// Registrar inserts profiles into a launcher registry
type Registrar struct {
	root  string
	now   func() time.Time
	newID func() string
}

// NewRegistrar creates a registrar for the launcher installed at launcherRoot
func NewRegistrar(launcherRoot string) *Registrar {
	return &Registrar{
		root:  launcherRoot,
		now:   time.Now,
		newID: NewProfileID,
	}
}

// NewProfileID returns a random 32-character hex id in the launcher's style
func NewProfileID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Path returns the registry file path
func (r *Registrar) Path() string {
	return filepath.Join(r.root, ProfilesFile)
}

// Register adds one profile record and returns its id. Every other byte of the
// registry is preserved. A missing registry fails with domain.ErrNotFound and
// is never created; anything else that stops the write fails with domain.ErrRegistry.
func (r *Registrar) Register(ctx context.Context, req ProfileRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := r.Path()
	content, info, err := r.read()
	if err != nil {
		return "", err
	}

	doc, err := hujson.Parse(content)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", domain.ErrRegistry, path, err)
	}

	var ops []string
	profiles := gjson.GetBytes(content, "profiles")
	switch {
	case !profiles.Exists():
		ops = append(ops, `{"op":"add","path":"/profiles","value":{}}`)
	case !profiles.IsObject():
		return "", fmt.Errorf("%w: %s has a non-object \"profiles\" member", domain.ErrRegistry, path)
	}

	id := r.newID()
	for profiles.Get(id).Exists() {
		id = r.newID()
	}

	record := domain.NewLauncherProfile(req.Name, req.VersionID, req.GameDir, req.Icon, r.now())
	value, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	ops = append(ops, fmt.Sprintf(`{"op":"add","path":"/profiles/%s","value":%s}`, id, value))

	patch := "[" + strings.Join(ops, ",") + "]"
	if err := doc.Patch([]byte(patch)); err != nil {
		return "", fmt.Errorf("%w: updating %s: %v", domain.ErrRegistry, path, err)
	}

	if err := writeAtomic(path, doc.Pack(), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", domain.ErrRegistry, path, err)
	}

	return id, nil
}

// Profiles lists the registry's profiles sorted by name
func (r *Registrar) Profiles() ([]Profile, error) {
	content, _, err := r.read()
	if err != nil {
		return nil, err
	}

	var list []Profile
	gjson.GetBytes(content, "profiles").ForEach(func(key, value gjson.Result) bool {
		list = append(list, Profile{
			ID:            key.String(),
			Name:          value.Get("name").String(),
			LastVersionID: value.Get("lastVersionId").String(),
			GameDir:       value.Get("gameDir").String(),
		})
		return true
	})

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// read loads the registry and checks that it is a JSON object
func (r *Registrar) read() ([]byte, os.FileInfo, error) {
	path := r.Path()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrRegistry, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", domain.ErrRegistry, path, err)
	}
	if !gjson.ValidBytes(content) || !gjson.ParseBytes(content).IsObject() {
		return nil, nil, fmt.Errorf("%w: %s is not a JSON object", domain.ErrRegistry, path)
	}
	return content, info, nil
}

// writeAtomic replaces path with data via a temp file in the same directory
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// IconValue turns an --icon argument into a registry icon. A path to an
// existing file is embedded as a PNG data URI; anything else is taken as a
// launcher icon name.
func IconValue(icon string) (string, error) {
	if icon == "" {
		return "", nil
	}
	info, err := os.Stat(icon)
	if err != nil || info.IsDir() {
		return icon, nil
	}

	data, err := os.ReadFile(icon)
	if err != nil {
		return "", fmt.Errorf("reading icon: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
