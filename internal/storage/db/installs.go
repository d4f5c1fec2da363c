package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// Install status values
const (
	StatusInstalled = "installed" // Every step succeeded
	StatusPartial   = "partial"   // Files unpacked, a modloader or profile step needs manual work
	StatusDryRun    = "dry-run"   // Files unpacked only
)

// InstallRecord is one row of the install ledger
type InstallRecord struct {
	ID            int64
	PackName      string
	PackVersion   string
	PackagePath   string
	InstanceDir   string
	LauncherRoot  string
	LoaderKind    string
	LoaderVersion string
	GameVersion   string
	VersionID     string
	ProfileID     string
	Status        string
	Warnings      []string
	InstalledAt   time.Time
	Files         []string
}

// SaveInstall records a completed install and its files in one transaction.
// The record's ID is set on success.
func (d *DB) SaveInstall(rec *InstallRecord) (err error) {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(`
		INSERT INTO installs (pack_name, pack_version, package_path, instance_dir, launcher_root,
			loader_kind, loader_version, game_version, version_id, profile_id, status, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.PackName, rec.PackVersion, rec.PackagePath, rec.InstanceDir, rec.LauncherRoot,
		rec.LoaderKind, rec.LoaderVersion, rec.GameVersion, rec.VersionID, rec.ProfileID,
		rec.Status, strings.Join(rec.Warnings, "\n"))
	if err != nil {
		return fmt.Errorf("saving install: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting install id: %w", err)
	}

	for _, path := range rec.Files {
		if _, err := tx.Exec(`INSERT INTO install_files (install_id, relative_path) VALUES (?, ?)`, id, path); err != nil {
			return fmt.Errorf("saving install file %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing install: %w", err)
	}
	rec.ID = id
	return nil
}

const installColumns = `id, pack_name, COALESCE(pack_version, ''), package_path, instance_dir,
	COALESCE(launcher_root, ''), loader_kind, COALESCE(loader_version, ''), game_version,
	version_id, COALESCE(profile_id, ''), status, COALESCE(warnings, ''), installed_at`

func scanInstall(row interface{ Scan(...any) error }) (*InstallRecord, error) {
	var rec InstallRecord
	var warnings string
	if err := row.Scan(&rec.ID, &rec.PackName, &rec.PackVersion, &rec.PackagePath, &rec.InstanceDir,
		&rec.LauncherRoot, &rec.LoaderKind, &rec.LoaderVersion, &rec.GameVersion,
		&rec.VersionID, &rec.ProfileID, &rec.Status, &warnings, &rec.InstalledAt); err != nil {
		return nil, err
	}
	if warnings != "" {
		rec.Warnings = strings.Split(warnings, "\n")
	}
	return &rec, nil
}

// ListInstalls returns the most recent installs first. A limit of 0 returns all.
func (d *DB) ListInstalls(limit int) ([]InstallRecord, error) {
	query := `SELECT ` + installColumns + ` FROM installs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing installs: %w", err)
	}
	defer rows.Close()

	var records []InstallRecord
	for rows.Next() {
		rec, err := scanInstall(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning install: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetInstall returns one install with its file list
func (d *DB) GetInstall(id int64) (*InstallRecord, error) {
	row := d.QueryRow(`SELECT `+installColumns+` FROM installs WHERE id = ?`, id)
	rec, err := scanInstall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("install %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting install: %w", err)
	}

	rows, err := d.Query(`SELECT relative_path FROM install_files WHERE install_id = ? ORDER BY relative_path`, id)
	if err != nil {
		return nil, fmt.Errorf("getting install files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning install file: %w", err)
		}
		rec.Files = append(rec.Files, path)
	}
	return rec, rows.Err()
}

// LatestInstallFor returns the most recent install into instanceDir, or nil if there is none
func (d *DB) LatestInstallFor(instanceDir string) (*InstallRecord, error) {
	row := d.QueryRow(`SELECT `+installColumns+` FROM installs WHERE instance_dir = ? ORDER BY id DESC LIMIT 1`, instanceDir)
	rec, err := scanInstall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting latest install: %w", err)
	}
	return rec, nil
}
