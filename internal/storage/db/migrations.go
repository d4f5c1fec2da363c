package db

import "fmt"

func (d *DB) migrate() error {
	// Create migrations table if it doesn't exist
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	// Get current version
	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	// Apply migrations
	migrations := []func(*DB) error{
		migrateV1,
		migrateV2,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE installs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack_name TEXT NOT NULL,
			pack_version TEXT,
			package_path TEXT NOT NULL,
			instance_dir TEXT NOT NULL,
			launcher_root TEXT,
			loader_kind TEXT NOT NULL,
			loader_version TEXT,
			game_version TEXT NOT NULL,
			version_id TEXT NOT NULL,
			profile_id TEXT,
			status TEXT NOT NULL,
			installed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_installs_instance_dir ON installs(instance_dir)`,
		`CREATE TABLE install_files (
			install_id INTEGER NOT NULL,
			relative_path TEXT NOT NULL,
			PRIMARY KEY(install_id, relative_path),
			FOREIGN KEY(install_id) REFERENCES installs(id) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}

func migrateV2(d *DB) error {
	// Warnings raised by non-fatal steps (modloader installer, profile registration)
	_, err := d.Exec(`ALTER TABLE installs ADD COLUMN warnings TEXT`)
	return err
}
