package database

import (
	"database/sql"
	"fmt"
	"log"
)

// schemaVersion reads PRAGMA user_version, the applied-migration marker.
func schemaVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// hasBootstrapSchema reports whether the file is an unversioned database
// created by the old standalone bootstrap, which made both tables but never
// set user_version. Both must be present; a database with only some of the
// tables goes through the normal migration path instead.
func hasBootstrapSchema(conn *sql.DB) (bool, error) {
	var count int
	err := conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name IN ('articles', 'analysis_results')`,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for bootstrap tables: %w", err)
	}
	return count == 2, nil
}

// migrate applies every migration newer than the database's recorded
// version, one transaction each.
func migrate(conn *sql.DB) error {
	current, err := schemaVersion(conn)
	if err != nil {
		return err
	}

	// An unversioned file holding both tables predates the migration
	// system; its schema matches migration 1, so record that instead of
	// re-running the DDL.
	if current == 0 {
		bootstrap, err := hasBootstrapSchema(conn)
		if err != nil {
			return err
		}
		if bootstrap {
			log.Printf("unversioned bootstrap database found, recording schema version 1")
			if _, err := conn.Exec("PRAGMA user_version = 1"); err != nil {
				return fmt.Errorf("recording bootstrap version: %w", err)
			}
			current = 1
		}
	}

	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		log.Printf("applying migration %d: %s", m.Version, m.Description)

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		// modernc/sqlite rejects PRAGMA user_version inside a
		// transaction. A crash between commit and here is harmless: the
		// DDL is IF NOT EXISTS and re-runs clean.
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("setting version %d: %w", m.Version, err)
		}
	}

	return nil
}
