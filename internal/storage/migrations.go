package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial catalog schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS catalog_snapshots (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					imported_at DATETIME NOT NULL,
					entry_count INTEGER NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS stat_groups (
					snapshot_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					group_id TEXT NOT NULL,
					label TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (snapshot_id, position),
					FOREIGN KEY (snapshot_id) REFERENCES catalog_snapshots(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS stat_entries (
					snapshot_id INTEGER NOT NULL,
					group_position INTEGER NOT NULL,
					position INTEGER NOT NULL,
					stat_id TEXT NOT NULL,
					text TEXT NOT NULL,
					type TEXT NOT NULL,
					has_options BOOLEAN NOT NULL DEFAULT 0,
					PRIMARY KEY (snapshot_id, group_position, position),
					FOREIGN KEY (snapshot_id) REFERENCES catalog_snapshots(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS stat_options (
					snapshot_id INTEGER NOT NULL,
					group_position INTEGER NOT NULL,
					entry_position INTEGER NOT NULL,
					position INTEGER NOT NULL,
					option_id TEXT NOT NULL,
					text TEXT NOT NULL,
					PRIMARY KEY (snapshot_id, group_position, entry_position, position),
					FOREIGN KEY (snapshot_id) REFERENCES catalog_snapshots(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS filter_options (
					snapshot_id INTEGER NOT NULL,
					kind TEXT NOT NULL,
					position INTEGER NOT NULL,
					option_id TEXT NOT NULL,
					text TEXT NOT NULL,
					PRIMARY KEY (snapshot_id, kind, position),
					FOREIGN KEY (snapshot_id) REFERENCES catalog_snapshots(id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add snapshot checksums and stat id lookup",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE catalog_snapshots ADD COLUMN checksum TEXT NOT NULL DEFAULT ''`,
				`CREATE INDEX IF NOT EXISTS idx_catalog_snapshots_checksum ON catalog_snapshots(checksum)`,
				`CREATE INDEX IF NOT EXISTS idx_stat_entries_stat_id ON stat_entries(stat_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
