package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.1.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
	{
		Version: "1.1.0",
		Up:      migrationV11Up,
		Down:    migrationV11Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Identification history
CREATE TABLE IF NOT EXISTS identifications (
    id TEXT PRIMARY KEY,
    input_text TEXT NOT NULL,
    input_hash BLOB NOT NULL,
    outcome TEXT NOT NULL,
    symbol TEXT,
    quality TEXT,
    slash_chord TEXT,
    candidate_count INTEGER DEFAULT 0,
    pitch_classes TEXT,
    prefer_flats BOOLEAN DEFAULT 0,
    created_at INTEGER NOT NULL -- unix nanoseconds, UTC
);

CREATE INDEX IF NOT EXISTS idx_identifications_hash ON identifications(input_hash);
CREATE INDEX IF NOT EXISTS idx_identifications_outcome ON identifications(outcome);
CREATE INDEX IF NOT EXISTS idx_identifications_created ON identifications(created_at);
`

const migrationV1Down = `
DROP TABLE IF EXISTS identifications;
DROP TABLE IF EXISTS schema_version;
`

const migrationV11Up = `
-- Group chords identified as one progression
ALTER TABLE identifications ADD COLUMN progression_id TEXT;
ALTER TABLE identifications ADD COLUMN position INTEGER DEFAULT 0;

CREATE INDEX IF NOT EXISTS idx_identifications_progression ON identifications(progression_id, position);
`

const migrationV11Down = `
DROP INDEX IF EXISTS idx_identifications_progression;
ALTER TABLE identifications DROP COLUMN position;
ALTER TABLE identifications DROP COLUMN progression_id;
`

// currentVersion returns the highest applied migration version, or 0.0.0
func currentVersion(ctx context.Context, db querier) (*semver.Version, error) {
	zero := semver.MustParse("0.0.0")

	// Check if schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return zero, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// applied_at has one-second resolution, so compare versions instead of timestamps
	current := zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, fmt.Errorf("invalid current schema version %s: %w", s, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, rows.Err()
}

// SchemaVersion returns the highest applied migration version
func SchemaVersion(ctx context.Context, db querier) (string, error) {
	v, err := currentVersion(ctx, db)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !current.LessThan(migrationVersion) {
			continue // Already applied
		}

		if _, err := db.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		current = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}
	if current.Equal(semver.MustParse("0.0.0")) {
		return fmt.Errorf("no migrations to rollback")
	}

	// Find migration
	var migration *Migration
	for i := range AllMigrations {
		v, err := semver.NewVersion(AllMigrations[i].Version)
		if err == nil && v.Equal(current) {
			migration = &AllMigrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %s not found", current)
	}

	if _, err := db.ExecContext(ctx, migration.Down); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", migration.Version, err)
	}

	// The first down migration drops schema_version itself
	if migration.Version == AllMigrations[0].Version {
		return nil
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", migration.Version); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", migration.Version, err)
	}

	return nil
}

// RollbackDatabase rolls back the most recent migration of the database at
// dbPath and returns the resulting schema version
func RollbackDatabase(ctx context.Context, dbPath string) (string, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := RollbackMigration(ctx, db); err != nil {
		return "", err
	}
	return SchemaVersion(ctx, db)
}
