package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMigrations_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, storage.db))

	var count int
	require.NoError(t, storage.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)

	version, err := SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestRollbackMigration(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// 1.1.0 -> 1.0.0
	require.NoError(t, RollbackMigration(ctx, storage.db))
	version, err := SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	status, err := storage.GetStatus(ctx)
	require.Error(t, err, "progression_id column is gone")
	assert.Nil(t, status)

	// 1.0.0 -> empty
	require.NoError(t, RollbackMigration(ctx, storage.db))
	version, err = SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version)

	assert.Error(t, RollbackMigration(ctx, storage.db))

	// Reapply everything
	require.NoError(t, ApplyMigrations(ctx, storage.db))
	status, err = storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Health.SchemaCurrent)
}

func TestRollbackDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	storage, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, storage.Close())

	version, err := RollbackDatabase(ctx, dbPath)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	// Reopening migrates forward again
	storage, err = NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer storage.Close()

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
}
