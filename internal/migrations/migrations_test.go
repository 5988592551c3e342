package migrations

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawen554/mijikaku/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const createVersionTable = `CREATE TABLE schema_migrations (version bigint NOT NULL PRIMARY KEY, dirty boolean NOT NULL)`

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := testutils.PostgresDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func linksTableExists(t *testing.T, pool *pgxpool.Pool) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(), `SELECT to_regclass('public.links') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func schemaVersion(t *testing.T, pool *pgxpool.Pool) (int64, bool) {
	t.Helper()
	var (
		version int64
		dirty   bool
	)
	err := pool.QueryRow(context.Background(), `SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty)
	require.NoError(t, err)
	return version, dirty
}

func TestRun_RecoversDirtyVersion(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	// a crash inside migration 1 leaves it marked dirty with no links table
	_, err := pool.Exec(ctx, createVersionTable)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (1, true)`)
	require.NoError(t, err)
	require.False(t, linksTableExists(t, pool))

	require.NoError(t, Run(pool, zap.NewNop().Sugar()))

	assert.True(t, linksTableExists(t, pool))
	version, dirty := schemaVersion(t, pool)
	assert.Equal(t, int64(1), version)
	assert.False(t, dirty)
}

func TestRun_UnknownDirtyVersion(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, createVersionTable)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (99, true)`)
	require.NoError(t, err)

	err = Run(pool, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty version 99 not found")
	assert.False(t, linksTableExists(t, pool))
}

func TestMigrator_DownAndUp(t *testing.T) {
	pool := setupPool(t)
	logger := zap.NewNop().Sugar()

	require.NoError(t, Run(pool, logger))
	require.True(t, linksTableExists(t, pool))

	m, err := New(pool, logger)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, m.Close())
	}()

	require.NoError(t, m.Down())
	assert.False(t, linksTableExists(t, pool))
	// nothing left to revert
	require.NoError(t, m.Down())

	require.NoError(t, m.Up())
	assert.True(t, linksTableExists(t, pool))
	require.NoError(t, m.Up())
}
