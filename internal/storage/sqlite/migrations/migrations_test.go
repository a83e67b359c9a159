package migrations_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/storage/sqlite/migrations"
)

func TestMigrator(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(t, err)

	v, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)

	// Up is idempotent.
	require.NoError(t, m.Up())
	require.NoError(t, m.Up())
	v, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	_, err = db.Exec(`INSERT INTO tasks (id, title, status, created_at, updated_at) VALUES ('1', 't', 'Todo', 1, 1)`)
	require.NoError(t, err)

	require.NoError(t, m.Down())
	_, err = db.Exec(`SELECT id FROM tasks`)
	assert.Error(t, err)
}

func TestNewMigratorWithoutDB(t *testing.T) {
	_, err := migrations.NewMigrator(nil, nil)
	assert.Error(t, err)
}
