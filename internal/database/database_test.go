package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMigrationsPath(t *testing.T) {
	path, err := FindMigrationsPath("sqlite")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("migrations", "sqlite")))
}

func TestFindMigrationsPath_UnknownDialect(t *testing.T) {
	_, err := FindMigrationsPath("oracle")

	assert.Error(t, err)
}

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	// given
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "spendcast.db"))
	require.NoError(t, err)
	defer db.Close()

	// when
	err = MigrateSQLite(db)
	require.NoError(t, err)
	// running twice is a no-op
	err = MigrateSQLite(db)

	// then
	require.NoError(t, err)
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM expense").Scan(&count))
	assert.Equal(t, 0, count)
}
