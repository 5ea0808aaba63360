package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	t.Parallel()
	st, err := Open(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer st.Close()

	// Tests run from the package directory.
	const dir = "migrations"

	require.NoError(t, st.MigrateUp(dir))

	version, dirty, err := st.MigrateVersion(dir)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Up is idempotent.
	require.NoError(t, st.MigrateUp(dir))

	require.NoError(t, st.MigrateDown(dir))
	_, _, err = st.MigrateVersion(dir)
	require.NoError(t, err)
}
