package admin

import (
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationStatus(t *testing.T) {
	t.Run("fresh apply", func(t *testing.T) {
		msg, err := migrationStatus(nil, nil, 1, false)
		require.NoError(t, err)
		assert.Equal(t, "migrations: applied successfully (version 1)", msg)
	})

	t.Run("already up to date", func(t *testing.T) {
		msg, err := migrationStatus(migrate.ErrNoChange, nil, 1, false)
		require.NoError(t, err)
		assert.Equal(t, "migrations: database is up to date (version 1)", msg)
	})

	t.Run("no migrations applied", func(t *testing.T) {
		msg, err := migrationStatus(migrate.ErrNoChange, migrate.ErrNilVersion, 0, false)
		require.NoError(t, err)
		assert.Contains(t, msg, "no migrations applied")
	})

	t.Run("dirty schema errors", func(t *testing.T) {
		_, err := migrationStatus(nil, nil, 2, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dirty")
	})
}
