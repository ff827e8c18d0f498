// Package dbtest opens throwaway sqlite entity stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedback-board-api/internal/database"
)

// New returns a migrated sqlite database that is closed when the test ends
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "feedback.db") + "?_busy_timeout=5000",
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
