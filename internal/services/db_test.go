package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/database"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens TEST_DATABASE_URL in a fresh schema that is dropped when the
// test ends. Tests that need it are skipped when the variable is unset.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	quiet := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	admin, err := gorm.Open(postgres.Open(dsn), quiet)
	require.NoError(t, err)
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	require.NoError(t, admin.Exec("CREATE SCHEMA "+schema).Error)

	db, err := gorm.Open(postgres.Open(withSearchPath(dsn, schema)), quiet)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		_ = database.Close(admin)
	})
	return db
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func seedUser(t *testing.T, db *gorm.DB, first string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: first,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), uuid.NewString()[:8]),
		Password:  "hash",
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

type recordingNotifier struct {
	sent []*models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *models.Notification) {
	r.sent = append(r.sent, n)
}
