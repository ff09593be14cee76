package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/config"
	"github.com/mummysfood/backend/internal/database"
	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/testhelpers"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Open(cfg, testhelpers.Logger())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, database.HealthCheck(context.Background(), db))
	require.NoError(t, database.RunMigrations(db, database.Migrations(), testhelpers.Logger()))

	user := testhelpers.CreateTestUser(t, db, false)
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.False(t, db.Migrator().HasTable("schema_migrations"), "sql migrations are postgres only")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"}, testhelpers.Logger())
	assert.Error(t, err)
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	var applied []string
	require.NoError(t, db.Table("schema_migrations").Order("name").Pluck("name", &applied).Error)
	assert.Equal(t, []string{
		"001_meal_search_indexes.sql",
		"002_meal_text_search.sql",
		"003_address_integrity.sql",
	}, applied)

	// a second run finds nothing to apply
	require.NoError(t, database.RunMigrations(db, database.Migrations(), testhelpers.Logger()))
	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	assert.EqualValues(t, 3, count)

	var indexes int64
	require.NoError(t, db.Raw(
		"SELECT COUNT(*) FROM pg_indexes WHERE tablename = 'meals' AND indexname LIKE 'idx_meals_%'",
	).Scan(&indexes).Error)
	assert.Greater(t, indexes, int64(0))
}
