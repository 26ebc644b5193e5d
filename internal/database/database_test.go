package database_test

import (
	"fmt"
	"testing"

	"showcase/internal/database"
	"showcase/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestOpenAndMigrate(t *testing.T) {
	db, err := database.Open("sqlite", memoryDSN(), zap.NewNop())
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Migrate(db))
	for _, table := range []interface{}{
		&models.User{}, &models.Project{}, &models.Support{}, &models.Badge{},
		&models.UserBadge{}, &models.Comment{}, &models.Contributor{}, &models.Notification{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasTable("project_badges"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "", zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLogger_RoutesQueryErrorsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := database.Open("sqlite", memoryDSN(), zap.New(core))
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.Migrate(db))
	logs.TakeAll()

	// a missing row is an expected outcome, not a log line
	var user models.User
	err = db.First(&user, "id = ?", "missing").Error
	require.Error(t, err)
	assert.Zero(t, logs.Len())

	err = db.Table("no_such_table").Where("id = ?", 1).Find(&[]models.User{}).Error
	require.Error(t, err)
	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Contains(t, entries[0].ContextMap()["sql"], "no_such_table")
}
