package database

import (
	"fmt"

	"showcase/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured store. The returned handle is shared by
// every repository for the life of the process. Query errors go to log.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate registers the explicit join tables and creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Badges", &models.UserBadge{}); err != nil {
		return fmt.Errorf("failed to set up user_badges join table: %w", err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Project{},
		&models.Contributor{},
		&models.Support{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
