package database

import (
	"log/slog"

	"portfolio/models"

	"gorm.io/gorm"
)

// Tables lists every model migrated at startup.
func Tables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.Experience{},
		&models.Skill{},
		&models.Message{},
	}
}

func RunMigrations(db *gorm.DB) error {
	slog.Info("running database migrations")

	if err := db.AutoMigrate(Tables()...); err != nil {
		slog.Error("error running migrations", "error", err)
		return err
	}

	slog.Info("migrations completed successfully")
	return nil
}
