package database

import (
	"gorm.io/gorm"

	"paperpaints/logs"
	"paperpaints/models"
)

func RunMigrations(db *gorm.DB) error {
	logs.Logger.Info("running database migrations")

	if err := db.AutoMigrate(models.All()...); err != nil {
		logs.Logger.WithError(err).Error("database migrations failed")
		return err
	}

	logs.Logger.Info("migrations completed")
	return nil
}
