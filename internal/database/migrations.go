package database

import (
	"github.com/rs/zerolog/log"

	"moco-web/internal/models"
)

// RunMigrations performs all database migrations
func RunMigrations() error {
	db := GetDB()

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.BlockedSessionToken{}); err != nil {
		return err
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
