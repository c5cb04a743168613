package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"moco-web/internal/repository"
	"moco-web/internal/versions"
)

var scheduler *gocron.Scheduler

// Initialize creates and starts the scheduler with the recurring jobs:
// purging expired revoked session tokens and refreshing the
// framework-version cache.
func Initialize(users *repository.UserRepository, versionService *versions.Service) {
	scheduler = gocron.NewScheduler(time.Local)

	_, err := scheduler.Every(1).Day().At("03:00").Do(func() {
		if err := users.CleanupBlockedTokens(); err != nil {
			log.Error().Err(err).Msg("Blocked token cleanup failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule token cleanup")
	}

	_, err = scheduler.Every(6).Hours().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := versionService.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Framework version refresh failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule version refresh")
	}

	scheduler.StartAsync()
}

// Stop gracefully shuts down the scheduler
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}
