package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moco-web/config"
	"moco-web/internal/auth"
	"moco-web/internal/backend"
	"moco-web/internal/models"
	"moco-web/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret",
			SessionDays: 30,
		},
	}
}

func testRepo(t *testing.T) *repository.UserRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BlockedSessionToken{}))
	return repository.NewUserRepository(db)
}

func testAuthService(t *testing.T, backendClient *backend.Client) *auth.Service {
	t.Helper()
	return auth.NewService(testRepo(t), backendClient, testConfig())
}

func sessionToken(t *testing.T, email string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken(&models.User{
		ID:       "user-1",
		Email:    email,
		Name:     "Test User",
		Provider: "google",
		Accesses: models.StringArray{"user"},
	}, testConfig())
	require.NoError(t, err)
	return token
}
