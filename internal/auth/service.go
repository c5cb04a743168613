package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"moco-web/config"
	"moco-web/internal/backend"
	"moco-web/internal/models"
	"moco-web/internal/repository"
)

// Init registers the OAuth providers with goth. The product signs in with
// Google only.
func Init(cfg *config.Config) {
	if cfg.Auth.Google.ClientID == "" || cfg.Auth.Google.ClientSecret == "" {
		log.Warn().Msg("Google OAuth credentials missing, social sign-in disabled")
		return
	}

	log.Debug().Str("redirect_url", cfg.Auth.Google.RedirectURL).Msg("Initializing Google provider")

	provider := google.New(
		cfg.Auth.Google.ClientID,
		cfg.Auth.Google.ClientSecret,
		cfg.Auth.Google.RedirectURL,
		"email",
		"profile",
		"openid",
	)
	provider.SetHostedDomain("") // Allow any domain

	goth.UseProviders(provider)
}

// Service owns session lifecycle: sign-in (credentials and OAuth),
// sign-out revocation, and the best-effort handoff of new identities to
// the upstream API.
type Service struct {
	users   *repository.UserRepository
	backend *backend.Client
	cfg     *config.Config
}

func NewService(users *repository.UserRepository, backendClient *backend.Client, cfg *config.Config) *Service {
	return &Service{
		users:   users,
		backend: backendClient,
		cfg:     cfg,
	}
}

// Register creates a local credentials account. Field validation happens in
// the handler; this only guards uniqueness.
func (s *Service) Register(email, password, name string) (*models.User, error) {
	existingUser, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, errors.New("user already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  string(hashedPassword),
		Name:      name,
		Provider:  "local",
		Accesses:  models.StringArray{string(models.AccessUser)},
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	s.notifyBackend(context.Background(), user.Email, user.Name)

	return user, nil
}

// Login verifies a credentials account.
func (s *Service) Login(email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid password")
	}

	return user, nil
}

// CompleteOAuth upserts the identity confirmed by the provider. Sign-in
// always succeeds once the provider confirms identity: the backend upsert
// is best-effort and only logged on failure.
func (s *Service) CompleteOAuth(ctx context.Context, gothUser goth.User) (*models.User, error) {
	user := &models.User{
		ID:        gothUser.UserID,
		Email:     gothUser.Email,
		Name:      gothUser.Name,
		Provider:  gothUser.Provider,
		AvatarURL: gothUser.AvatarURL,
		Accesses:  models.StringArray{string(models.AccessUser)},
		IsActive:  true,
	}

	if err := s.users.CreateOrUpdateUser(user); err != nil {
		return nil, err
	}

	s.notifyBackend(ctx, user.Email, user.Name)

	return user, nil
}

func (s *Service) notifyBackend(ctx context.Context, email, displayName string) {
	env, err := s.backend.UpsertUser(ctx, email, displayName)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Backend user upsert failed")
		return
	}
	if !env.Success {
		log.Warn().Int("statusCode", env.StatusCode).Str("email", email).
			Msg("Backend user upsert rejected")
	}
}

// ValidateSession verifies the token signature and checks it has not been
// revoked by a sign-out.
func (s *Service) ValidateSession(token string) (*Claims, error) {
	claims, err := ValidateToken(token, s.cfg)
	if err != nil {
		return nil, err
	}

	if s.users.IsSessionTokenBlocked(token) {
		return nil, errors.New("session has been revoked")
	}

	return claims, nil
}

// SignOut revokes the presented session token until its natural expiry.
func (s *Service) SignOut(token string) error {
	claims, err := ValidateToken(token, s.cfg)
	if err != nil {
		return errors.New("invalid session token")
	}

	return s.users.BlockSessionToken(claims.UserID, token, claims.ExpiresAt.Time)
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	return s.users.GetUserByID(userID)
}
