package handlers

import (
	"github.com/gofiber/fiber/v2"

	"moco-web/config"
	"moco-web/internal/auth"
	"moco-web/internal/middleware"
	"moco-web/internal/models"
	"moco-web/internal/validation"
)

type AuthHandler struct {
	authService *auth.Service
	config      *config.Config
}

func NewAuthHandler(authService *auth.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

// @Summary Register new user
// @Description Create a new local account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegisterForm true "Registration Data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]validation.FormErrors
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form validation.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if errs := validation.ValidateRegisterForm(form); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": errs,
		})
	}

	user, err := h.authService.Register(form.Email, form.Password, form.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := auth.GenerateSessionToken(user, h.config)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate session token",
		})
	}

	h.setSessionCookie(c, token)

	return c.JSON(AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

// @Summary Login user
// @Description Authenticate a local account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.LoginForm true "Login Data"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if errs := validation.ValidateLoginForm(form); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": errs,
		})
	}

	user, err := h.authService.Login(form.Email, form.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is deactivated",
		})
	}

	token, err := auth.GenerateSessionToken(user, h.config)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate session token",
		})
	}

	h.setSessionCookie(c, token)

	return c.JSON(AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

// @Summary Get session user
// @Description Get the signed-in user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*auth.Claims)

	return c.JSON(UserResponse{
		ID:        claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  claims.Provider,
		AvatarURL: claims.AvatarURL,
	})
}

// @Summary Logout user
// @Description Revoke the session token and clear the session cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.TokenFromRequest(c)

	if err := h.authService.SignOut(token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to logout",
		})
	}

	h.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Provider:  user.Provider,
		AvatarURL: user.AvatarURL,
	}
}
