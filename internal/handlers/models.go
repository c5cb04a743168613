package handlers

import (
	"github.com/gofiber/fiber/v2"

	"moco-web/internal/auth"
	"moco-web/internal/middleware"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Error message"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UserResponse represents the signed-in user
type UserResponse struct {
	ID        string `json:"id" example:"123456789"`
	Email     string `json:"email" example:"user@example.com"`
	Name      string `json:"name" example:"John Doe"`
	Provider  string `json:"provider" example:"google"`
	AvatarURL string `json:"avatarUrl" example:"https://example.com/avatar.jpg"`
}

// sessionClaims resolves the caller's session, either from the Protected
// middleware or directly from the request for routes that report auth
// failures in their own response shape.
func sessionClaims(c *fiber.Ctx, authService *auth.Service) *auth.Claims {
	if claims, ok := c.Locals("user").(*auth.Claims); ok {
		return claims
	}

	token := middleware.TokenFromRequest(c)
	if token == "" {
		return nil
	}

	claims, err := authService.ValidateSession(token)
	if err != nil {
		return nil
	}
	return claims
}
