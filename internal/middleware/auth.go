package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"moco-web/internal/auth"
	"moco-web/internal/models"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "session"

// TokenFromRequest extracts the session token from the cookie set on the
// OAuth callback, or from a bearer Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// Protected rejects requests without a valid, unrevoked session and stores
// the claims in c.Locals("user").
func Protected(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session",
			})
		}

		claims, err := authService.ValidateSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// RequireAccess middleware checks for specific access level
func RequireAccess(requiredAccess models.AccessLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*auth.Claims)

		for _, access := range claims.Accesses {
			if access == string(requiredAccess) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient access rights",
		})
	}
}
