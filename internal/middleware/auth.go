package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator checks an admin bearer token.
type TokenValidator interface {
	ValidateToken(token string) error
}

// AdminAuth admits requests carrying a valid admin bearer token, or the
// static X-Admin-Key when adminKey is configured.
func AdminAuth(tokens TokenValidator, adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key := c.Get("X-Admin-Key"); key != "" {
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				return c.Status(403).JSON(fiber.Map{"error": "invalid admin key"})
			}
			c.Locals("admin_auth", "key")
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}
		if err := tokens.ValidateToken(tokenString); err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("admin_auth", "token")
		return c.Next()
	}
}
