package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrseeker/resume-matcher/internal/services"
)

const userLocalKey = "user"

// RequireAuth rejects requests without a valid bearer session token and
// attaches the verified claims to the request context.
func RequireAuth(tokens services.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing token",
			})
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(userLocalKey, claims)
		return c.Next()
	}
}

// CurrentUser returns the claims attached by RequireAuth, or nil on an
// unauthenticated route.
func CurrentUser(c *fiber.Ctx) *services.SessionClaims {
	claims, _ := c.Locals(userLocalKey).(*services.SessionClaims)
	return claims
}
