package middleware

import (
	"strings"
	"time"

	"kirayo/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserKey is the Fiber locals key holding the authenticated user.
	UserKey = "User"
	// AccessTokenCookie is the cookie fallback for browser clients.
	AccessTokenCookie = "access_token"
)

// RequireAuth validates the bearer token and loads the user onto the
// request. Tokens are read from the Authorization header, the
// X-Access-Token header or the access_token cookie, in that order.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAuth")

		token := extractToken(c)
		if token == "" {
			log.Info("missing token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := m.token.Verify(token)
		if err != nil {
			log.Info("token verification failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			log.Info("token user not found", "userID", claims.UserID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsActive {
			log.Info("inactive user rejected", "userID", user.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is deactivated",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireUnrestricted rejects users under an active restriction. Must
// run after RequireAuth.
func (m *Middleware) RequireUnrestricted() fiber.Handler {
	log := m.log.Function("RequireUnrestricted")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if user.IsRestricted {
			log.Info("restricted user rejected", "userID", user.ID, "at", time.Now())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is restricted",
			})
		}

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if token := c.Get("X-Access-Token"); token != "" {
		return token
	}

	return c.Cookies(AccessTokenCookie)
}

// GetUser retrieves the authenticated user from Fiber locals.
func GetUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(UserKey).(*models.User); ok {
		return user
	}
	return nil
}
