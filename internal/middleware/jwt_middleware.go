package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(tokenString string) (uint, error)
}

// CurrentUser stores the id of the requesting user in the context. A request without
// an Authorization header shops as the demo user; a malformed or invalid token is
// rejected.
func CurrentUser(tokens TokenValidator, demoUserID uint, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			c.Locals(userIDKey, demoUserID)
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by CurrentUser, or 0 when the middleware did not run.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}
