package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// UserIDKey is the Locals key under which the authenticated user id is stored.
const UserIDKey = "userID"

// AuthUser authenticates the request via a bearer access token, falling back
// to the Authorizer session cookie. The resolved user id is stored in Locals;
// handlers never see raw credentials.
func AuthUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			userID, err := services.ValidateToken(token)
			if err != nil {
				return types.Forbidden("invalid access token")
			}
			c.Locals(UserIDKey, userID)
			return c.Next()
		}

		if session := c.Cookies("cookie_session"); session != "" {
			userID, err := services.ValidateSession(session)
			if err != nil {
				return types.Forbidden("invalid session")
			}
			c.Locals(UserIDKey, userID)
			return c.Next()
		}

		return types.Forbidden("authentication required")
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
