package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionKey is the Locals key carrying the negotiated API version.
const VersionKey = "apiVersion"

const defaultAPIVersion = "1.0.0"

// versionAliases maps short version forms to their canonical value.
var versionAliases = map[string]string{
	"1":   defaultAPIVersion,
	"1.0": defaultAPIVersion,
}

// VersionMiddleware resolves the X-Api-Version request header to a canonical
// version and stores it under VersionKey for downstream handlers.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", defaultAPIVersion)
		if canonical, ok := versionAliases[version]; ok {
			version = canonical
		}
		c.Locals(VersionKey, version)
		return c.Next()
	}
}
