package middleware

import (
	"github.com/gofiber/fiber/v2"

	"agentmail/internal/requestmeta"
)

// ClientMetadata copies the caller's IP and user agent into the user context so audit
// entries written further down can record them.
func ClientMetadata() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(requestmeta.WithClientMetadata(c.UserContext(), c.IP(), c.Get(fiber.HeaderUserAgent)))
		return c.Next()
	}
}
