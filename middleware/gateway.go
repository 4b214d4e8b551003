// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware checks the token the API gateway forwards on every
// request. Paths listed in open (e.g. the health probe) skip the check, and an
// empty expectedToken disables it entirely.
func GatewayAuthMiddleware(expectedToken string, open ...string) fiber.Handler {
	if expectedToken == "" {
		log.Println("⚠️  [GATEWAY_AUTH] API_TOKEN not set, gateway token check disabled")
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	skip := make(map[string]bool, len(open))
	for _, p := range open {
		skip[p] = true
	}
	want := []byte(expectedToken)

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] || c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Printf("🚫 [GATEWAY_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		// The gateway may send the raw token or "Bearer <token>".
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			log.Printf("❌ [GATEWAY_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}
		return c.Next()
	}
}
