// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"dojo-learning-system/progression"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the user identity and roles forwarded by
// the Gateway (X-User-ID / X-User-Roles). Session handling itself lives in
// the SSO layer; this service only trusts the forwarded context.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// RequireAdmin gates a route on the Administrateur role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		if !progression.HasAdminRole(roles) {
			log.Printf("🚫 [USER_CTX] Admin role required for %s (roles=%v)", c.Path(), roles)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "administrator role required",
			})
		}
		return c.Next()
	}
}

// RequireMentor gates a route on the Mentor role; administrators pass too.
func RequireMentor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		if !progression.HasMentorRole(roles) {
			log.Printf("🚫 [USER_CTX] Mentor role required for %s (roles=%v)", c.Path(), roles)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "mentor role required",
			})
		}
		return c.Next()
	}
}
