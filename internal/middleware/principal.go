package middleware

import (
	"crypto/subtle"
	"strings"

	"quantum-energy-backend/internal/pkg/response"
	"quantum-energy-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PrincipalHeader carries the caller identity already verified by the gateway.
const PrincipalHeader = "X-Principal-Id"

// AdminKeyHeader carries the administrative key.
const AdminKeyHeader = "X-Admin-Key"

const principalLocal = "principal"

// RequirePrincipal rejects requests without a principal. Returns 401 with the standard error format.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := strings.TrimSpace(c.Get(PrincipalHeader))
		if p == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !validation.IsValidPrincipal(p) {
			return response.BadRequest(c, "Invalid principal")
		}
		c.Locals(principalLocal, p)
		return c.Next()
	}
}

// GetPrincipal returns the principal set by RequirePrincipal ("" if absent).
func GetPrincipal(c *fiber.Ctx) string {
	p, _ := c.Locals(principalLocal).(string)
	return p
}

// RequireAdminKey guards administrative routes. An empty configured key disables them.
func RequireAdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return response.Forbidden(c, "Forbidden")
		}
		return c.Next()
	}
}
