package middleware

import (
	"strings"

	"quantum-energy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedSuffix  string // e.g. ".quantum-energy.example"
	AllowLocalhost bool
}

var corsAllowHeaders = strings.Join([]string{"Content-Type", PrincipalHeader, AdminKeyHeader}, ", ")

// CORS allows origins ending with AllowedSuffix, plus localhost when enabled.
// Requests without an Origin header pass through untouched.
func CORS(cfg CORSConfig) fiber.Handler {
	suffix := strings.ToLower(cfg.AllowedSuffix)
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}
		lower := strings.ToLower(origin)
		allowed := (suffix != "" && strings.HasSuffix(lower, suffix)) ||
			(cfg.AllowLocalhost && (strings.HasPrefix(lower, "http://localhost:") || strings.HasPrefix(lower, "http://127.0.0.1:")))
		if !allowed {
			return response.Forbidden(c, "Not allowed by CORS")
		}
		c.Set("Access-Control-Allow-Origin", origin)
		c.Set("Access-Control-Allow-Credentials", "true")
		c.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
