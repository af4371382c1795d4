// Package auth protects the API with a static API key.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. If empty, authentication is disabled.
	ApiKey string
	// Next skips authentication for a request when it returns true.
	// OAuth redirect endpoints cannot carry the key header.
	Next func(c *fiber.Ctx) bool
}

// New returns a middleware that validates the X-Api-Key header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		provided := c.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}

		return c.Next()
	}
}
