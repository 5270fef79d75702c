package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SSEUserContextMiddleware authenticates event-stream connections from query
// params. EventSource cannot set headers, so the gateway appends the service
// token and user id to the stream URL instead.
//
// Usage:
//
//	app.Get("/s/stream", middleware.SSEUserContextMiddleware(), streamHandler)
func SSEUserContextMiddleware() fiber.Handler {
	expectedToken := os.Getenv("REWARDS_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ REWARDS_SERVICE_TOKEN is not set — service cannot authenticate stream clients")
	}

	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		userID := strings.TrimSpace(c.Query("user_id"))

		if token == "" || userID == "" {
			log.Printf("🚫 [SSE_AUTH] Missing token or user_id for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "token and user_id query params are required",
			})
		}
		if token != expectedToken {
			log.Printf("❌ [SSE_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid stream token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
