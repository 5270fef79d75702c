package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"content-rewards-system/middleware"
	"content-rewards-system/services"
)

// SetupStreamRoutes registers the SSE feed of reward notifications. Each
// connection gets its own bus subscription filtered to the caller's user.
func SetupStreamRoutes(app *fiber.App, bus *services.Bus) {
	// Outside the /s group: EventSource cannot send the gateway headers, so
	// the stream authenticates from query params instead.
	app.Get("/stream", middleware.SSEUserContextMiddleware(), func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")

		events, unsubscribe := bus.Subscribe()

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer unsubscribe()
			log.Printf("📡 SSE stream opened for user=%s", userID)

			for ev := range events {
				if ev.UserID != "" && ev.UserID != userID {
					continue
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
				if err := w.Flush(); err != nil {
					// Client went away.
					log.Printf("📡 SSE stream closed for user=%s", userID)
					return
				}
			}
		})
		return nil
	})
}
