package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"content-rewards-system/middleware"
	"content-rewards-system/services"
)

// SetupRewardsRoutes registers the engine surface. Secured routes expect the
// gateway to inject X-User-ID; admin routes additionally require the admin
// role header.
func SetupRewardsRoutes(app *fiber.App, integrator *services.RewardIntegrator) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/actions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var body struct {
			Action    string `json:"action"`
			Direction string `json:"direction"`
			Category  string `json:"category"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if body.Action == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action is required"})
		}

		leveledUp, err := integrator.ProcessAction(userID, body.Action, services.ActionPayload{
			Direction: body.Direction,
			Category:  body.Category,
		}, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process action"})
		}
		return c.JSON(fiber.Map{"leveled_up": leveledUp})
	})

	secured.Post("/init", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := integrator.InitializeUser(userID, time.Now()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to initialize user"})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Get("/summary", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		summary, err := integrator.Summary(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build summary"})
		}
		return c.JSON(summary)
	})

	secured.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := integrator.Ach.ListWithProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list achievements"})
		}
		return c.JSON(list)
	})

	secured.Get("/quests", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		quests, err := integrator.Quests.EnsureDailyQuests(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load quests"})
		}
		return c.JSON(quests)
	})

	secured.Post("/quests/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		claimed, err := integrator.ClaimQuestReward(userID, c.Params("id"), time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to claim reward"})
		}
		if !claimed {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "quest is not claimable"})
		}
		return c.JSON(fiber.Map{"claimed": true})
	})

	secured.Get("/challenges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		rows, err := integrator.Challenges.UserProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list challenges"})
		}
		return c.JSON(rows)
	})

	secured.Get("/ranks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		rows, err := integrator.Ranks.UserProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list ranks"})
		}
		return c.JSON(rows)
	})

	secured.Get("/items", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		rows, err := integrator.Items.Inventory(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list items"})
		}
		return c.JSON(rows)
	})

	secured.Get("/events", func(c *fiber.Ctx) error {
		events, err := integrator.Events.ActiveEvents(time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
		}
		return c.JSON(events)
	})

	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/refresh", func(c *fiber.Ctx) error {
		integrator.RefreshAll(time.Now())
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Get("/events", func(c *fiber.Ctx) error {
		events, err := integrator.Events.AllEvents()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
		}
		return c.JSON(events)
	})

	admin.Post("/events", func(c *fiber.Ctx) error {
		var body struct {
			Title         string    `json:"title"`
			Description   string    `json:"description"`
			EventType     string    `json:"event_type"`
			StartsAt      time.Time `json:"starts_at"`
			EndsAt        time.Time `json:"ends_at"`
			XPMultiplier  float64   `json:"xp_multiplier"`
			SpecialItems  bool      `json:"special_items"`
			SpecialQuests bool      `json:"special_quests"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if body.Title == "" || !body.EndsAt.After(body.StartsAt) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and a valid window are required"})
		}
		ev, err := integrator.Events.Create(body.Title, body.Description, body.EventType, body.StartsAt, body.EndsAt, body.XPMultiplier, body.SpecialItems, body.SpecialQuests)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create event"})
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	})

	admin.Delete("/events/:id", func(c *fiber.Ctx) error {
		if err := integrator.Events.Delete(c.Params("id")); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
