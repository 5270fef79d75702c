package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"content-rewards-system/handlers"
	"content-rewards-system/middleware"
	"content-rewards-system/models"
	"content-rewards-system/services"
	"content-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on environment variables")
	}

	app := fiber.New()
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID, X-User-Roles",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("❌ DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.UserLedger{},
		&models.UserStats{},
		&models.UserCategoryStat{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.DailyQuest{},
		&models.ThematicChallenge{},
		&models.ChallengeMilestone{},
		&models.UserChallengeProgress{},
		&models.SeasonalEvent{},
		&models.UserRank{},
		&models.UserRankProgress{},
		&models.CollectibleItem{},
		&models.UserItem{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrated")

	bus := services.NewBus()
	statsService := services.NewStatsService(db)
	progressionService := services.NewProgressionService(db, bus)
	achievementService := services.NewAchievementService(db, bus, progressionService, statsService)
	eventService := services.NewEventService(db, bus)
	itemService := services.NewItemService(db, bus)
	questService := services.NewQuestService(db, bus, progressionService, statsService, eventService, itemService)
	challengeService := services.NewChallengeService(db, bus, progressionService, itemService)
	rankService := services.NewRankService(db, bus, progressionService, statsService, achievementService)

	integrator := services.NewRewardIntegrator(
		statsService, progressionService, achievementService,
		questService, challengeService, eventService, rankService, itemService, bus,
	)

	now := time.Now()
	if err := achievementService.SeedCatalog(); err != nil {
		log.Fatalf("❌ Achievement seed failed: %v", err)
	}
	if err := rankService.SeedLadder(); err != nil {
		log.Fatalf("❌ Rank seed failed: %v", err)
	}
	if err := eventService.SeedCalendar(now.Year()); err != nil {
		log.Fatalf("❌ Event seed failed: %v", err)
	}
	if err := itemService.SeedCatalog(); err != nil {
		log.Fatalf("❌ Item seed failed: %v", err)
	}
	if err := challengeService.SeedPermanent(now); err != nil {
		log.Fatalf("❌ Challenge seed failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refreshInterval := 15 * time.Minute
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			refreshInterval = d
		} else {
			log.Printf("⚠️ Invalid REFRESH_INTERVAL %q, using %s", raw, refreshInterval)
		}
	}

	if os.Getenv("USE_CRON_SCHEDULER") == "true" {
		sched, err := services.StartMaintenanceScheduler(integrator, refreshInterval)
		if err != nil {
			log.Fatalf("❌ Scheduler failed to start: %v", err)
		}
		defer func() { _ = sched.Shutdown() }()
	} else {
		go workers.RunRefreshLoop(ctx, integrator, refreshInterval)
	}

	handlers.SetupRewardsRoutes(app, integrator)
	handlers.SetupStreamRoutes(app, bus)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()
	log.Printf("🚀 Rewards engine listening on :%s", port)

	<-ctx.Done()
	log.Println("👋 Shutting down")
	_ = app.Shutdown()
}
