package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"content-rewards-system/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// Single connection keeps the in-memory database alive and serializes
	// writers, which sqlite requires anyway.
	sqlDB.SetMaxOpenConns(1)

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
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// newTestEngine wires every service over one test database.
func newTestEngine(t *testing.T) *RewardIntegrator {
	t.Helper()

	db := newTestDB(t)
	bus := NewBus()
	stats := NewStatsService(db)
	prog := NewProgressionService(db, bus)
	ach := NewAchievementService(db, bus, prog, stats)
	events := NewEventService(db, bus)
	items := NewItemService(db, bus)
	quests := NewQuestService(db, bus, prog, stats, events, items)
	challenges := NewChallengeService(db, bus, prog, items)
	ranks := NewRankService(db, bus, prog, stats, ach)

	return NewRewardIntegrator(stats, prog, ach, quests, challenges, events, ranks, items, bus)
}
