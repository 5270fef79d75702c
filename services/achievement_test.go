package services

import (
	"testing"
	"time"

	"content-rewards-system/models"
)

func TestAchievementUnlockFlow(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	now := time.Now()

	// First swipe unlocks "Первый шаг" only.
	eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, now)
	unlocked, err := eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", now)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].Title != "Первый шаг" {
		t.Fatalf("unlocked = %+v, want only Первый шаг", unlocked)
	}

	// 49 more swipes reach the 50-swipe threshold.
	for i := 0; i < 49; i++ {
		eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, now)
	}
	unlocked, err = eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", now)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].Title != "Исследователь" {
		t.Fatalf("unlocked = %+v, want only Исследователь", unlocked)
	}

	// Re-running unlocks nothing new.
	unlocked, err = eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", now)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("re-check unlocked %d achievements, want 0", len(unlocked))
	}

	count, err := eng.Ach.UnlockedCount("u1")
	if err != nil {
		t.Fatalf("UnlockedCount: %v", err)
	}
	if count != 2 {
		t.Errorf("unlocked count = %d, want 2", count)
	}
}

func TestAchievementXPReward(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	now := time.Now()

	eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, now)
	if _, err := eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", now); err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}

	ledger, err := eng.Prog.EnsureLedger("u1")
	if err != nil {
		t.Fatalf("EnsureLedger: %v", err)
	}
	// Первый шаг pays 10 XP, unmultiplied.
	if ledger.Experience != 10 {
		t.Errorf("experience = %d, want 10", ledger.Experience)
	}
}

func TestStreakAchievement(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	day := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, day.AddDate(0, 0, i))
	}

	unlocked, err := eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", day.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	titles := make(map[string]bool)
	for _, a := range unlocked {
		titles[a.Title] = true
	}
	if !titles["Неделя подряд"] {
		t.Errorf("unlocked = %+v, want Неделя подряд among them", unlocked)
	}
}

func TestCategoryAchievement(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	now := time.Now()

	for i := 0; i < 50; i++ {
		eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{Category: "movies"}, now)
	}
	unlocked, err := eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "movies", now)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	titles := make(map[string]bool)
	for _, a := range unlocked {
		titles[a.Title] = true
	}
	if !titles["Киноман"] {
		t.Errorf("unlocked = %+v, want Киноман among them", unlocked)
	}
	if titles["Книголюб"] {
		t.Errorf("Книголюб must not unlock from movie actions")
	}
}

func TestListWithProgress(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	now := time.Now()

	for i := 0; i < 25; i++ {
		eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, now)
	}
	list, err := eng.Ach.ListWithProgress("u1")
	if err != nil {
		t.Fatalf("ListWithProgress: %v", err)
	}
	if len(list) != len(models.AchievementCatalog) {
		t.Fatalf("list length = %d, want %d", len(list), len(models.AchievementCatalog))
	}
	for _, p := range list {
		if p.Achievement.Title == "Исследователь" {
			// 25 of 50 swipes
			if p.Percent != 50 {
				t.Errorf("Исследователь percent = %d, want 50", p.Percent)
			}
		}
	}
}
