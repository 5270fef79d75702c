package services

import (
	"testing"
	"time"

	"content-rewards-system/models"
)

func TestSeedLadder(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ranks.SeedLadder(); err != nil {
		t.Fatalf("SeedLadder: %v", err)
	}
	if err := eng.Ranks.SeedLadder(); err != nil {
		t.Fatalf("SeedLadder repeat: %v", err)
	}
	var count int64
	eng.Ranks.DB.Model(&models.UserRank{}).Count(&count)
	if count != int64(len(models.RankLadder)) {
		t.Fatalf("ladder size = %d, want %d", count, len(models.RankLadder))
	}
}

func TestRankProgressPercentages(t *testing.T) {
	rank := &models.UserRank{RequiredLevel: 10, RequiredAchievements: 4, RequiredCategories: 0}
	p := &models.UserRankProgress{}

	unlocked := p.UpdateProgress(rank, 5, 1, 0, time.Now())
	if unlocked {
		t.Fatal("unlocked with partial progress")
	}
	if p.LevelPct != 50 || p.AchievementsPct != 25 || p.CategoriesPct != 100 {
		t.Errorf("pcts = %d/%d/%d, want 50/25/100", p.LevelPct, p.AchievementsPct, p.CategoriesPct)
	}

	unlocked = p.UpdateProgress(rank, 20, 4, 0, time.Now())
	if !unlocked || !p.Unlocked {
		t.Fatal("expected unlock at full progress")
	}
	if p.LevelPct != 100 {
		t.Errorf("level pct = %d, capped at 100 expected", p.LevelPct)
	}

	// Never unlocks twice.
	if p.UpdateProgress(rank, 30, 10, 5, time.Now()) {
		t.Error("unlocked a second time")
	}
}

func TestFirstRankUnlocksImmediately(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ranks.SeedLadder(); err != nil {
		t.Fatalf("SeedLadder: %v", err)
	}
	now := time.Now()

	if err := eng.Ranks.UpdateUserRankProgress("u1", now); err != nil {
		t.Fatalf("UpdateUserRankProgress: %v", err)
	}

	active, err := eng.Ranks.ActiveRanks("u1")
	if err != nil {
		t.Fatalf("ActiveRanks: %v", err)
	}
	// Новичок needs level 1 only; it unlocks and activates for everyone.
	if len(active) != 1 || active[0].Rank.Code != "novice" {
		t.Fatalf("active ranks = %+v, want only novice", active)
	}

	// Unlock bonus was paid once.
	ledger, _ := eng.Prog.EnsureLedger("u1")
	if ledger.Experience != models.RankUnlockBonus {
		t.Errorf("experience = %d, want %d", ledger.Experience, models.RankUnlockBonus)
	}

	// Re-running pays nothing more.
	eng.Ranks.UpdateUserRankProgress("u1", now)
	ledger, _ = eng.Prog.EnsureLedger("u1")
	if ledger.Experience != models.RankUnlockBonus {
		t.Errorf("experience after rerun = %d, want %d", ledger.Experience, models.RankUnlockBonus)
	}
}

func TestRankPromotionSingleActivePerCategory(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ranks.SeedLadder(); err != nil {
		t.Fatalf("SeedLadder: %v", err)
	}
	if err := eng.Ach.SeedCatalog(); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}
	now := time.Now()

	// Satisfy Любитель: level 5 (2500 XP), 3 achievements. Unlock three
	// achievements through real counters, then push the level directly.
	eng.Stats.RecordAction("u1", models.ActionSwipe, ActionPayload{}, now)
	eng.Stats.RecordAction("u1", models.ActionRate, ActionPayload{}, now)
	eng.Stats.RecordAction("u1", models.ActionReview, ActionPayload{}, now)
	eng.Ach.CheckAndUnlock("u1", models.ActionSwipe, "", now)
	eng.Ach.CheckAndUnlock("u1", models.ActionRate, "", now)
	eng.Ach.CheckAndUnlock("u1", models.ActionReview, "", now)

	if _, _, err := eng.Prog.AwardXP("u1", 5000, 1.0, "test", now); err != nil {
		t.Fatalf("AwardXP: %v", err)
	}

	if err := eng.Ranks.UpdateUserRankProgress("u1", now); err != nil {
		t.Fatalf("UpdateUserRankProgress: %v", err)
	}

	active, err := eng.Ranks.ActiveRanks("u1")
	if err != nil {
		t.Fatalf("ActiveRanks: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active general ranks = %d, want exactly 1", len(active))
	}
	if active[0].Rank.Code != "amateur" {
		t.Errorf("active rank = %q, want amateur (novice demoted)", active[0].Rank.Code)
	}
}

func TestUserXPMultiplier(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Ranks.SeedLadder(); err != nil {
		t.Fatalf("SeedLadder: %v", err)
	}
	now := time.Now()

	// No ranks yet: neutral.
	if m := eng.Ranks.UserXPMultiplier("u1"); m != 1.0 {
		t.Fatalf("multiplier = %v before any rank, want 1.0", m)
	}

	if err := eng.Ranks.UpdateUserRankProgress("u1", now); err != nil {
		t.Fatalf("UpdateUserRankProgress: %v", err)
	}
	// Новичок carries multiplier 1.0.
	if m := eng.Ranks.UserXPMultiplier("u1"); m != 1.0 {
		t.Errorf("multiplier = %v with novice, want 1.0", m)
	}
}
