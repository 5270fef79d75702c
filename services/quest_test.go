package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"content-rewards-system/models"
)

func makeQuest(t *testing.T, eng *RewardIntegrator, userID, action string, required int, xp int64, expiresAt time.Time) *models.DailyQuest {
	t.Helper()
	q := &models.DailyQuest{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         "test quest",
		ActionType:    action,
		RequiredCount: required,
		XPReward:      xp,
		Active:        true,
		ExpiresAt:     expiresAt,
	}
	if err := eng.Quests.DB.Create(q).Error; err != nil {
		t.Fatalf("create quest: %v", err)
	}
	return q
}

func TestEnsureDailyQuestsPoolSize(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()

	quests, err := eng.Quests.EnsureDailyQuests("u1", now)
	if err != nil {
		t.Fatalf("EnsureDailyQuests: %v", err)
	}
	if len(quests) != QuestPoolSize {
		t.Fatalf("pool size = %d, want %d", len(quests), QuestPoolSize)
	}

	// Idempotent: a second call does not grow the pool.
	quests, err = eng.Quests.EnsureDailyQuests("u1", now)
	if err != nil {
		t.Fatalf("EnsureDailyQuests: %v", err)
	}
	if len(quests) != QuestPoolSize {
		t.Errorf("pool size after repeat = %d, want %d", len(quests), QuestPoolSize)
	}
}

func TestQuestCompletesAtExactThreshold(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()
	q := makeQuest(t, eng, "u1", models.ActionRate, 3, 100, now.Add(24*time.Hour))

	for i := 0; i < 2; i++ {
		if err := eng.Quests.UpdateProgress("u1", models.ActionRate, "", now); err != nil {
			t.Fatalf("UpdateProgress: %v", err)
		}
	}
	var got models.DailyQuest
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.Completed {
		t.Fatal("quest completed before threshold")
	}

	if err := eng.Quests.UpdateProgress("u1", models.ActionRate, "", now); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if !got.Completed || got.CurrentCount != 3 {
		t.Fatalf("count=%d completed=%v, want 3/true", got.CurrentCount, got.Completed)
	}

	// No counting past completion.
	eng.Quests.UpdateProgress("u1", models.ActionRate, "", now)
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.CurrentCount != 3 {
		t.Errorf("count after completion = %d, want 3", got.CurrentCount)
	}
}

func TestQuestCategoryFilter(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()
	q := makeQuest(t, eng, "u1", models.ActionSwipe, 2, 50, now.Add(24*time.Hour))
	q.Category = "books"
	eng.Quests.DB.Save(q)

	eng.Quests.UpdateProgress("u1", models.ActionSwipe, "movies", now)
	var got models.DailyQuest
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.CurrentCount != 0 {
		t.Errorf("count = %d after non-matching category, want 0", got.CurrentCount)
	}

	eng.Quests.UpdateProgress("u1", models.ActionSwipe, "books", now)
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.CurrentCount != 1 {
		t.Errorf("count = %d after matching category, want 1", got.CurrentCount)
	}
}

func TestQuestClaimOnce(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()
	q := makeQuest(t, eng, "u1", models.ActionReview, 1, 100, now.Add(24*time.Hour))

	// Not claimable before completion.
	claimed, err := eng.Quests.ClaimReward("u1", q.ID, now)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if claimed {
		t.Fatal("claimed an incomplete quest")
	}

	eng.Quests.UpdateProgress("u1", models.ActionReview, "", now)

	// XP is paid on completion, before any claim.
	ledger, _ := eng.Prog.EnsureLedger("u1")
	if ledger.Experience != 100 {
		t.Errorf("experience = %d after completion, want 100", ledger.Experience)
	}

	claimed, err = eng.Quests.ClaimReward("u1", q.ID, now)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if !claimed {
		t.Fatal("could not claim a completed quest")
	}

	// Second claim is rejected and pays nothing.
	claimed, err = eng.Quests.ClaimReward("u1", q.ID, now)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if claimed {
		t.Fatal("double claim succeeded")
	}
	ledger, _ = eng.Prog.EnsureLedger("u1")
	if ledger.Experience != 100 {
		t.Errorf("experience after claims = %d, want 100", ledger.Experience)
	}
}

func TestQuestClaimGrantsItem(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()

	item := &models.CollectibleItem{ID: uuid.NewString(), Code: "prize", Title: "Приз"}
	eng.Items.DB.Create(item)

	q := makeQuest(t, eng, "u1", models.ActionSwipe, 1, 50, now.Add(24*time.Hour))
	q.RewardItemID = item.ID
	eng.Quests.DB.Save(q)

	eng.Quests.UpdateProgress("u1", models.ActionSwipe, "", now)
	claimed, err := eng.Quests.ClaimReward("u1", q.ID, now)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if !claimed {
		t.Fatal("could not claim")
	}

	inventory, _ := eng.Items.Inventory("u1")
	if len(inventory) != 1 || inventory[0].ItemID != item.ID {
		t.Fatalf("inventory = %+v, want the quest item", inventory)
	}
	if inventory[0].Source != models.ItemSourceQuest {
		t.Errorf("source = %q, want %q", inventory[0].Source, models.ItemSourceQuest)
	}
}

func TestQuestExpiry(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()
	q := makeQuest(t, eng, "u1", models.ActionSwipe, 1, 50, now.Add(-time.Hour))

	// Expired quests take no progress.
	eng.Quests.UpdateProgress("u1", models.ActionSwipe, "", now)
	var got models.DailyQuest
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.CurrentCount != 0 {
		t.Errorf("expired quest counted progress: %d", got.CurrentCount)
	}

	// The sweep deactivates it.
	if err := eng.Quests.RefreshQuests(now); err != nil {
		t.Fatalf("RefreshQuests: %v", err)
	}
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if got.Active {
		t.Error("expired quest still active after sweep")
	}
}

func TestQuestClaimSurvivesExpiry(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Now()
	q := makeQuest(t, eng, "u1", models.ActionReview, 1, 100, now.Add(time.Hour))

	// Completed inside the window.
	eng.Quests.UpdateProgress("u1", models.ActionReview, "", now)
	var got models.DailyQuest
	eng.Quests.DB.First(&got, "id = ?", q.ID)
	if !got.Completed {
		t.Fatal("quest did not complete inside its window")
	}

	// Claimable after the window closes: completion survives expiry so the
	// pickup can be deferred.
	later := now.Add(2 * time.Hour)
	eng.Quests.RefreshQuests(later)
	claimed, err := eng.Quests.ClaimReward("u1", q.ID, later)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if !claimed {
		t.Fatal("completed quest not claimable after expiry")
	}

	// Still exactly-once.
	claimed, err = eng.Quests.ClaimReward("u1", q.ID, later)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if claimed {
		t.Fatal("double claim after expiry succeeded")
	}
}
