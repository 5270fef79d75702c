package services

import (
	"log"
	"sync"
	"time"

	"content-rewards-system/models"
)

// RewardIntegrator is the single entry point product code calls. It fans an
// action out to every subsystem in a fixed order, isolating failures so one
// broken stage never starves the others.
type RewardIntegrator struct {
	Stats      *StatsService
	Prog       *ProgressionService
	Ach        *AchievementService
	Quests     *QuestService
	Challenges *ChallengeService
	Events     *EventService
	Ranks      *RankService
	Items      *ItemService
	Bus        *Bus

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRewardIntegrator(stats *StatsService, prog *ProgressionService, ach *AchievementService, quests *QuestService, challenges *ChallengeService, events *EventService, ranks *RankService, items *ItemService, bus *Bus) *RewardIntegrator {
	return &RewardIntegrator{
		Stats: stats, Prog: prog, Ach: ach, Quests: quests,
		Challenges: challenges, Events: events, Ranks: ranks, Items: items,
		Bus:   bus,
		locks: make(map[string]*sync.Mutex),
	}
}

// userLock serializes processing per user; different users run in parallel.
func (r *RewardIntegrator) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// ProcessAction runs the full pipeline for one user action:
// stats → XP/level → achievements → quests → challenges → ranks.
// Base XP is scaled by the best of the rank and event multipliers; every
// later reward pays unscaled. Returns whether the user leveled up.
func (r *RewardIntegrator) ProcessAction(userID, action string, payload ActionPayload, now time.Time) (bool, error) {
	if userID == "" || action == "" {
		return false, nil
	}
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.Stats.RecordAction(userID, action, payload, now); err != nil {
		// Without counters nothing downstream can be evaluated.
		return false, err
	}

	multiplier := r.Ranks.UserXPMultiplier(userID)
	if m := r.Events.CurrentXPMultiplier(now); m > multiplier {
		multiplier = m
	}

	leveledUp := false
	if _, up, err := r.Prog.AwardXP(userID, r.Prog.Weights.For(action), multiplier, "action:"+action, now); err != nil {
		log.Printf("❌ XP stage failed for %s: %v", userID, err)
	} else {
		leveledUp = up
	}

	if _, err := r.Ach.CheckAndUnlock(userID, action, payload.Category, now); err != nil {
		log.Printf("❌ achievement stage failed for %s: %v", userID, err)
	}
	if err := r.Quests.UpdateProgress(userID, action, payload.Category, now); err != nil {
		log.Printf("❌ quest stage failed for %s: %v", userID, err)
	}
	if err := r.Challenges.ProgressForAction(userID, action, now); err != nil {
		log.Printf("❌ challenge stage failed for %s: %v", userID, err)
	}
	if err := r.Ranks.UpdateUserRankProgress(userID, now); err != nil {
		log.Printf("❌ rank stage failed for %s: %v", userID, err)
	}

	return leveledUp, nil
}

// InitializeUser provisions a new user: ledger, stats, quest pool, rank
// progress rows and starter items. Safe to call on every login.
func (r *RewardIntegrator) InitializeUser(userID string, now time.Time) error {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.Prog.EnsureLedger(userID); err != nil {
		return err
	}
	if _, err := r.Stats.EnsureStats(userID); err != nil {
		return err
	}
	if _, err := r.Quests.EnsureDailyQuests(userID, now); err != nil {
		log.Printf("❌ quest bootstrap failed for %s: %v", userID, err)
	}
	if err := r.Ranks.UpdateUserRankProgress(userID, now); err != nil {
		log.Printf("❌ rank bootstrap failed for %s: %v", userID, err)
	}
	if err := r.Items.GrantStarters(userID, now); err != nil {
		log.Printf("❌ starter items failed for %s: %v", userID, err)
	}
	return nil
}

// ClaimQuestReward claims a completed quest, then refreshes rank progress
// since the reward XP may unlock a rank.
func (r *RewardIntegrator) ClaimQuestReward(userID, questID string, now time.Time) (bool, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	claimed, err := r.Quests.ClaimReward(userID, questID, now)
	if err != nil || !claimed {
		return claimed, err
	}
	if err := r.Ranks.UpdateUserRankProgress(userID, now); err != nil {
		log.Printf("❌ rank refresh after claim failed for %s: %v", userID, err)
	}
	return true, nil
}

// RefreshAll is the maintenance sweep: event windows, challenge batches for
// freshly started events, expired quests and challenges, item associations.
func (r *RewardIntegrator) RefreshAll(now time.Time) {
	if _, _, err := r.Events.Refresh(now); err != nil {
		log.Printf("❌ event refresh failed: %v", err)
	}
	// Batch creation is idempotent, so cover every active event rather than
	// only fresh transitions; an event that activated during downtime still
	// gets its challenges.
	if active, err := r.Events.ActiveEvents(now); err != nil {
		log.Printf("❌ active event lookup failed: %v", err)
	} else {
		for i := range active {
			ev := &active[i]
			if !ev.HasSpecialQuests {
				continue
			}
			if err := r.Challenges.CreateForEvent(ev); err != nil {
				log.Printf("❌ challenge batch for event %q failed: %v", ev.Title, err)
			}
		}
	}
	if err := r.Quests.RefreshQuests(now); err != nil {
		log.Printf("❌ quest refresh failed: %v", err)
	}
	if err := r.Challenges.RefreshChallenges(now); err != nil {
		log.Printf("❌ challenge refresh failed: %v", err)
	}
	if err := r.Items.UpdateEventAssociations(); err != nil {
		log.Printf("❌ item association refresh failed: %v", err)
	}
}

// UserSummary is the aggregate progression snapshot for one user.
type UserSummary struct {
	Level        *LevelSummary                  `json:"level"`
	Stats        *models.UserStats              `json:"stats"`
	Achievements int                            `json:"achievements_unlocked"`
	ItemCount    int                            `json:"item_count"`
	ActiveQuests []models.DailyQuest            `json:"active_quests"`
	ActiveRanks  []models.UserRankProgress      `json:"active_ranks"`
	Challenges   []models.UserChallengeProgress `json:"challenges"`
	ActiveEvents []models.SeasonalEvent         `json:"active_events"`
	Multiplier   float64                        `json:"xp_multiplier"`
}

// Summary assembles the aggregate view. Subsystem failures degrade to empty
// sections rather than failing the whole call; only a missing ledger is an
// error.
func (r *RewardIntegrator) Summary(userID string, now time.Time) (*UserSummary, error) {
	level, err := r.Prog.Summary(userID)
	if err != nil {
		return nil, err
	}
	out := &UserSummary{Level: level, Multiplier: 1.0}

	if stats, err := r.Stats.EnsureStats(userID); err == nil {
		out.Stats = stats
	} else {
		log.Printf("❌ summary stats failed for %s: %v", userID, err)
	}
	if n, err := r.Ach.UnlockedCount(userID); err == nil {
		out.Achievements = n
	}
	if inventory, err := r.Items.Inventory(userID); err == nil {
		out.ItemCount = len(inventory)
	}
	if quests, err := r.Quests.ActiveQuests(userID, now); err == nil {
		out.ActiveQuests = quests
	}
	if ranks, err := r.Ranks.ActiveRanks(userID); err == nil {
		out.ActiveRanks = ranks
	}
	if challenges, err := r.Challenges.UserProgress(userID); err == nil {
		out.Challenges = challenges
	}
	if events, err := r.Events.ActiveEvents(now); err == nil {
		out.ActiveEvents = events
	}

	m := r.Ranks.UserXPMultiplier(userID)
	if em := r.Events.CurrentXPMultiplier(now); em > m {
		m = em
	}
	out.Multiplier = m
	return out, nil
}
