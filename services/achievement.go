package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// AchievementService evaluates the achievement catalog against user counters.
type AchievementService struct {
	DB    *gorm.DB
	Bus   *Bus
	Prog  *ProgressionService
	Stats *StatsService
}

func NewAchievementService(db *gorm.DB, bus *Bus, prog *ProgressionService, stats *StatsService) *AchievementService {
	return &AchievementService{DB: db, Bus: bus, Prog: prog, Stats: stats}
}

// SeedCatalog inserts the default achievement catalog if the table is empty.
func (s *AchievementService) SeedCatalog() error {
	var count int64
	if err := s.DB.Model(&models.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range models.AchievementCatalog {
		a := models.AchievementCatalog[i]
		a.ID = uuid.NewString()
		if err := s.DB.Create(&a).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d achievements", len(models.AchievementCatalog))
	return nil
}

// CheckAndUnlock evaluates every achievement matching the action (and the
// virtual total/streak counters) and unlocks those whose threshold the
// current counters satisfy. Safe to call repeatedly; each achievement
// unlocks at most once per user. Returns the newly unlocked achievements.
func (s *AchievementService) CheckAndUnlock(userID, action, category string, now time.Time) ([]models.Achievement, error) {
	stats, err := s.Stats.EnsureStats(userID)
	if err != nil {
		return nil, err
	}

	actions := []string{action, models.ActionTotal, models.ActionStreak}

	var candidates []models.Achievement
	if err := s.DB.Where("required_action IN ?", actions).Find(&candidates).Error; err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for _, a := range candidates {
		if a.Category != "" && a.Category != category {
			continue
		}
		counter := stats.CounterFor(a.RequiredAction)
		if a.Category != "" {
			// Category-scoped achievements count that category's actions.
			c, err := s.categoryActions(userID, a.Category)
			if err != nil {
				return unlocked, err
			}
			counter = c
		}
		if counter < a.RequiredCount {
			continue
		}
		fresh, err := s.unlock(userID, a, now)
		if err != nil {
			return unlocked, err
		}
		if fresh {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

func (s *AchievementService) categoryActions(userID, category string) (int, error) {
	var row models.UserCategoryStat
	err := s.DB.Where("user_id = ? AND category = ?", userID, category).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Actions, nil
}

func (s *AchievementService) unlock(userID string, a models.Achievement, now time.Time) (bool, error) {
	var existing int64
	err := s.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, a.ID).
		Count(&existing).Error
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	ua := models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        userID,
		AchievementID: a.ID,
		UnlockedAt:    now,
	}
	if err := s.DB.Create(&ua).Error; err != nil {
		return false, err
	}

	log.Printf("🏆 Achievement unlocked: user=%s %q (+%d XP)", userID, a.Title, a.XPReward)

	if err := s.Stats.IncrementAchievements(userID); err != nil {
		log.Printf("❌ achievements counter bump failed for %s: %v", userID, err)
	}
	// Reward XP is never multiplied.
	if _, _, err := s.Prog.AwardXP(userID, a.XPReward, 1.0, "achievement:"+a.Code, now); err != nil {
		log.Printf("❌ achievement XP grant failed for %s: %v", userID, err)
	}
	if s.Bus != nil {
		s.Bus.Publish(RewardEvent{
			Type:   EventAchievementUnlocked,
			UserID: userID,
			Title:  a.Title,
			XP:     a.XPReward,
			Payload: map[string]string{
				"code": a.Code,
				"icon": a.IconName,
			},
			At: now,
		})
	}
	return true, nil
}

// UnlockedCount returns how many achievements the user has unlocked.
func (s *AchievementService) UnlockedCount(userID string) (int, error) {
	var count int64
	err := s.DB.Model(&models.UserAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// AchievementProgress pairs a catalog entry with the user's progress percent.
type AchievementProgress struct {
	Achievement models.Achievement `json:"achievement"`
	Current     int                `json:"current"`
	Unlocked    bool               `json:"unlocked"`
	Percent     int                `json:"percent"`
}

// ListWithProgress returns the full catalog annotated with user progress.
func (s *AchievementService) ListWithProgress(userID string) ([]AchievementProgress, error) {
	var catalog []models.Achievement
	if err := s.DB.Order("required_count ASC").Find(&catalog).Error; err != nil {
		return nil, err
	}
	stats, err := s.Stats.EnsureStats(userID)
	if err != nil {
		return nil, err
	}
	var rows []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(rows))
	for _, r := range rows {
		done[r.AchievementID] = true
	}

	out := make([]AchievementProgress, 0, len(catalog))
	for _, a := range catalog {
		counter := stats.CounterFor(a.RequiredAction)
		if a.Category != "" {
			if c, err := s.categoryActions(userID, a.Category); err == nil {
				counter = c
			}
		}
		pct := 100
		if !done[a.ID] {
			if a.RequiredCount > 0 {
				pct = counter * 100 / a.RequiredCount
				if pct > 100 {
					pct = 100
				}
			}
		}
		out = append(out, AchievementProgress{
			Achievement: a,
			Current:     counter,
			Unlocked:    done[a.ID],
			Percent:     pct,
		})
	}
	return out, nil
}
