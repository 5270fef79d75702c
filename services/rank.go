package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// RankService owns the rank ladder and per-user rank progression.
type RankService struct {
	DB    *gorm.DB
	Bus   *Bus
	Prog  *ProgressionService
	Stats *StatsService
	Ach   *AchievementService
}

func NewRankService(db *gorm.DB, bus *Bus, prog *ProgressionService, stats *StatsService, ach *AchievementService) *RankService {
	return &RankService{DB: db, Bus: bus, Prog: prog, Stats: stats, Ach: ach}
}

// SeedLadder inserts the default rank ladder if the table is empty.
func (s *RankService) SeedLadder() error {
	var count int64
	if err := s.DB.Model(&models.UserRank{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range models.RankLadder {
		r := models.RankLadder[i]
		r.ID = uuid.NewString()
		if err := s.DB.Create(&r).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d ranks", len(models.RankLadder))
	return nil
}

// UpdateUserRankProgress recomputes progress toward every rank from the
// user's current level, achievement count and category breadth. Freshly
// unlocked ranks pay a one-time XP bonus; each category namespace then
// promotes its highest unlocked rank to active.
func (s *RankService) UpdateUserRankProgress(userID string, now time.Time) error {
	ledger, err := s.Prog.EnsureLedger(userID)
	if err != nil {
		return err
	}
	achievements, err := s.Ach.UnlockedCount(userID)
	if err != nil {
		return err
	}
	breadth, err := s.Stats.CategoryBreadth(userID)
	if err != nil {
		return err
	}

	var ranks []models.UserRank
	if err := s.DB.Order("category ASC, order_index ASC").Find(&ranks).Error; err != nil {
		return err
	}

	categories := make(map[string]bool)
	for i := range ranks {
		rank := &ranks[i]
		categories[rank.Category] = true

		progress, err := s.ensureProgress(userID, rank.ID)
		if err != nil {
			return err
		}
		unlocked := progress.UpdateProgress(rank, ledger.Level, achievements, breadth, now)
		if err := s.DB.Save(progress).Error; err != nil {
			return err
		}
		if unlocked {
			log.Printf("🎖️ Rank unlocked: user=%s %q (+%d XP)", userID, rank.Title, models.RankUnlockBonus)
			if _, _, err := s.Prog.AwardXP(userID, models.RankUnlockBonus, 1.0, "rank:"+rank.Code, now); err != nil {
				log.Printf("❌ rank bonus grant failed for %s: %v", userID, err)
			}
			if s.Bus != nil {
				s.Bus.Publish(RewardEvent{
					Type:   EventRankUnlocked,
					UserID: userID,
					Title:  rank.Title,
					XP:     models.RankUnlockBonus,
					Payload: map[string]string{
						"rank_id":  rank.ID,
						"category": rank.Category,
					},
					At: now,
				})
			}
		}
	}

	for category := range categories {
		if err := s.promote(userID, category, now); err != nil {
			log.Printf("❌ rank promotion failed for %s/%s: %v", userID, category, err)
		}
	}
	return nil
}

// promote activates the highest unlocked rank in one category namespace and
// deactivates the rest. No-op when the active rank is already the best.
func (s *RankService) promote(userID, category string, now time.Time) error {
	var rows []models.UserRankProgress
	err := s.DB.Preload("Rank").
		Joins("JOIN user_ranks ON user_ranks.id = user_rank_progresses.rank_id").
		Where("user_rank_progresses.user_id = ? AND user_ranks.category = ? AND user_rank_progresses.unlocked = ?", userID, category, true).
		Order("user_ranks.order_index DESC").
		Find(&rows).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	best := &rows[0]
	if best.IsActive {
		return nil
	}

	for i := range rows {
		row := &rows[i]
		shouldBeActive := row.ID == best.ID
		if row.IsActive == shouldBeActive {
			continue
		}
		row.IsActive = shouldBeActive
		if err := s.DB.Save(row).Error; err != nil {
			return err
		}
	}

	log.Printf("🎖️ Rank activated: user=%s %q (%s)", userID, best.Rank.Title, category)
	if s.Bus != nil {
		s.Bus.Publish(RewardEvent{
			Type:   EventRankActivated,
			UserID: userID,
			Title:  best.Rank.Title,
			Payload: map[string]string{
				"rank_id":  best.RankID,
				"category": category,
			},
			At: now,
		})
	}
	return nil
}

func (s *RankService) ensureProgress(userID, rankID string) (*models.UserRankProgress, error) {
	var progress models.UserRankProgress
	err := s.DB.Where("user_id = ? AND rank_id = ?", userID, rankID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.UserRankProgress{
			ID:     uuid.NewString(),
			UserID: userID,
			RankID: rankID,
		}
		if err := s.DB.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ActiveRanks lists the user's active rank rows with ranks preloaded.
func (s *RankService) ActiveRanks(userID string) ([]models.UserRankProgress, error) {
	var rows []models.UserRankProgress
	err := s.DB.Preload("Rank").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&rows).Error
	return rows, err
}

// UserProgress lists every rank progress row for the user.
func (s *RankService) UserProgress(userID string) ([]models.UserRankProgress, error) {
	var rows []models.UserRankProgress
	err := s.DB.Preload("Rank").Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

// UserXPMultiplier returns the best bonus multiplier among the user's
// active ranks, 1.0 when none.
func (s *RankService) UserXPMultiplier(userID string) float64 {
	rows, err := s.ActiveRanks(userID)
	if err != nil {
		log.Printf("❌ rank multiplier lookup failed for %s: %v", userID, err)
		return 1.0
	}
	best := 1.0
	for _, row := range rows {
		if row.Rank.BonusMultiplier > best {
			best = row.Rank.BonusMultiplier
		}
	}
	return best
}
