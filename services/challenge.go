package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// ChallengeService owns thematic challenges and their milestone ladders.
type ChallengeService struct {
	DB    *gorm.DB
	Bus   *Bus
	Prog  *ProgressionService
	Items *ItemService
}

func NewChallengeService(db *gorm.DB, bus *Bus, prog *ProgressionService, items *ItemService) *ChallengeService {
	return &ChallengeService{DB: db, Bus: bus, Prog: prog, Items: items}
}

// SeedPermanent inserts the always-on challenge batch if missing. Windows
// span the current calendar year.
func (s *ChallengeService) SeedPermanent(now time.Time) error {
	var count int64
	if err := s.DB.Model(&models.ThematicChallenge{}).Where("event_id = ''").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)

	permanent := []models.ThematicChallenge{
		{
			Code: "swipe-master-year", Title: "Мастер свайпов",
			Description: "Свайпайте весь год",
			Archetype:   models.ChallengeExplorer, Difficulty: 2, XPReward: 250,
		},
		{
			Code: "critic-of-the-year", Title: "Критик года",
			Description: "Оценивайте контент круглый год",
			Archetype:   models.ChallengeCritic, Difficulty: 3, XPReward: 300,
		},
		{
			Code: "genre-explorer", Title: "Исследователь жанров",
			Description: "Завершайте контент в разных жанрах",
			Archetype:   models.ChallengeCollector, Difficulty: 2, XPReward: 200,
		},
	}
	for _, c := range permanent {
		c.ID = uuid.NewString()
		c.ActionType = models.ActionFor(c.Archetype)
		c.StartsAt = yearStart
		c.EndsAt = yearEnd
		c.Active = true
		if err := s.DB.Create(&c).Error; err != nil {
			return err
		}
		if err := s.createMilestones(c.ID); err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d permanent challenges", len(permanent))
	return nil
}

// CreateForEvent generates the standard challenge batch for a freshly
// started seasonal event: Explorer, Critic and Collector archetypes bound
// to the event window. Idempotent per event.
func (s *ChallengeService) CreateForEvent(ev *models.SeasonalEvent) error {
	var count int64
	if err := s.DB.Model(&models.ThematicChallenge{}).Where("event_id = ?", ev.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	batch := []models.ThematicChallenge{
		{
			Title:       fmt.Sprintf("%s: исследователь", ev.Title),
			Description: "Откройте как можно больше нового во время события",
			Archetype:   models.ChallengeExplorer, Difficulty: 2, XPReward: 150,
		},
		{
			Title:       fmt.Sprintf("%s: критик", ev.Title),
			Description: "Оцените тематический контент события",
			Archetype:   models.ChallengeCritic, Difficulty: 3, XPReward: 200,
		},
		{
			Title:       fmt.Sprintf("%s: коллекционер", ev.Title),
			Description: "Завершите тематический контент события",
			Archetype:   models.ChallengeCollector, Difficulty: 1, XPReward: 100,
		},
	}
	for _, c := range batch {
		c.ID = uuid.NewString()
		c.Code = slug.Make(c.Title)
		c.ActionType = models.ActionFor(c.Archetype)
		c.EventID = ev.ID
		c.StartsAt = ev.StartsAt
		c.EndsAt = ev.EndsAt
		c.Active = true
		if err := s.DB.Create(&c).Error; err != nil {
			return err
		}
		if err := s.createMilestones(c.ID); err != nil {
			return err
		}
	}
	log.Printf("🎯 Created challenge batch for event %q", ev.Title)
	return nil
}

func (s *ChallengeService) createMilestones(challengeID string) error {
	for _, m := range models.DefaultMilestones(challengeID) {
		m.ID = uuid.NewString()
		if err := s.DB.Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

// Milestones lists a challenge's ladder in order.
func (s *ChallengeService) Milestones(challengeID string) ([]models.ChallengeMilestone, error) {
	var out []models.ChallengeMilestone
	err := s.DB.Where("challenge_id = ?", challengeID).Order("order_index ASC").Find(&out).Error
	return out, err
}

// ActiveChallenges lists challenges whose window contains now.
func (s *ChallengeService) ActiveChallenges(now time.Time) ([]models.ThematicChallenge, error) {
	var out []models.ThematicChallenge
	err := s.DB.
		Where("active = ? AND starts_at <= ? AND ends_at >= ?", true, now, now).
		Find(&out).Error
	return out, err
}

// ProgressForAction advances every active challenge counting this action
// type. Crossed milestone thresholds pay their XP exactly once; reaching
// every milestone completes the challenge and pays the flat bonus.
func (s *ChallengeService) ProgressForAction(userID, action string, now time.Time) error {
	challenges, err := s.ActiveChallenges(now)
	if err != nil {
		return err
	}
	for i := range challenges {
		c := &challenges[i]
		if c.ActionType != action {
			continue
		}
		if err := s.advance(userID, c, now); err != nil {
			log.Printf("❌ challenge %q progress failed for %s: %v", c.Title, userID, err)
		}
	}
	return nil
}

func (s *ChallengeService) advance(userID string, c *models.ThematicChallenge, now time.Time) error {
	progress, err := s.ensureProgress(userID, c.ID)
	if err != nil {
		return err
	}
	if progress.Completed {
		return nil
	}
	progress.CurrentCount++

	milestones, err := s.Milestones(c.ID)
	if err != nil {
		return err
	}
	for _, m := range milestones {
		if progress.CurrentCount < m.RequiredProgress {
			break
		}
		if !progress.MarkMilestone(m.OrderIndex) {
			continue
		}
		log.Printf("🎯 Milestone %d reached: user=%s %q (+%d XP)", m.OrderIndex+1, userID, c.Title, m.XPReward)
		if _, _, err := s.Prog.AwardXP(userID, m.XPReward, 1.0, "milestone:"+c.Code, now); err != nil {
			log.Printf("❌ milestone XP grant failed for %s: %v", userID, err)
		}
		if m.RewardItemID != "" && s.Items != nil {
			if _, err := s.Items.Grant(userID, m.RewardItemID, models.ItemSourceEvent, now); err != nil {
				log.Printf("❌ milestone item grant failed for %s: %v", userID, err)
			}
		}
		if s.Bus != nil {
			s.Bus.Publish(RewardEvent{
				Type:   EventMilestoneReached,
				UserID: userID,
				Title:  m.Title,
				XP:     m.XPReward,
				Payload: map[string]string{
					"challenge_id": c.ID,
					"milestone":    fmt.Sprint(m.OrderIndex + 1),
				},
				At: now,
			})
		}
	}

	if len(milestones) > 0 && progress.AllMilestonesReached(len(milestones)) {
		progress.Completed = true
		t := now
		progress.CompletedAt = &t
		log.Printf("🏁 Challenge completed: user=%s %q (+%d XP bonus)", userID, c.Title, models.ChallengeCompletionBonus)
		if _, _, err := s.Prog.AwardXP(userID, models.ChallengeCompletionBonus, 1.0, "challenge:"+c.Code, now); err != nil {
			log.Printf("❌ challenge bonus grant failed for %s: %v", userID, err)
		}
		if s.Bus != nil {
			s.Bus.Publish(RewardEvent{
				Type:   EventChallengeCompleted,
				UserID: userID,
				Title:  c.Title,
				XP:     models.ChallengeCompletionBonus,
				Payload: map[string]string{
					"challenge_id": c.ID,
				},
				At: now,
			})
		}
	}

	return s.DB.Save(progress).Error
}

func (s *ChallengeService) ensureProgress(userID, challengeID string) (*models.UserChallengeProgress, error) {
	var progress models.UserChallengeProgress
	err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.UserChallengeProgress{
			ID:          uuid.NewString(),
			UserID:      userID,
			ChallengeID: challengeID,
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

// UserProgress lists the user's challenge progress rows with challenges
// preloaded.
func (s *ChallengeService) UserProgress(userID string) ([]models.UserChallengeProgress, error) {
	var rows []models.UserChallengeProgress
	err := s.DB.Preload("Challenge").Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

// RefreshChallenges deactivates challenges whose window has passed.
func (s *ChallengeService) RefreshChallenges(now time.Time) error {
	res := s.DB.Model(&models.ThematicChallenge{}).
		Where("active = ? AND ends_at < ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Deactivated %d ended challenges", res.RowsAffected)
	}
	return nil
}
