package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// QuestPoolSize is how many active quests a user holds at once.
const QuestPoolSize = 3

// QuestLifetime is how long a generated quest stays claimable.
const QuestLifetime = 24 * time.Hour

// QuestService generates and tracks daily quests.
type QuestService struct {
	DB     *gorm.DB
	Bus    *Bus
	Prog   *ProgressionService
	Stats  *StatsService
	Events *EventService
	Items  *ItemService

	rng *rand.Rand
}

func NewQuestService(db *gorm.DB, bus *Bus, prog *ProgressionService, stats *StatsService, events *EventService, items *ItemService) *QuestService {
	return &QuestService{
		DB: db, Bus: bus, Prog: prog, Stats: stats, Events: events, Items: items,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var questActionTypes = []string{
	models.ActionSwipe,
	models.ActionRate,
	models.ActionReview,
	models.ActionComplete,
}

var questTitles = map[string]string{
	models.ActionSwipe:    "Время свайпать",
	models.ActionRate:     "Оцени по достоинству",
	models.ActionReview:   "Поделись мнением",
	models.ActionComplete: "Доведи до конца",
}

// EnsureDailyQuests tops the user's pool up to QuestPoolSize, first sweeping
// out expired quests. Returns the active pool.
func (s *QuestService) EnsureDailyQuests(userID string, now time.Time) ([]models.DailyQuest, error) {
	if err := s.deactivateExpired(userID, now); err != nil {
		return nil, err
	}

	active, err := s.ActiveQuests(userID, now)
	if err != nil {
		return nil, err
	}
	for len(active) < QuestPoolSize {
		q, err := s.generate(userID, now)
		if err != nil {
			return active, err
		}
		active = append(active, *q)
	}
	return active, nil
}

// ActiveQuests lists the user's live, unexpired quests.
func (s *QuestService) ActiveQuests(userID string, now time.Time) ([]models.DailyQuest, error) {
	var quests []models.DailyQuest
	err := s.DB.
		Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, now).
		Order("created_at ASC").
		Find(&quests).Error
	return quests, err
}

func (s *QuestService) generate(userID string, now time.Time) (*models.DailyQuest, error) {
	difficulty := s.rng.Intn(3) + 1
	action := questActionTypes[s.rng.Intn(len(questActionTypes))]

	var required int
	switch action {
	case models.ActionSwipe:
		required = 10 * difficulty
	case models.ActionRate:
		required = difficulty
	case models.ActionReview:
		required = 1
	case models.ActionComplete:
		required = difficulty
	}

	// 70% of quests are pinned to one of the user's active categories.
	category := ""
	if s.rng.Float64() < 0.7 {
		if cats, err := s.Stats.Categories(userID); err == nil && len(cats) > 0 {
			category = cats[s.rng.Intn(len(cats))].Category
		}
	}

	q := models.DailyQuest{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         questTitles[action],
		ActionType:    action,
		RequiredCount: required,
		Category:      category,
		Difficulty:    difficulty,
		XPReward:      int64(50 * difficulty),
		Active:        true,
		ExpiresAt:     now.Add(QuestLifetime),
	}
	q.Description = questDescription(action, required, category)

	// 30% chance of an item reward while an event with special items runs.
	if s.rng.Float64() < 0.3 {
		if item := s.eventRewardItem(now); item != nil {
			q.RewardItemID = item.ID
		}
	}

	if err := s.DB.Create(&q).Error; err != nil {
		return nil, err
	}
	log.Printf("📜 Quest generated: user=%s %s x%d (%d XP)", userID, q.ActionType, q.RequiredCount, q.XPReward)
	return &q, nil
}

func questDescription(action string, required int, category string) string {
	verb := map[string]string{
		models.ActionSwipe:    "Сделайте %d свайпов",
		models.ActionRate:     "Поставьте %d оценок",
		models.ActionReview:   "Напишите %d рецензий",
		models.ActionComplete: "Завершите %d единиц контента",
	}[action]
	desc := fmt.Sprintf(verb, required)
	if category != "" {
		desc += " в категории " + category
	}
	return desc
}

func (s *QuestService) eventRewardItem(now time.Time) *models.CollectibleItem {
	if s.Events == nil || s.Items == nil {
		return nil
	}
	events, err := s.Events.ActiveEvents(now)
	if err != nil {
		return nil
	}
	for _, ev := range events {
		if !ev.HasSpecialItems {
			continue
		}
		items, err := s.Items.EventItems(ev.ID)
		if err != nil || len(items) == 0 {
			continue
		}
		return &items[s.rng.Intn(len(items))]
	}
	return nil
}

// UpdateProgress advances every matching active quest by one. Completed
// quests stop counting; claiming is a separate explicit step.
func (s *QuestService) UpdateProgress(userID, action, category string, now time.Time) error {
	quests, err := s.ActiveQuests(userID, now)
	if err != nil {
		return err
	}
	for i := range quests {
		q := &quests[i]
		if !q.Matches(action, category) {
			continue
		}
		completed := q.Advance(now)
		if err := s.DB.Save(q).Error; err != nil {
			return err
		}
		if completed {
			log.Printf("📜 Quest completed: user=%s %q (+%d XP)", userID, q.Title, q.XPReward)
			if _, _, err := s.Prog.AwardXP(userID, q.XPReward, 1.0, "quest:"+q.ID, now); err != nil {
				log.Printf("❌ quest XP grant failed for %s: %v", userID, err)
			}
			if s.Bus != nil {
				s.Bus.Publish(RewardEvent{
					Type:   EventQuestCompleted,
					UserID: userID,
					Title:  q.Title,
					XP:     q.XPReward,
					Payload: map[string]string{
						"quest_id": q.ID,
					},
					At: now,
				})
			}
		}
	}
	return nil
}

// ClaimReward marks a completed quest as claimed and hands over any item
// reward. XP is paid at completion; claiming is the explicit pickup step so
// the UI can defer it, even past the quest window. Claiming an unfinished
// or already-claimed quest returns false.
func (s *QuestService) ClaimReward(userID, questID string, now time.Time) (bool, error) {
	var q models.DailyQuest
	err := s.DB.Where("id = ? AND user_id = ?", questID, userID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !q.Completed || q.Claimed {
		return false, nil
	}

	q.Claimed = true
	t := now
	q.ClaimedAt = &t
	if err := s.DB.Save(&q).Error; err != nil {
		return false, err
	}

	if q.RewardItemID != "" && s.Items != nil {
		if _, err := s.Items.Grant(userID, q.RewardItemID, models.ItemSourceQuest, now); err != nil {
			log.Printf("❌ quest item grant failed for %s: %v", userID, err)
		}
	}
	if s.Bus != nil {
		s.Bus.Publish(RewardEvent{
			Type:   EventQuestClaimed,
			UserID: userID,
			Title:  q.Title,
			XP:     q.XPReward,
			Payload: map[string]string{
				"quest_id": q.ID,
			},
			At: now,
		})
	}
	return true, nil
}

// deactivateExpired marks expired quests inactive so pool top-up sees a
// correct count.
func (s *QuestService) deactivateExpired(userID string, now time.Time) error {
	return s.DB.Model(&models.DailyQuest{}).
		Where("user_id = ? AND active = ? AND expires_at <= ?", userID, true, now).
		Update("active", false).Error
}

// RefreshQuests is the maintenance sweep across all users: expired quests
// are deactivated in bulk.
func (s *QuestService) RefreshQuests(now time.Time) error {
	res := s.DB.Model(&models.DailyQuest{}).
		Where("active = ? AND expires_at <= ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Deactivated %d expired quests", res.RowsAffected)
	}
	return nil
}
