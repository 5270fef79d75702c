package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// StatsService owns activity counters and the streak.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// EnsureStats loads or creates the stats row for a user.
func (s *StatsService) EnsureStats(userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.DB.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserStats{ID: uuid.NewString(), UserID: userID}
		if err := s.DB.Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ActionPayload carries optional detail about the triggering action.
type ActionPayload struct {
	Direction string // right/left for swipes
	Category  string // movies, books, games, ...
}

// RecordAction bumps the counter for the action, the total, the streak and
// the per-category table. Unknown action types only touch streak/category.
func (s *StatsService) RecordAction(userID, action string, payload ActionPayload, now time.Time) (*models.UserStats, error) {
	stats, err := s.EnsureStats(userID)
	if err != nil {
		return nil, err
	}

	switch action {
	case models.ActionSwipe:
		stats.Swipes++
		stats.TotalActions++
		if payload.Direction == "right" {
			stats.RightSwipes++
		} else if payload.Direction == "left" {
			stats.LeftSwipes++
		}
	case models.ActionRate:
		stats.Ratings++
		stats.TotalActions++
	case models.ActionReview:
		stats.Reviews++
		stats.TotalActions++
	case models.ActionComplete:
		stats.Consumed++
		stats.TotalActions++
	}

	stats.UpdateStreak(now)

	if err := s.DB.Save(stats).Error; err != nil {
		return nil, err
	}

	// Counters are already committed; a category-table failure must not
	// abort the downstream stages.
	if payload.Category != "" {
		if err := s.touchCategory(userID, payload.Category, now); err != nil {
			log.Printf("❌ category stat update failed for %s/%s: %v", userID, payload.Category, err)
		}
	}
	return stats, nil
}

// IncrementAchievements bumps the denormalized unlocked-achievements counter.
func (s *StatsService) IncrementAchievements(userID string) error {
	stats, err := s.EnsureStats(userID)
	if err != nil {
		return err
	}
	stats.AchievementsCount++
	return s.DB.Save(stats).Error
}

func (s *StatsService) touchCategory(userID, category string, now time.Time) error {
	var row models.UserCategoryStat
	err := s.DB.Where("user_id = ? AND category = ?", userID, category).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t := now
		row = models.UserCategoryStat{
			ID:           uuid.NewString(),
			UserID:       userID,
			Category:     category,
			Actions:      1,
			LastActionAt: &t,
		}
		return s.DB.Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.Actions++
	t := now
	row.LastActionAt = &t
	return s.DB.Save(&row).Error
}

// CategoryBreadth counts distinct categories the user has acted in.
func (s *StatsService) CategoryBreadth(userID string) (int, error) {
	var count int64
	err := s.DB.Model(&models.UserCategoryStat{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// Categories lists the user's categories ordered by activity, most active
// first. Quest generation uses it for category affinity.
func (s *StatsService) Categories(userID string) ([]models.UserCategoryStat, error) {
	var rows []models.UserCategoryStat
	err := s.DB.Where("user_id = ?", userID).Order("actions DESC").Find(&rows).Error
	return rows, err
}
