package models

import (
	"time"
)

// Action types processed by the engine
const (
	ActionSwipe    = "swipe"
	ActionRate     = "rate"
	ActionReview   = "review"
	ActionComplete = "complete" // watched / read / played through

	// Virtual counters used by achievement rules only
	ActionTotal  = "total"
	ActionStreak = "streak"
)

// UserStats tracks per-user activity counters. Counters never decrease;
// TotalActions stays equal to Swipes+Ratings+Reviews+Consumed.
type UserStats struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	Swipes      int `json:"swipes" gorm:"default:0"`
	RightSwipes int `json:"right_swipes" gorm:"default:0"`
	LeftSwipes  int `json:"left_swipes" gorm:"default:0"`
	Ratings     int `json:"ratings" gorm:"default:0"`
	Reviews     int `json:"reviews" gorm:"default:0"`
	Consumed    int `json:"consumed" gorm:"default:0"`

	TotalActions int `json:"total_actions" gorm:"default:0"`

	StreakDays     int        `json:"streak_days" gorm:"default:0"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`

	AchievementsCount int `json:"achievements_count" gorm:"default:0"`

	Timestamps
}

// CounterFor returns the counter backing the given action type.
func (s *UserStats) CounterFor(action string) int {
	switch action {
	case ActionSwipe:
		return s.Swipes
	case ActionRate:
		return s.Ratings
	case ActionReview:
		return s.Reviews
	case ActionComplete:
		return s.Consumed
	case ActionTotal:
		return s.TotalActions
	case ActionStreak:
		return s.StreakDays
	}
	return 0
}

// UpdateStreak recomputes the consecutive-day counter from the previous
// activity date. Same calendar day leaves it unchanged, the next day
// increments, any larger gap resets to 1.
func (s *UserStats) UpdateStreak(now time.Time) {
	if s.LastActivityAt == nil {
		s.StreakDays = 1
	} else {
		prev := truncateToDay(*s.LastActivityAt)
		cur := truncateToDay(now)
		switch days := int(cur.Sub(prev).Hours() / 24); {
		case days == 0:
			// already active today
		case days == 1:
			s.StreakDays++
		default:
			s.StreakDays = 1
		}
	}
	t := now
	s.LastActivityAt = &t
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UserCategoryStat records activity per content category; the row count per
// user is the "category breadth" input to rank progression.
type UserCategoryStat struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"not null;index;uniqueIndex:idx_user_category" json:"user_id"`
	Category string `gorm:"not null;uniqueIndex:idx_user_category" json:"category"`

	Actions      int        `json:"actions" gorm:"default:0"`
	LastActionAt *time.Time `json:"last_action_at,omitempty"`
}
