package models

import "time"

// DailyQuest is a generated, time-boxed task for a single user
type DailyQuest struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	ActionType    string `gorm:"not null" json:"action_type"`
	RequiredCount int    `gorm:"not null" json:"required_count"`
	Category      string `json:"category"` // empty = any category
	Difficulty    int    `json:"difficulty"`

	XPReward     int64  `json:"xp_reward"`
	RewardItemID string `json:"reward_item_id,omitempty"`

	CurrentCount int  `json:"current_count" gorm:"default:0"`
	Completed    bool `json:"completed" gorm:"default:false"`
	Claimed      bool `json:"claimed" gorm:"default:false"`
	Active       bool `json:"active" gorm:"default:true"`

	ExpiresAt   time.Time  `gorm:"index" json:"expires_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`

	Timestamps
}

// Expired reports whether the quest window has passed.
func (q *DailyQuest) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// Matches reports whether an action of the given type/category advances
// this quest.
func (q *DailyQuest) Matches(action, category string) bool {
	if q.ActionType != action {
		return false
	}
	return q.Category == "" || q.Category == category
}

// Advance increments the counter and flips completion exactly once when
// the threshold is reached. Returns true on the completing increment.
func (q *DailyQuest) Advance(now time.Time) bool {
	if q.Completed || !q.Active || q.Expired(now) {
		return false
	}
	q.CurrentCount++
	if q.CurrentCount >= q.RequiredCount {
		q.Completed = true
		t := now
		q.CompletedAt = &t
		return true
	}
	return false
}
