package models

import "time"

// Challenge archetypes
const (
	ChallengeExplorer  = "explorer"
	ChallengeCritic    = "critic"
	ChallengeCollector = "collector"
)

// MilestoneThresholds and MilestoneRewards build the default milestone
// ladder: milestone i unlocks at Thresholds[i] matching actions and pays
// Rewards[i] XP.
var (
	MilestoneThresholds = []int{10, 25, 50}
	MilestoneRewards    = []int64{50, 100, 200}
	MilestoneTitles     = []string{"Бронзовый рубеж", "Серебряный рубеж", "Золотой рубеж"}
)

// ChallengeCompletionBonus is granted once when every milestone is reached.
const ChallengeCompletionBonus int64 = 500

// ThematicChallenge is a multi-milestone challenge, either bound to a
// seasonal event or permanent (year-long window).
type ThematicChallenge struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	Archetype  string `gorm:"not null" json:"archetype"` // explorer, critic, collector
	ActionType string `gorm:"not null" json:"action_type"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`

	XPReward int64  `json:"xp_reward"`
	EventID  string `gorm:"index" json:"event_id,omitempty"` // empty = permanent

	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `gorm:"index" json:"ends_at"`
	Active   bool      `json:"active" gorm:"default:true"`

	Timestamps
}

// InWindow reports whether the challenge accepts progress at the given time.
func (c *ThematicChallenge) InWindow(now time.Time) bool {
	return c.Active && !now.Before(c.StartsAt) && !now.After(c.EndsAt)
}

// ActionFor maps a challenge archetype to the action type it counts.
func ActionFor(archetype string) string {
	switch archetype {
	case ChallengeCritic:
		return ActionRate
	case ChallengeCollector:
		return ActionComplete
	default:
		return ActionSwipe
	}
}

// ChallengeMilestone is one rung of a challenge's reward ladder, with
// strictly increasing thresholds per challenge.
type ChallengeMilestone struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengeID string `gorm:"not null;index" json:"challenge_id"`
	OrderIndex  int    `gorm:"not null" json:"order_index"`

	Title            string `json:"title"`
	RequiredProgress int    `gorm:"not null" json:"required_progress"`
	XPReward         int64  `json:"xp_reward"`
	RewardItemID     string `json:"reward_item_id,omitempty"`
}

// DefaultMilestones builds the standard three-rung ladder for a challenge.
func DefaultMilestones(challengeID string) []ChallengeMilestone {
	out := make([]ChallengeMilestone, 0, len(MilestoneThresholds))
	for i, threshold := range MilestoneThresholds {
		out = append(out, ChallengeMilestone{
			ChallengeID:      challengeID,
			OrderIndex:       i,
			Title:            MilestoneTitles[i],
			RequiredProgress: threshold,
			XPReward:         MilestoneRewards[i],
		})
	}
	return out
}

// UserChallengeProgress tracks one user's progress through a challenge.
// MilestoneBits is a bitset of reached milestones (bit i = milestone i).
type UserChallengeProgress struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"not null;index;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID string `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`

	Challenge ThematicChallenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`

	CurrentCount  int  `json:"current_count" gorm:"default:0"`
	MilestoneBits int  `json:"milestone_bits" gorm:"default:0"`
	Completed     bool `json:"completed" gorm:"default:false"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// MilestoneReached reports whether milestone i is already marked.
func (p *UserChallengeProgress) MilestoneReached(i int) bool {
	return p.MilestoneBits&(1<<i) != 0
}

// MarkMilestone sets milestone i; returns false if it was already set.
func (p *UserChallengeProgress) MarkMilestone(i int) bool {
	if p.MilestoneReached(i) {
		return false
	}
	p.MilestoneBits |= 1 << i
	return true
}

// AllMilestonesReached reports whether the first count milestones are set.
func (p *UserChallengeProgress) AllMilestonesReached(count int) bool {
	for i := 0; i < count; i++ {
		if !p.MilestoneReached(i) {
			return false
		}
	}
	return count > 0
}
