package services

import (
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// MaxLevel caps the level curve.
const MaxLevel = 100

// XPWeights defines base XP per action type (tunable)
type XPWeights struct {
	Swipe    int64
	Rate     int64
	Review   int64
	Complete int64
}

// DefaultXPWeights reflect the shipped balance.
var DefaultXPWeights = XPWeights{
	Swipe:    5,
	Rate:     15,
	Review:   30,
	Complete: 20,
}

// For returns the base XP for an action type, 1 for unknown types.
func (w XPWeights) For(action string) int64 {
	switch action {
	case models.ActionSwipe:
		return w.Swipe
	case models.ActionRate:
		return w.Rate
	case models.ActionReview:
		return w.Review
	case models.ActionComplete:
		return w.Complete
	}
	return 1
}

// LevelForXP converts accumulated XP into a level: required XP for level n
// is 100*n², so level = floor(sqrt(xp/100)), never below 1, capped at 100.
func LevelForXP(xp int64) int {
	if xp < 100 {
		return 1
	}
	lvl := int(math.Sqrt(float64(xp) / 100.0))
	if lvl < 1 {
		lvl = 1
	}
	if lvl > MaxLevel {
		lvl = MaxLevel
	}
	return lvl
}

// XPForLevel returns the XP threshold at which the given level starts.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level) * int64(level) * 100
}

// LevelTitle maps a level to its display title.
func LevelTitle(level int) string {
	switch {
	case level >= 90:
		return "Легенда"
	case level >= 70:
		return "Мастер"
	case level >= 50:
		return "Знаток"
	case level >= 30:
		return "Энтузиаст"
	case level >= 10:
		return "Любитель"
	default:
		return "Новичок"
	}
}

// ProgressionService owns the user XP ledger.
type ProgressionService struct {
	DB      *gorm.DB
	Bus     *Bus
	Weights XPWeights
}

func NewProgressionService(db *gorm.DB, bus *Bus) *ProgressionService {
	return &ProgressionService{DB: db, Bus: bus, Weights: DefaultXPWeights}
}

// EnsureLedger loads or creates the ledger row for a user.
func (s *ProgressionService) EnsureLedger(userID string) (*models.UserLedger, error) {
	var ledger models.UserLedger
	err := s.DB.Where("user_id = ?", userID).First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ledger = models.UserLedger{
			ID:     uuid.NewString(),
			UserID: userID,
			Level:  1,
		}
		if err := s.DB.Create(&ledger).Error; err != nil {
			return nil, err
		}
		return &ledger, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// AwardXP credits XP to the user and recomputes the level. Multiplier is
// applied to base action XP only; reward XP (achievements, quests, rank
// bonuses) passes multiplier 1.0. The awarded amount is floor(xp*multiplier).
// Returns the updated ledger and whether a level-up happened.
func (s *ProgressionService) AwardXP(userID string, xp int64, multiplier float64, reason string, now time.Time) (*models.UserLedger, bool, error) {
	if xp < 0 {
		xp = 0
	}
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	awarded := int64(float64(xp) * multiplier)

	ledger, err := s.EnsureLedger(userID)
	if err != nil {
		return nil, false, err
	}

	prevLevel := ledger.Level
	ledger.Experience += awarded
	ledger.Level = LevelForXP(ledger.Experience)
	leveledUp := ledger.Level > prevLevel
	if leveledUp {
		t := now
		ledger.LastLevelUpAt = &t
	}

	if err := s.DB.Save(ledger).Error; err != nil {
		return nil, false, err
	}

	log.Printf("🎮 XP awarded: user=%s +%d (%s, x%.2f) → %d total, level %d", userID, awarded, reason, multiplier, ledger.Experience, ledger.Level)

	if leveledUp && s.Bus != nil {
		s.Bus.Publish(RewardEvent{
			Type:   EventLevelUp,
			UserID: userID,
			Title:  LevelTitle(ledger.Level),
			Payload: map[string]string{
				"level": strconv.Itoa(ledger.Level),
			},
			At: now,
		})
	}
	return ledger, leveledUp, nil
}

// Summary returns ledger state plus derived progress toward the next level.
type LevelSummary struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	Experience  int64  `json:"experience"`
	CurrentBase int64  `json:"current_level_xp"`
	NextAt      int64  `json:"next_level_xp"`
}

func (s *ProgressionService) Summary(userID string) (*LevelSummary, error) {
	ledger, err := s.EnsureLedger(userID)
	if err != nil {
		return nil, err
	}
	return &LevelSummary{
		Level:       ledger.Level,
		Title:       LevelTitle(ledger.Level),
		Experience:  ledger.Experience,
		CurrentBase: XPForLevel(ledger.Level),
		NextAt:      XPForLevel(ledger.Level + 1),
	}, nil
}
