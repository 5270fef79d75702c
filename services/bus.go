package services

import (
	"sync"
	"time"
)

// Reward event types published on the bus
const (
	EventLevelUp             = "level_up"
	EventAchievementUnlocked = "achievement_unlocked"
	EventQuestCompleted      = "quest_completed"
	EventQuestClaimed        = "quest_claimed"
	EventMilestoneReached    = "milestone_reached"
	EventChallengeCompleted  = "challenge_completed"
	EventRankUnlocked        = "rank_unlocked"
	EventRankActivated       = "rank_activated"
	EventItemGranted         = "item_granted"
	EventSeasonStarted       = "event_started"
	EventSeasonEnded         = "event_ended"
)

// RewardEvent is a single notification emitted by the engine.
type RewardEvent struct {
	Type    string            `json:"type"`
	UserID  string            `json:"user_id,omitempty"`
	Title   string            `json:"title,omitempty"`
	XP      int64             `json:"xp,omitempty"`
	Payload map[string]string `json:"payload,omitempty"`
	At      time.Time         `json:"at"`
}

// Bus fans RewardEvents out to subscribers. Publish never blocks; a
// subscriber that cannot keep up loses events.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan RewardEvent
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan RewardEvent)}
}

// Subscribe returns a buffered event channel and an unsubscribe func.
func (b *Bus) Subscribe() (<-chan RewardEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan RewardEvent, 64)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(ev RewardEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
