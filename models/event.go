package models

import "time"

// Event types
const (
	EventHoliday  = "holiday"
	EventSeasonal = "seasonal"
)

// SeasonalEvent is a calendar window with an XP multiplier and optional
// special content flags.
type SeasonalEvent struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`

	StartsAt time.Time `gorm:"index" json:"starts_at"`
	EndsAt   time.Time `gorm:"index" json:"ends_at"`

	XPMultiplier float64 `json:"xp_multiplier" gorm:"default:1.0"`

	HasSpecialItems  bool `json:"has_special_items" gorm:"default:false"`
	HasSpecialQuests bool `json:"has_special_quests" gorm:"default:false"`

	Active bool `json:"active" gorm:"default:false"`

	Timestamps
}

// Contains reports whether the instant falls inside the event window.
func (e *SeasonalEvent) Contains(now time.Time) bool {
	return !now.Before(e.StartsAt) && !now.After(e.EndsAt)
}

// NearBoundary reports whether the instant is within the given distance of
// either window edge. Used to decide whether an activation flip is a fresh
// transition worth announcing.
func (e *SeasonalEvent) NearBoundary(now time.Time, within time.Duration) bool {
	if d := now.Sub(e.StartsAt); d >= 0 && d <= within {
		return true
	}
	if d := e.EndsAt.Sub(now); d >= 0 && d <= within {
		return true
	}
	return false
}

// DefaultEvents builds the seeded event calendar for a given year.
func DefaultEvents(year int) []SeasonalEvent {
	d := func(m time.Month, day, h int) time.Time {
		return time.Date(year, m, day, h, 0, 0, 0, time.UTC)
	}
	return []SeasonalEvent{
		{
			Code: "new-year-magic", Title: "Новогоднее волшебство",
			Description: "Праздничный контент и двойные награды",
			EventType:   EventHoliday,
			StartsAt:    d(time.December, 20, 0), EndsAt: time.Date(year+1, time.January, 10, 23, 0, 0, 0, time.UTC),
			XPMultiplier: 1.5, HasSpecialItems: true, HasSpecialQuests: true,
		},
		{
			Code: "spring-renewal", Title: "Весеннее обновление",
			Description: "Свежие подборки к началу весны",
			EventType:   EventSeasonal,
			StartsAt:    d(time.March, 1, 0), EndsAt: d(time.March, 31, 23),
			XPMultiplier: 1.2, HasSpecialQuests: true,
		},
		{
			Code: "summer-marathon", Title: "Летний марафон",
			Description: "Марафон контента на всё лето",
			EventType:   EventSeasonal,
			StartsAt:    d(time.June, 1, 0), EndsAt: d(time.August, 31, 23),
			XPMultiplier: 1.2, HasSpecialItems: true, HasSpecialQuests: true,
		},
		{
			Code: "autumn-festival", Title: "Осенний фестиваль",
			Description: "Осенние тематические подборки",
			EventType:   EventSeasonal,
			StartsAt:    d(time.September, 15, 0), EndsAt: d(time.October, 15, 23),
			XPMultiplier: 1.2, HasSpecialQuests: true,
		},
		{
			Code: "halloween", Title: "Хэллоуин",
			Description: "Хорроры и мистика со множителем опыта",
			EventType:   EventHoliday,
			StartsAt:    d(time.October, 25, 0), EndsAt: d(time.November, 1, 23),
			XPMultiplier: 1.5, HasSpecialItems: true,
		},
		{
			Code: "valentines-day", Title: "День всех влюбленных",
			Description: "Романтический контент к 14 февраля",
			EventType:   EventHoliday,
			StartsAt:    d(time.February, 10, 0), EndsAt: d(time.February, 16, 23),
			XPMultiplier: 1.3, HasSpecialItems: true,
		},
	}
}
