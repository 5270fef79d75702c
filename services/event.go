package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// eventBoundaryWindow bounds how long after a window edge a flip is still
// announced as a fresh transition. Flips detected later (after downtime)
// update state silently.
const eventBoundaryWindow = 12 * time.Hour

// EventService owns the seasonal event calendar.
type EventService struct {
	DB  *gorm.DB
	Bus *Bus
}

func NewEventService(db *gorm.DB, bus *Bus) *EventService {
	return &EventService{DB: db, Bus: bus}
}

// SeedCalendar inserts the default yearly calendar if the table is empty.
func (s *EventService) SeedCalendar(year int) error {
	var count int64
	if err := s.DB.Model(&models.SeasonalEvent{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, ev := range models.DefaultEvents(year) {
		ev.ID = uuid.NewString()
		if err := s.DB.Create(&ev).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded seasonal event calendar for %d", year)
	return nil
}

// ActiveEvents lists events currently flagged active.
func (s *EventService) ActiveEvents(now time.Time) ([]models.SeasonalEvent, error) {
	var events []models.SeasonalEvent
	err := s.DB.
		Where("active = ? AND starts_at <= ? AND ends_at >= ?", true, now, now).
		Find(&events).Error
	return events, err
}

// AllEvents lists the full calendar.
func (s *EventService) AllEvents() ([]models.SeasonalEvent, error) {
	var events []models.SeasonalEvent
	err := s.DB.Order("starts_at ASC").Find(&events).Error
	return events, err
}

// Refresh recomputes each event's active flag from its window. Flips close
// to a window boundary are returned as started/ended transitions; stale
// flips only fix up state.
func (s *EventService) Refresh(now time.Time) (started, ended []models.SeasonalEvent, err error) {
	var events []models.SeasonalEvent
	if err := s.DB.Find(&events).Error; err != nil {
		return nil, nil, err
	}
	for i := range events {
		ev := &events[i]
		inWindow := ev.Contains(now)
		if inWindow == ev.Active {
			continue
		}
		ev.Active = inWindow
		if err := s.DB.Save(ev).Error; err != nil {
			return started, ended, err
		}
		fresh := ev.NearBoundary(now, eventBoundaryWindow)
		if inWindow {
			log.Printf("🎉 Event started: %q (x%.1f XP)", ev.Title, ev.XPMultiplier)
			if fresh {
				started = append(started, *ev)
				s.publish(EventSeasonStarted, ev, now)
			}
		} else {
			log.Printf("🌙 Event ended: %q", ev.Title)
			if fresh {
				ended = append(ended, *ev)
				s.publish(EventSeasonEnded, ev, now)
			}
		}
	}
	return started, ended, nil
}

func (s *EventService) publish(eventType string, ev *models.SeasonalEvent, now time.Time) {
	if s.Bus == nil {
		return
	}
	s.Bus.Publish(RewardEvent{
		Type:  eventType,
		Title: ev.Title,
		Payload: map[string]string{
			"event_id": ev.ID,
			"code":     ev.Code,
		},
		At: now,
	})
}

// CurrentXPMultiplier returns the best multiplier among active events,
// 1.0 when none is running.
func (s *EventService) CurrentXPMultiplier(now time.Time) float64 {
	events, err := s.ActiveEvents(now)
	if err != nil {
		log.Printf("❌ event multiplier lookup failed: %v", err)
		return 1.0
	}
	best := 1.0
	for _, ev := range events {
		if ev.XPMultiplier > best {
			best = ev.XPMultiplier
		}
	}
	return best
}

// Create adds an admin-defined event to the calendar.
func (s *EventService) Create(title, description, eventType string, startsAt, endsAt time.Time, multiplier float64, specialItems, specialQuests bool) (*models.SeasonalEvent, error) {
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	ev := models.SeasonalEvent{
		ID:               uuid.NewString(),
		Code:             slug.Make(title),
		Title:            title,
		Description:      description,
		EventType:        eventType,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		XPMultiplier:     multiplier,
		HasSpecialItems:  specialItems,
		HasSpecialQuests: specialQuests,
	}
	if err := s.DB.Create(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// Delete removes an event from the calendar.
func (s *EventService) Delete(eventID string) error {
	res := s.DB.Where("id = ?", eventID).Delete(&models.SeasonalEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ByID loads one event.
func (s *EventService) ByID(eventID string) (*models.SeasonalEvent, error) {
	var ev models.SeasonalEvent
	if err := s.DB.Where("id = ?", eventID).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}
