package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"content-rewards-system/models"
)

func TestSeedCalendar(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, NewBus())

	if err := svc.SeedCalendar(2026); err != nil {
		t.Fatalf("SeedCalendar: %v", err)
	}
	if err := svc.SeedCalendar(2026); err != nil {
		t.Fatalf("SeedCalendar repeat: %v", err)
	}

	events, err := svc.AllEvents()
	if err != nil {
		t.Fatalf("AllEvents: %v", err)
	}
	if len(events) != 6 {
		t.Fatalf("calendar size = %d, want 6", len(events))
	}
}

func TestRefreshActivatesEventsInWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, NewBus())
	if err := svc.SeedCalendar(2026); err != nil {
		t.Fatalf("SeedCalendar: %v", err)
	}

	// Halloween runs Oct 25 – Nov 1; refresh a few hours into it.
	now := time.Date(2026, time.October, 25, 6, 0, 0, 0, time.UTC)
	started, ended, err := svc.Refresh(now)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(ended) != 0 {
		t.Errorf("ended = %d, want 0", len(ended))
	}
	if len(started) != 1 || started[0].Code != "halloween" {
		t.Fatalf("started = %+v, want only halloween", started)
	}

	active, _ := svc.ActiveEvents(now)
	if len(active) != 1 || active[0].Code != "halloween" {
		t.Fatalf("active = %+v, want only halloween", active)
	}

	// Stable on repeat.
	started, ended, err = svc.Refresh(now)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(started) != 0 || len(ended) != 0 {
		t.Errorf("repeat refresh transitions = %d/%d, want 0/0", len(started), len(ended))
	}
}

func TestRefreshStaleFlipIsSilent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, NewBus())
	if err := svc.SeedCalendar(2026); err != nil {
		t.Fatalf("SeedCalendar: %v", err)
	}

	// Mid-window, far from both boundaries: state flips but no announcement.
	now := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)
	started, _, err := svc.Refresh(now)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(started) != 0 {
		t.Errorf("stale flip announced %d events, want 0", len(started))
	}
	active, _ := svc.ActiveEvents(now)
	if len(active) != 1 || active[0].Code != "summer-marathon" {
		t.Fatalf("active = %+v, want summer-marathon despite silent flip", active)
	}
}

func TestCurrentXPMultiplier(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, NewBus())
	now := time.Now()

	// No events: neutral.
	if m := svc.CurrentXPMultiplier(now); m != 1.0 {
		t.Fatalf("multiplier = %v without events, want 1.0", m)
	}

	for _, mult := range []float64{1.2, 1.5} {
		db.Create(&models.SeasonalEvent{
			ID:           uuid.NewString(),
			Code:         uuid.NewString(),
			Title:        "evt",
			StartsAt:     now.Add(-time.Hour),
			EndsAt:       now.Add(time.Hour),
			XPMultiplier: mult,
			Active:       true,
		})
	}
	if m := svc.CurrentXPMultiplier(now); m != 1.5 {
		t.Errorf("multiplier = %v, want the max 1.5", m)
	}
}

func TestCreateAndDeleteEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, NewBus())
	now := time.Now()

	ev, err := svc.Create("Специальное событие", "desc", models.EventHoliday, now, now.Add(48*time.Hour), 1.4, true, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ev.Code == "" {
		t.Error("created event has no code")
	}

	if err := svc.Delete(ev.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ev.ID); err == nil {
		t.Error("deleting a missing event should fail")
	}
}
