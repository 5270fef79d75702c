package services

import (
	"testing"
	"time"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 1},
		{399, 1},
		{400, 2},
		{899, 2},
		{900, 3},
		{10000, 10},
		{250000, 50},
		{1000000, 100},
		{5000000, 100}, // capped
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", c.xp, got, c.level)
		}
	}
}

func TestXPForLevel(t *testing.T) {
	if got := XPForLevel(1); got != 0 {
		t.Errorf("XPForLevel(1) = %d, want 0", got)
	}
	if got := XPForLevel(5); got != 2500 {
		t.Errorf("XPForLevel(5) = %d, want 2500", got)
	}
}

func TestLevelTitle(t *testing.T) {
	cases := map[int]string{
		1:   "Новичок",
		10:  "Любитель",
		30:  "Энтузиаст",
		50:  "Знаток",
		70:  "Мастер",
		100: "Легенда",
	}
	for level, want := range cases {
		if got := LevelTitle(level); got != want {
			t.Errorf("LevelTitle(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestAwardXPMultiplierTruncates(t *testing.T) {
	db := newTestDB(t)
	prog := NewProgressionService(db, NewBus())
	now := time.Now()

	ledger, _, err := prog.AwardXP("u1", 10, 1.5, "test", now)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if ledger.Experience != 15 {
		t.Errorf("experience = %d, want 15", ledger.Experience)
	}

	// 5 * 1.3 = 6.5 truncates down
	ledger, _, err = prog.AwardXP("u1", 5, 1.3, "test", now)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if ledger.Experience != 21 {
		t.Errorf("experience = %d, want 21", ledger.Experience)
	}
}

func TestAwardXPLevelUp(t *testing.T) {
	db := newTestDB(t)
	bus := NewBus()
	prog := NewProgressionService(db, bus)
	events, unsub := bus.Subscribe()
	defer unsub()
	now := time.Now()

	ledger, up, err := prog.AwardXP("u1", 399, 1.0, "test", now)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if up || ledger.Level != 1 {
		t.Fatalf("level = %d (up=%v), want 1 without level-up", ledger.Level, up)
	}

	ledger, up, err = prog.AwardXP("u1", 1, 1.0, "test", now)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if !up || ledger.Level != 2 {
		t.Fatalf("level = %d (up=%v), want 2 with level-up", ledger.Level, up)
	}

	select {
	case ev := <-events:
		if ev.Type != EventLevelUp {
			t.Errorf("event type = %q, want %q", ev.Type, EventLevelUp)
		}
	default:
		t.Error("expected a level-up event on the bus")
	}
}

func TestAwardXPNegativeClamped(t *testing.T) {
	db := newTestDB(t)
	prog := NewProgressionService(db, NewBus())

	ledger, _, err := prog.AwardXP("u1", -50, 1.0, "test", time.Now())
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if ledger.Experience != 0 {
		t.Errorf("experience = %d, want 0", ledger.Experience)
	}
}
