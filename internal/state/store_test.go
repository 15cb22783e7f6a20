package state

import (
	"errors"
	"testing"

	"emberday/internal/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(Migrate(nil, "2025-03-12"), nil, nil)
}

func TestDispatchAppendsLedger(t *testing.T) {
	s := newTestStore(t)
	e := ledger.New(ledger.TypeTask, "ti_1", "Laundry", 20, 0, "2025-03-12")
	if err := s.Dispatch(LedgerAppend{Entry: e}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := len(s.State().Ledger); got != 1 {
		t.Fatalf("ledger len=%d, want 1", got)
	}
}

func TestDispatchRejectsInvalidEntry(t *testing.T) {
	s := newTestStore(t)
	e := ledger.Entry{ID: "x", Type: "bogus", Day: "2025-03-12"}
	err := s.Dispatch(LedgerAppend{Entry: e})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(s.State().Ledger) != 0 {
		t.Fatal("rejected action must not mutate state")
	}
}

func TestDispatchOnceDeduplicates(t *testing.T) {
	s := newTestStore(t)
	e := ledger.New(ledger.TypeHabit, "hb_1", "Stretch", 10, 0, "2025-03-12")
	for i := 0; i < 3; i++ {
		if err := s.DispatchOnce("award-1", LedgerAppend{Entry: e}); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	if got := len(s.State().Ledger); got != 1 {
		t.Fatalf("ledger len=%d, want 1 (duplicates dropped)", got)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(t)
	var seen []string
	unsub := s.Subscribe(func(_ *State, a Action) {
		seen = append(seen, a.Name())
	})

	if err := s.Dispatch(Tick{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	unsub()
	if err := s.Dispatch(Tick{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(seen) != 1 || seen[0] != "APP_TICK" {
		t.Fatalf("seen=%v, want exactly one APP_TICK", seen)
	}
}

func TestEntityLifecycle(t *testing.T) {
	s := newTestStore(t)
	if err := s.Dispatch(HabitAdd{Habit: Habit{Title: "Read", Kind: HabitCounter, TargetPerDay: 0, PointsOnComplete: 10, Active: true}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	h := s.State().Habits[0]
	if h.ID == "" {
		t.Fatal("habit id not assigned")
	}
	if h.TargetPerDay != 1 {
		t.Fatalf("counter target clamped to %d, want 1", h.TargetPerDay)
	}

	if err := s.Dispatch(HabitToggleActive{ID: h.ID}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.State().Habits[0].Active {
		t.Fatal("toggle did not deactivate")
	}

	if err := s.Dispatch(HabitDelete{ID: h.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.State().Habits) != 0 {
		t.Fatal("habit not deleted")
	}

	err := s.Dispatch(HabitUpdate{Habit: Habit{ID: "missing"}})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("update of missing habit: want ValidationError, got %v", err)
	}
}

func TestProgressRebuildKeepsBestStreakMonotonic(t *testing.T) {
	s := newTestStore(t)
	if err := s.Dispatch(ProgressRebuild{BestStreak: 7, Streak: ledger.Streak{Current: 7}}); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if err := s.Dispatch(ProgressRebuild{BestStreak: 3, Streak: ledger.Streak{Current: 0}}); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if got := s.State().Profile.BestStreak; got != 7 {
		t.Fatalf("bestStreak=%d, want 7 (never decreases)", got)
	}
}
