package engine

import (
	"fmt"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// checkLibraryThrottles applies the item's gating rules against now.
// Order matters for messaging: weekday first, then cooldown, then the
// per-day cap.
func (e *Engine) checkLibraryThrottles(s *state.State, it *state.LibraryItem, now time.Time) error {
	if !weekdayAllowed(it.AllowedWeekdays, timeutil.WeekdayIndex(timeutil.DayKey(now))) {
		return ThrottleError{Subject: it.Title, Reason: "not allowed today"}
	}
	if it.CooldownHours > 0 && it.LastDoneAt > 0 {
		readyAt := time.UnixMilli(it.LastDoneAt).Add(time.Duration(it.CooldownHours) * time.Hour)
		if now.Before(readyAt) {
			left := readyAt.Sub(now).Round(time.Minute)
			return ThrottleError{Subject: it.Title, Reason: fmt.Sprintf("cooling down for %s", left)}
		}
	}
	if it.MaxPerDay > 0 {
		done := countPositiveToday(s, ledger.TypeLibrary, it.ID, timeutil.DayKey(now))
		if done >= it.MaxPerDay {
			return ThrottleError{Subject: it.Title, Reason: fmt.Sprintf("daily cap of %d reached", it.MaxPerDay)}
		}
	}
	return nil
}

// TapLibraryItem awards one completion of a library item, enforcing its
// weekday, cooldown and per-day throttles.
func (e *Engine) TapLibraryItem(id string) (*AwardResult, error) {
	s := e.store.State()
	it := s.FindLibraryItem(id)
	if it == nil {
		return nil, fmt.Errorf("library item %s not found", id)
	}
	if !it.Active {
		return nil, ThrottleError{Subject: it.Title, Reason: "archived"}
	}
	now := e.now()
	if err := e.checkLibraryThrottles(s, it, now); err != nil {
		return nil, err
	}
	pts := applyMultipliers(s, now, it.Points)
	touch := state.LibraryTouch{ID: it.ID, LastDoneAt: now.UnixMilli()}
	return e.appendWithMint(ledger.TypeLibrary, it.ID, it.Title, pts, touch)
}

// UndoLibraryTap reverses today's most recent tap of an item. The
// cooldown stamp is left alone so undo does not re-open the cooldown
// window early.
func (e *Engine) UndoLibraryTap(id string) (*UndoResult, error) {
	s := e.store.State()
	it := s.FindLibraryItem(id)
	if it == nil {
		return nil, fmt.Errorf("library item %s not found", id)
	}
	return e.UndoLastFor(ledger.TypeLibrary, it.ID)
}
