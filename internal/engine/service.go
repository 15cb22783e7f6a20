// Package engine turns user activity into ledger entries: award math with
// multipliers, coin minting and reclaiming, the undo protocol, content
// generation for daily challenges and the weekly boss, and the day/week
// rollover heartbeat.
package engine

import (
	"log/slog"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// Engine drives all point/coin-affecting operations against a store.
// Construct one per store; the store serializes the actual transitions.
type Engine struct {
	store *state.Store
	clock func() time.Time
	log   *slog.Logger

	powerHourMinutes  int
	powerHourCoinCost int
}

type Option func(*Engine)

// WithClock injects the time source, used by tests to pin "today".
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.clock = fn }
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPowerHour overrides the power hour duration and coin cost.
func WithPowerHour(minutes, coinCost int) Option {
	return func(e *Engine) {
		e.powerHourMinutes = minutes
		e.powerHourCoinCost = coinCost
	}
}

func New(store *state.Store, opts ...Option) *Engine {
	e := &Engine{
		store:             store,
		clock:             time.Now,
		log:               slog.Default(),
		powerHourMinutes:  60,
		powerHourCoinCost: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the underlying store for read access and subscriptions.
func (e *Engine) Store() *state.Store { return e.store }

func (e *Engine) now() time.Time { return e.clock() }

// today returns the engine's notion of the current day: the runtime day
// key if set, else the clock's.
func (e *Engine) today(s *state.State) string {
	if s.Today.Day != "" {
		return s.Today.Day
	}
	return timeutil.DayKey(e.now())
}

// rebuildAction derives fresh aggregates over the given ledger contents,
// which may include entries that are part of the same pending batch.
func rebuildAction(s *state.State, entries []ledger.Entry, today string) state.ProgressRebuild {
	r := ledger.Rebuild(s.HabitSchedules(), entries, today, s.Profile.BestStreak, s.MissedTodos)
	return state.ProgressRebuild{
		Progress:   r.Progress,
		CoinsTotal: r.CoinsTotal,
		Streak:     r.Streak,
		BestStreak: r.BestStreak,
	}
}

// Rebuild recomputes and republishes all derived aggregates.
func (e *Engine) Rebuild() error {
	s := e.store.State()
	return e.store.Dispatch(rebuildAction(s, s.Ledger, e.today(s)))
}

// netToday is the positive-minus-negative entry count for a subject on
// the given day, used to answer "is this already done today".
func netToday(s *state.State, typ ledger.EntryType, subjectID, day string) int {
	net := 0
	for i := len(s.Ledger) - 1; i >= 0; i-- {
		e := s.Ledger[i]
		if e.Day != day || e.Type != typ || e.SubjectID != subjectID {
			continue
		}
		if e.PointsDelta > 0 {
			net++
		} else if e.PointsDelta < 0 {
			net--
		}
	}
	if net < 0 {
		return 0
	}
	return net
}

// countPositiveToday counts positive awards for a subject on a day,
// regardless of undos. Used for max-per-day throttling.
func countPositiveToday(s *state.State, typ ledger.EntryType, subjectID, day string) int {
	n := 0
	for i := len(s.Ledger) - 1; i >= 0; i-- {
		e := s.Ledger[i]
		if e.Day == day && e.Type == typ && e.SubjectID == subjectID && e.PointsDelta > 0 {
			n++
		}
	}
	return n
}

// bossTally recomputes a goal's tick count from the ledger for the week
// starting at weekStart. Day keys sort lexically, so the range check is a
// string comparison.
func bossTally(s *state.State, goalID, weekStart string) int {
	weekEnd := timeutil.AddDays(weekStart, 6)
	net := 0
	for i := len(s.Ledger) - 1; i >= 0; i-- {
		e := s.Ledger[i]
		if e.Type != ledger.TypeBoss || e.SubjectID != goalID {
			continue
		}
		if e.Day < weekStart || e.Day > weekEnd {
			continue
		}
		if e.PointsDelta > 0 {
			net++
		} else if e.PointsDelta < 0 {
			net--
		}
	}
	if net < 0 {
		return 0
	}
	return net
}
