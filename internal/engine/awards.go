package engine

import (
	"math"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
)

// PowerHourMultiplier is applied to every award while power hour runs.
const PowerHourMultiplier = 1.5

// AwardResult reports a committed award.
type AwardResult struct {
	Entry       ledger.Entry
	Points      int
	CoinsMinted int
	PowerHour   bool
}

// UndoResult reports a committed undo.
type UndoResult struct {
	Points         int // points removed (positive number)
	CoinsReclaimed int
}

// powerHourActive reports whether power hour is running at the given time.
func powerHourActive(s *state.State, now time.Time) bool {
	return s.Today.PowerHourEndsAt > 0 && now.UnixMilli() < s.Today.PowerHourEndsAt
}

// applyMultipliers is the single gate every award passes through: power
// hour (x1.5) when active, rounded, never below 1.
func applyMultipliers(s *state.State, now time.Time, base int) int {
	x := float64(base)
	if powerHourActive(s, now) {
		x *= PowerHourMultiplier
	}
	p := int(math.Round(x))
	if p < 1 {
		p = 1
	}
	return p
}

// appendWithMint appends a positive award entry and mints coins from the
// carry-over bucket. The award entry, the optional mint entry, the today
// patch, any extra actions and the rebuild commit as one batch.
//
// After it returns, 0 <= coinsUnminted < pointsPerCoin.
func (e *Engine) appendWithMint(typ ledger.EntryType, subjectID, label string, points int, extra ...state.Action) (*AwardResult, error) {
	s := e.store.State()
	day := e.today(s)
	rate := s.Settings.PointsPerCoin
	if rate < 1 {
		rate = state.DefaultPointsPerCoin
	}

	entry := ledger.New(typ, subjectID, label, points, 0, day)
	entries := append(append([]ledger.Entry{}, s.Ledger...), entry)

	bucket := s.Today.CoinsUnminted + points
	minted := 0
	for bucket >= rate {
		minted++
		bucket -= rate
	}
	actions := []state.Action{state.LedgerAppend{Entry: entry}}
	if minted > 0 {
		mint := ledger.New(ledger.TypeMint, "coins", "Coin mint", 0, minted, day)
		entries = append(entries, mint)
		actions = append(actions, state.LedgerAppend{Entry: mint})
	}

	runtime := s.Today.PointsRuntime + points
	actions = append(actions, state.TodayPatch{CoinsUnminted: &bucket, PointsRuntime: &runtime})
	actions = append(actions, extra...)
	actions = append(actions, rebuildAction(s, entries, day))

	if err := e.store.DispatchBatch(actions...); err != nil {
		return nil, err
	}
	return &AwardResult{
		Entry:       entry,
		Points:      points,
		CoinsMinted: minted,
		PowerHour:   powerHourActive(s, e.now()),
	}, nil
}

// appendWithReclaim appends a negative (undo) entry, reclaiming coins if
// the bucket would go below zero. It fails before mutating anything when
// the profile cannot cover the reclaim.
func (e *Engine) appendWithReclaim(typ ledger.EntryType, subjectID, label string, negativePoints int, extra ...state.Action) (*UndoResult, error) {
	s := e.store.State()
	day := e.today(s)
	rate := s.Settings.PointsPerCoin
	if rate < 1 {
		rate = state.DefaultPointsPerCoin
	}

	bucket := s.Today.CoinsUnminted + negativePoints
	needReclaim := 0
	for bucket < 0 {
		needReclaim++
		bucket += rate
	}
	if needReclaim > 0 && s.Profile.Coins < needReclaim {
		return nil, ReclaimError{Needed: needReclaim, Available: s.Profile.Coins}
	}

	entry := ledger.New(typ, subjectID, label, negativePoints, 0, day)
	entries := append(append([]ledger.Entry{}, s.Ledger...), entry)
	actions := []state.Action{state.LedgerAppend{Entry: entry}}
	if needReclaim > 0 {
		back := ledger.New(ledger.TypeMint, "coins", "Coin reclaim", 0, -needReclaim, day)
		entries = append(entries, back)
		actions = append(actions, state.LedgerAppend{Entry: back})
	}

	runtime := s.Today.PointsRuntime + negativePoints
	if runtime < 0 {
		runtime = 0
	}
	actions = append(actions, state.TodayPatch{CoinsUnminted: &bucket, PointsRuntime: &runtime})
	actions = append(actions, extra...)
	actions = append(actions, rebuildAction(s, entries, day))

	if err := e.store.DispatchBatch(actions...); err != nil {
		return nil, err
	}
	return &UndoResult{Points: -negativePoints, CoinsReclaimed: needReclaim}, nil
}

// findLastPositive scans backward for today's most recent positive award
// for the subject.
func findLastPositive(s *state.State, typ ledger.EntryType, subjectID, day string) *ledger.Entry {
	for i := len(s.Ledger) - 1; i >= 0; i-- {
		entry := s.Ledger[i]
		if entry.Day != day || entry.Type != typ || entry.SubjectID != subjectID {
			continue
		}
		if entry.PointsDelta > 0 {
			return &entry
		}
	}
	return nil
}

// UndoLastFor reverses the most recent same-day positive award for a
// subject. This is a point-in-time undo: coins are fungible, so
// intervening mints from other awards are not unwound.
func (e *Engine) UndoLastFor(typ ledger.EntryType, subjectID string, extra ...state.Action) (*UndoResult, error) {
	s := e.store.State()
	last := findLastPositive(s, typ, subjectID, e.today(s))
	if last == nil {
		return nil, ErrNothingToUndo
	}
	pts := last.PointsDelta
	if pts < 0 {
		pts = -pts
	}
	return e.appendWithReclaim(typ, subjectID, last.SubjectLabel, -pts, extra...)
}
