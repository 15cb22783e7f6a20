package engine

import (
	"fmt"
	"math"
	"sort"

	"emberday/internal/ledger"
	"emberday/internal/seeds"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// GenerateDailyChallenges picks today's challenge set from the library.
// It is pure and deterministic for a given day key and library contents:
// the pool is shuffled with a seed hashed from the day key, then stably
// re-ordered so items not assigned yesterday come first, and the reward
// is frozen into the snapshot with the challenge multiplier applied.
func GenerateDailyChallenges(s *state.State, dayKey string) state.DailyAssignment {
	n := clampInt(s.Settings.DailyChallengesCount, 0, 10)
	mult := clampFloat(s.Settings.ChallengeMultiplier, 1.0, 2.0)
	weekday := timeutil.WeekdayIndex(dayKey)

	var pool []state.LibraryItem
	for _, it := range s.Library {
		if !it.Active || !it.IncludeInChallenges {
			continue
		}
		if !weekdayAllowed(it.AllowedWeekdays, weekday) {
			continue
		}
		pool = append(pool, it)
	}

	yesterday := map[string]bool{}
	if prev, ok := s.DailyAssignments[timeutil.AddDays(dayKey, -1)]; ok {
		for _, id := range prev.ChallengeIDs {
			yesterday[id] = true
		}
	}

	shuffled := seeds.Shuffle(pool, seeds.HashString("CHAL:"+dayKey))
	// Items absent from yesterday's assignment sort first; ties keep the
	// shuffle order. Repeats stay possible when the pool is small.
	sort.SliceStable(shuffled, func(i, j int) bool {
		return !yesterday[shuffled[i].ID] && yesterday[shuffled[j].ID]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	chosen := shuffled[:n]

	out := state.DailyAssignment{
		Day:          dayKey,
		ChallengeIDs: make([]string, 0, len(chosen)),
		Snapshot:     make(map[string]state.ChallengeSnap, len(chosen)),
	}
	for _, it := range chosen {
		out.ChallengeIDs = append(out.ChallengeIDs, it.ID)
		pts := int(math.Round(float64(it.Points) * mult))
		if pts < 1 {
			pts = 1
		}
		out.Snapshot[it.ID] = state.ChallengeSnap{Title: it.Title, Points: pts}
	}
	return out
}

// CompleteChallenge awards one of today's assigned challenges. The reward
// comes from the frozen snapshot, so library edits after assignment do
// not change it; power hour still applies on top.
func (e *Engine) CompleteChallenge(id string) (*AwardResult, error) {
	s := e.store.State()
	day := e.today(s)
	assign, ok := s.DailyAssignments[day]
	if !ok {
		return nil, fmt.Errorf("no challenges assigned for %s", day)
	}
	snap, ok := assign.Snapshot[id]
	if !ok {
		return nil, fmt.Errorf("challenge %s is not assigned today", id)
	}
	if netToday(s, ledger.TypeChallenge, id, day) > 0 {
		return nil, ThrottleError{Subject: snap.Title, Reason: "already completed today"}
	}

	pts := applyMultipliers(s, e.now(), snap.Points)
	return e.appendWithMint(ledger.TypeChallenge, id, snap.Title, pts)
}

// UndoChallenge reverses today's completion of a challenge.
func (e *Engine) UndoChallenge(id string) (*UndoResult, error) {
	return e.UndoLastFor(ledger.TypeChallenge, id)
}

// ChallengeDone reports whether a challenge currently counts as completed
// today (positive awards minus undos).
func (e *Engine) ChallengeDone(id string) bool {
	s := e.store.State()
	return netToday(s, ledger.TypeChallenge, id, e.today(s)) > 0
}

func weekdayAllowed(allowed []int, weekday int) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, w := range allowed {
		if w == weekday {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
