package engine

import (
	"fmt"

	"emberday/internal/ledger"
	"emberday/internal/state"
)

// habitTarget normalizes the per-day target for a habit.
func habitTarget(h *state.Habit) int {
	if h.Kind == state.HabitCounter && h.TargetPerDay > 1 {
		return h.TargetPerDay
	}
	return 1
}

// patchedStatus clones the today habit-status map with one entry replaced.
func patchedStatus(s *state.State, id string, st state.HabitStatus) map[string]state.HabitStatus {
	out := make(map[string]state.HabitStatus, len(s.Today.HabitsStatus)+1)
	for k, v := range s.Today.HabitsStatus {
		out[k] = v
	}
	out[id] = st
	return out
}

// TickHabit advances a habit once. Binary habits award immediately;
// counter habits award exactly once, when the tally reaches the target.
// Below-threshold counter ticks move the cache only and write no ledger
// entry.
func (e *Engine) TickHabit(id string) (*AwardResult, error) {
	s := e.store.State()
	h := s.FindHabit(id)
	if h == nil {
		return nil, fmt.Errorf("habit %s not found", id)
	}
	if !h.Active {
		return nil, fmt.Errorf("habit %q is inactive", h.Title)
	}

	status := s.Today.HabitsStatus[id]
	target := habitTarget(h)

	if h.Kind == state.HabitBinary {
		if status.Done {
			return nil, ThrottleError{Subject: h.Title, Reason: "already done today"}
		}
		pts := applyMultipliers(s, e.now(), h.PointsOnComplete)
		patch := state.TodayPatch{HabitsStatus: patchedStatus(s, id, state.HabitStatus{Tally: 1, Done: true})}
		return e.appendWithMint(ledger.TypeHabit, h.ID, h.Title, pts, patch)
	}

	if status.Tally >= target {
		return nil, ThrottleError{Subject: h.Title, Reason: "target reached for today"}
	}
	next := state.HabitStatus{Tally: status.Tally + 1, Done: status.Done}
	if !status.Done && next.Tally >= target {
		next.Done = true
		pts := applyMultipliers(s, e.now(), h.PointsOnComplete)
		patch := state.TodayPatch{HabitsStatus: patchedStatus(s, id, next)}
		return e.appendWithMint(ledger.TypeHabit, h.ID, h.Title, pts, patch)
	}

	// Tally moved but the threshold was not crossed: cache-only update.
	if err := e.store.Dispatch(state.TodayPatch{HabitsStatus: patchedStatus(s, id, next)}); err != nil {
		return nil, err
	}
	return nil, nil
}

// UntickHabit steps a habit back once. Dropping below a completed
// threshold undoes the award; if the reclaim fails the tally is left
// untouched.
func (e *Engine) UntickHabit(id string) (*UndoResult, error) {
	s := e.store.State()
	h := s.FindHabit(id)
	if h == nil {
		return nil, fmt.Errorf("habit %s not found", id)
	}

	status := s.Today.HabitsStatus[id]
	target := habitTarget(h)

	if h.Kind == state.HabitBinary {
		if !status.Done {
			return nil, ThrottleError{Subject: h.Title, Reason: "not done today"}
		}
		patch := state.TodayPatch{HabitsStatus: patchedStatus(s, id, state.HabitStatus{})}
		return e.UndoLastFor(ledger.TypeHabit, id, patch)
	}

	if status.Tally <= 0 {
		return nil, ThrottleError{Subject: h.Title, Reason: "nothing to step back"}
	}
	next := state.HabitStatus{Tally: status.Tally - 1, Done: status.Done}
	if status.Done && next.Tally < target {
		next.Done = false
		patch := state.TodayPatch{HabitsStatus: patchedStatus(s, id, next)}
		return e.UndoLastFor(ledger.TypeHabit, id, patch)
	}
	if err := e.store.Dispatch(state.TodayPatch{HabitsStatus: patchedStatus(s, id, next)}); err != nil {
		return nil, err
	}
	return nil, nil
}
