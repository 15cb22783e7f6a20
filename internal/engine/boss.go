package engine

import (
	"errors"
	"fmt"
	"math"

	"emberday/internal/ledger"
	"emberday/internal/seeds"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// bossSeed derives the seed for a week's boss. Generation 0 is the
// initial roll; rerolls mix the generation counter in so each reroll
// produces a visibly different goal set.
func bossSeed(weekStartDay string, generation int) uint32 {
	if generation == 0 {
		return seeds.HashString("BOSS:" + weekStartDay)
	}
	return seeds.HashString(fmt.Sprintf("BOSS:%s:%d", weekStartDay, generation))
}

// allowedDaysInWeek counts how many of the 7 days starting at weekStart
// an item may be done on. Unrestricted items count all 7.
func allowedDaysInWeek(it state.LibraryItem, weekStart string) int {
	if len(it.AllowedWeekdays) == 0 {
		return 7
	}
	count := 0
	for i := 0; i < 7; i++ {
		if weekdayAllowed(it.AllowedWeekdays, timeutil.WeekdayIndex(timeutil.AddDays(weekStart, i))) {
			count++
		}
	}
	return count
}

// GenerateWeeklyBoss builds the boss goal set for the week starting at
// weekStartDay (a Monday key). Pure and deterministic per (week,
// generation): the pool is shuffled with the boss seed and each goal's
// target comes from a second stream derived from the same seed, clamped
// to the item's allowed days that week.
func GenerateWeeklyBoss(s *state.State, weekStartDay string, generation int) *state.WeeklyBoss {
	goalsCount := clampInt(s.Settings.BossTasksPerWeek, 1, 10)
	minTimes := clampInt(s.Settings.BossTimesMin, 1, 14)
	maxTimes := clampInt(s.Settings.BossTimesMax, minTimes, 14)

	var pool []state.LibraryItem
	for _, it := range s.Library {
		if !it.Active || !it.IncludeInBoss {
			continue
		}
		if allowedDaysInWeek(it, weekStartDay) == 0 {
			continue
		}
		pool = append(pool, it)
	}

	seed := bossSeed(weekStartDay, generation)
	shuffled := seeds.Shuffle(pool, seed)
	rng := seeds.New(seed ^ seeds.GoldenGamma)

	if goalsCount > len(shuffled) {
		goalsCount = len(shuffled)
	}
	goals := make([]state.BossGoal, 0, goalsCount)
	for _, it := range shuffled[:goalsCount] {
		allow := allowedDaysInWeek(it, weekStartDay)
		target := rng.Between(minTimes, maxTimes)
		if target > allow {
			target = allow
		}
		if target < 1 {
			target = 1
		}
		goals = append(goals, state.BossGoal{
			ID:            "bg_" + it.ID,
			Label:         it.Title,
			Target:        target,
			LinkedItemID:  it.ID,
			PointsPerTick: it.Points,
		})
	}

	return &state.WeeklyBoss{
		WeekStartDay: weekStartDay,
		Goals:        goals,
		Rerolls:      generation,
	}
}

// RerollWeeklyBoss replaces the current week's goals with a fresh set and
// bumps the reroll count, which shrinks every subsequent tick reward.
func (e *Engine) RerollWeeklyBoss() (*state.WeeklyBoss, error) {
	s := e.store.State()
	cur := s.WeeklyBoss
	if cur == nil {
		return nil, errors.New("no weekly boss to reroll")
	}
	next := GenerateWeeklyBoss(s, cur.WeekStartDay, cur.Rerolls+1)
	if err := e.store.Dispatch(state.SetWeeklyBoss{Boss: next}); err != nil {
		return nil, err
	}
	return next, nil
}

// rerollPenalty shrinks tick rewards after rerolls, floored at 0.7.
func rerollPenalty(rerolls int) float64 {
	m := 1.0 - 0.1*float64(rerolls)
	if m < 0.7 {
		m = 0.7
	}
	return m
}

// BossTickReward is the pre-power-hour reward for one tick of a goal.
func BossTickReward(pointsPerTick, rerolls int) int {
	v := int(math.Round(float64(pointsPerTick) * rerollPenalty(rerolls)))
	if v < 1 {
		v = 1
	}
	return v
}

// TickBossGoal awards one tick of a boss goal. The tally is recomputed
// from the ledger; a goal at target refuses further ticks. When the last
// open goal reaches its target the boss flips to completed.
func (e *Engine) TickBossGoal(goalID string) (*AwardResult, error) {
	s := e.store.State()
	boss := s.WeeklyBoss
	if boss == nil {
		return nil, errors.New("no weekly boss yet")
	}
	var goal *state.BossGoal
	for i := range boss.Goals {
		if boss.Goals[i].ID == goalID {
			goal = &boss.Goals[i]
			break
		}
	}
	if goal == nil {
		return nil, fmt.Errorf("boss goal %s not found", goalID)
	}

	tally := bossTally(s, goalID, boss.WeekStartDay)
	if tally >= goal.Target {
		return nil, ThrottleError{Subject: goal.Label, Reason: "target reached this week"}
	}

	base := BossTickReward(goal.PointsPerTick, boss.Rerolls)
	pts := applyMultipliers(s, e.now(), base)

	var extra []state.Action
	if !boss.Completed && bossWouldComplete(s, boss, goalID, tally+1) {
		done := *boss
		done.Completed = true
		extra = append(extra, state.SetWeeklyBoss{Boss: &done})
	}
	return e.appendWithMint(ledger.TypeBoss, goal.ID, goal.Label, pts, extra...)
}

// UntickBossGoal reverses today's most recent tick of a goal.
func (e *Engine) UntickBossGoal(goalID string) (*UndoResult, error) {
	s := e.store.State()
	boss := s.WeeklyBoss
	if boss == nil {
		return nil, errors.New("no weekly boss yet")
	}
	if bossTally(s, goalID, boss.WeekStartDay) <= 0 {
		return nil, ErrNothingToUndo
	}
	var extra []state.Action
	if boss.Completed {
		reopened := *boss
		reopened.Completed = false
		extra = append(extra, state.SetWeeklyBoss{Boss: &reopened})
	}
	return e.UndoLastFor(ledger.TypeBoss, goalID, extra...)
}

// BossTally exposes the current week's ledger-derived tick count.
func (e *Engine) BossTally(goalID string) int {
	s := e.store.State()
	if s.WeeklyBoss == nil {
		return 0
	}
	return bossTally(s, goalID, s.WeeklyBoss.WeekStartDay)
}

// bossWouldComplete checks whether every goal reaches its target once the
// given goal's tally moves to nextTally.
func bossWouldComplete(s *state.State, boss *state.WeeklyBoss, goalID string, nextTally int) bool {
	for _, g := range boss.Goals {
		tally := bossTally(s, g.ID, boss.WeekStartDay)
		if g.ID == goalID {
			tally = nextTally
		}
		if tally < g.Target {
			return false
		}
	}
	return len(boss.Goals) > 0
}
