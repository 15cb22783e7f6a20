package engine

import (
	"fmt"

	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// Heartbeat brings the state in line with the current clock. It is
// idempotent and safe to call from a ticker, from command startup, or
// after the machine wakes from sleep. On a day change it closes out the
// old day (missed to-dos, runtime reset) before ensuring today's
// content; within a day it only fills gaps.
func (e *Engine) Heartbeat() error {
	now := e.now()
	today := timeutil.DayKey(now)

	s := e.store.State()
	if s.Today.Day != "" && s.Today.Day != today {
		if err := e.rolloverDay(s.Today.Day, today); err != nil {
			return fmt.Errorf("day rollover: %w", err)
		}
		s = e.store.State()
	}

	if err := e.ensureTaskInstances(s, today); err != nil {
		return fmt.Errorf("ensure tasks: %w", err)
	}
	s = e.store.State()
	if err := e.ensureDailyChallenges(s, today); err != nil {
		return fmt.Errorf("ensure challenges: %w", err)
	}
	s = e.store.State()
	if err := e.ensureWeeklyBoss(s, today); err != nil {
		return fmt.Errorf("ensure boss: %w", err)
	}
	if err := e.clearExpiredPowerHour(now); err != nil {
		return fmt.Errorf("clear power hour: %w", err)
	}
	return e.Rebuild()
}

// rolloverDay closes prevDay and opens today. Missed to-dos are counted
// from the instances left undone, the runtime points and habit cache
// reset, and the unminted bucket carries over so partial progress toward
// the next coin is never lost.
func (e *Engine) rolloverDay(prevDay, today string) error {
	s := e.store.State()

	missed := 0
	for _, inst := range s.TaskInstances {
		if inst.Day == prevDay && !inst.Done {
			missed++
		}
	}

	// The rebuild inside this batch must already see prevDay's missed
	// count, so it runs over a merged copy rather than the stored map.
	missedMap := make(map[string]int, len(s.MissedTodos)+1)
	for k, v := range s.MissedTodos {
		missedMap[k] = v
	}
	missedMap[prevDay] = missed
	r := ledger.Rebuild(s.HabitSchedules(), s.Ledger, today, s.Profile.BestStreak, missedMap)

	zero := 0
	actions := []state.Action{
		state.SetMissedTodos{Day: prevDay, Count: missed},
		state.TodayPatch{
			Day:           &today,
			PointsRuntime: &zero,
			HabitsStatus:  map[string]state.HabitStatus{},
		},
		state.ProgressRebuild{
			Progress:   r.Progress,
			CoinsTotal: r.CoinsTotal,
			Streak:     r.Streak,
			BestStreak: r.BestStreak,
		},
	}
	if err := e.store.DispatchBatch(actions...); err != nil {
		return err
	}
	e.log.Info("day rolled over", "from", prevDay, "to", today, "missed_todos", missed)
	return nil
}

// ensureTaskInstances spawns today's instances from active rules that
// are scheduled for today's weekday. Spawning keys on (day, rule) so
// repeated heartbeats and deleted-then-recreated instances do not
// duplicate.
func (e *Engine) ensureTaskInstances(s *state.State, today string) error {
	weekday := timeutil.WeekdayIndex(today)

	existing := make(map[string]bool)
	for _, inst := range s.TaskInstances {
		if inst.Day == today && inst.RuleID != "" {
			existing[inst.RuleID] = true
		}
	}

	var actions []state.Action
	for _, rule := range s.TaskRules {
		if !rule.Active || existing[rule.ID] {
			continue
		}
		if len(rule.ByWeekday) > 0 && !weekdayAllowed(rule.ByWeekday, weekday) {
			continue
		}
		actions = append(actions, state.TaskInstanceAdd{Instance: state.TaskInstance{
			ID:     state.NewID("ti"),
			Title:  rule.Title,
			Points: rule.Points,
			Day:    today,
			RuleID: rule.ID,
		}})
	}
	if len(actions) == 0 {
		return nil
	}
	return e.store.DispatchBatch(actions...)
}

// ensureDailyChallenges assigns today's challenge set once per day.
func (e *Engine) ensureDailyChallenges(s *state.State, today string) error {
	if _, ok := s.DailyAssignments[today]; ok {
		return nil
	}
	assignment := GenerateDailyChallenges(s, today)
	return e.store.Dispatch(state.AssignDailyChallenges{Assignment: assignment})
}

// ensureWeeklyBoss rolls a fresh boss when the week turns over (or on
// first run). An existing boss for the current week is left alone,
// rerolls included.
func (e *Engine) ensureWeeklyBoss(s *state.State, today string) error {
	weekStart := timeutil.WeekStart(today)
	if s.WeeklyBoss != nil && s.WeeklyBoss.WeekStartDay == weekStart {
		return nil
	}
	boss := GenerateWeeklyBoss(s, weekStart, 0)
	return e.store.Dispatch(state.SetWeeklyBoss{Boss: boss})
}
