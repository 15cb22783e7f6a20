package ledger

import (
	"emberday/internal/timeutil"
)

// StreakHorizonDays bounds how far back streak scans look.
const StreakHorizonDays = 365

// DaySummary is the derived per-day aggregate. Everything except
// MissedTodos is recomputable from the day's ledger slice; MissedTodos is
// stamped once at day finalization and carried in separately.
type DaySummary struct {
	Points         int `json:"points"`
	CoinsEarned    int `json:"coinsEarned"`
	TasksDone      int `json:"tasksDone"`
	HabitsDone     int `json:"habitsDone"`
	ChallengesDone int `json:"challengesDone"`
	BossTicks      int `json:"bossTicks"`
	MissedTodos    int `json:"missedTodos"`
}

// Streak is the run of consecutive days with all scheduled habits done.
type Streak struct {
	Current int `json:"current"`
}

// HabitSchedule is the slice of habit data the rebuild needs: whether the
// habit is active and which weekdays it is scheduled on (empty = every
// day).
type HabitSchedule struct {
	Active    bool
	ByWeekday []int
}

// Rebuilt is the full set of aggregates derived from a ledger.
type Rebuilt struct {
	Progress   map[string]DaySummary
	CoinsTotal int
	Streak     Streak
	BestStreak int
}

// Rebuild recomputes all derived aggregates from the full ledger. It is a
// pure function: the same inputs always produce the same output, which is
// what makes import/export and undo safe to reason about.
//
// Per-type done counters only count entries with PointsDelta > 0; undo
// entries subtract points from the day but decrement no counter. Day keys
// with zero scheduled habits are neutral for streaks: they neither extend
// nor break a run.
func Rebuild(habits []HabitSchedule, entries []Entry, today string, prevBest int, missed map[string]int) Rebuilt {
	progress := make(map[string]DaySummary)
	coinsTotal := 0

	for _, e := range entries {
		s := progress[e.Day]
		s.Points += e.PointsDelta
		coinsTotal += e.CoinsDelta
		if e.CoinsDelta > 0 {
			s.CoinsEarned += e.CoinsDelta
		}
		if e.PointsDelta > 0 {
			switch e.Type {
			case TypeTask:
				s.TasksDone++
			case TypeHabit:
				s.HabitsDone++
			case TypeChallenge:
				s.ChallengesDone++
			case TypeBoss:
				s.BossTicks++
			}
		}
		progress[e.Day] = s
	}

	for day, count := range missed {
		s := progress[day]
		s.MissedTodos = count
		progress[day] = s
	}

	current := currentStreak(habits, progress, today)
	best := bestStreak(habits, progress, today)
	if current > best {
		best = current
	}
	if prevBest > best {
		best = prevBest
	}

	return Rebuilt{
		Progress:   progress,
		CoinsTotal: coinsTotal,
		Streak:     Streak{Current: current},
		BestStreak: best,
	}
}

// scheduledCount returns how many active habits are scheduled on the given
// weekday index.
func scheduledCount(habits []HabitSchedule, weekday int) int {
	n := 0
	for _, h := range habits {
		if !h.Active {
			continue
		}
		if len(h.ByWeekday) == 0 {
			n++
			continue
		}
		for _, w := range h.ByWeekday {
			if w == weekday {
				n++
				break
			}
		}
	}
	return n
}

// currentStreak walks backward day by day from today. A scheduled day
// extends the run only when fully complete; an incomplete scheduled day
// breaks the scan immediately, so a partially-done today yields 0.
func currentStreak(habits []HabitSchedule, progress map[string]DaySummary, today string) int {
	run := 0
	cursor := today
	for i := 0; i < StreakHorizonDays; i++ {
		need := scheduledCount(habits, timeutil.WeekdayIndex(cursor))
		if need > 0 {
			if progress[cursor].HabitsDone < need {
				break
			}
			run++
		}
		cursor = timeutil.AddDays(cursor, -1)
	}
	return run
}

// bestStreak scans the whole horizon forward with run tracking and returns
// the longest run observed.
func bestStreak(habits []HabitSchedule, progress map[string]DaySummary, today string) int {
	best, run := 0, 0
	cursor := timeutil.AddDays(today, -(StreakHorizonDays - 1))
	for i := 0; i < StreakHorizonDays; i++ {
		need := scheduledCount(habits, timeutil.WeekdayIndex(cursor))
		if need > 0 {
			if progress[cursor].HabitsDone >= need {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 0
			}
		}
		cursor = timeutil.AddDays(cursor, 1)
	}
	return best
}
