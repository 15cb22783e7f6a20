package state

import (
	"time"

	"emberday/internal/ledger"
	"emberday/internal/timeutil"
)

var timeNow = time.Now

// Default settings stamped on first run and filled into partial imports.
const (
	DefaultDailyGoal            = 60
	DefaultPointsPerCoin        = 100
	DefaultDailyChallengesCount = 3
	DefaultChallengeMultiplier  = 1.5
	DefaultBossTasksPerWeek     = 5
	DefaultBossTimesMin         = 2
	DefaultBossTimesMax         = 5
)

// DefaultSettings returns a fresh settings block.
func DefaultSettings() Settings {
	return Settings{
		DailyGoal:            DefaultDailyGoal,
		PointsPerCoin:        DefaultPointsPerCoin,
		DailyChallengesCount: DefaultDailyChallengesCount,
		ChallengeMultiplier:  DefaultChallengeMultiplier,
		BossTasksPerWeek:     DefaultBossTasksPerWeek,
		BossTimesMin:         DefaultBossTimesMin,
		BossTimesMax:         DefaultBossTimesMax,
	}
}

// Migrate produces a fully-populated state from partial or legacy input.
// nil input yields the first-run default state. Migrate is idempotent:
// running it on already-migrated state changes nothing.
func Migrate(raw *State, today string) *State {
	if today == "" {
		today = timeutil.DayKey(timeNow())
	}

	out := &State{
		Schema:           SchemaVersion,
		Profile:          Profile{},
		Settings:         DefaultSettings(),
		Today:            TodayRuntime{Day: today, HabitsStatus: map[string]HabitStatus{}},
		Ledger:           []ledger.Entry{},
		Progress:         map[string]ledger.DaySummary{},
		MissedTodos:      map[string]int{},
		TaskRules:        []TaskRule{},
		TaskInstances:    []TaskInstance{},
		Habits:           []Habit{},
		Library:          []LibraryItem{},
		DailyAssignments: map[string]DailyAssignment{},
	}
	if raw == nil {
		return out
	}

	out.Profile = raw.Profile
	if out.Profile.BestStreak < 0 {
		out.Profile.BestStreak = 0
	}

	out.Settings = clampSettings(mergeSettings(raw.Settings))

	out.Today = raw.Today
	if out.Today.Day == "" {
		out.Today.Day = today
	}
	if out.Today.HabitsStatus == nil {
		out.Today.HabitsStatus = map[string]HabitStatus{}
	}
	if out.Today.CoinsUnminted < 0 {
		out.Today.CoinsUnminted = 0
	}

	if raw.Ledger != nil {
		out.Ledger = raw.Ledger
	}
	if raw.Progress != nil {
		out.Progress = raw.Progress
	}
	if raw.MissedTodos != nil {
		out.MissedTodos = raw.MissedTodos
	}
	out.Streak = raw.Streak
	if raw.TaskRules != nil {
		out.TaskRules = raw.TaskRules
	}
	if raw.TaskInstances != nil {
		out.TaskInstances = raw.TaskInstances
	}
	if raw.Habits != nil {
		out.Habits = raw.Habits
	}
	if raw.Library != nil {
		out.Library = raw.Library
	}
	if raw.DailyAssignments != nil {
		out.DailyAssignments = raw.DailyAssignments
	}

	// A legacy snapshot without a boss gets an empty one for the current
	// week; the rollover engine fills in goals on its next pass.
	if raw.WeeklyBoss != nil {
		out.WeeklyBoss = raw.WeeklyBoss
	} else {
		out.WeeklyBoss = &WeeklyBoss{
			WeekStartDay: timeutil.WeekStart(today),
			Goals:        []BossGoal{},
		}
	}

	out.CoinsTotal = raw.CoinsTotal
	return out
}

// mergeSettings fills zero-valued fields with defaults so a partial
// settings object from a legacy import still works.
func mergeSettings(s Settings) Settings {
	d := DefaultSettings()
	if s.DailyGoal == 0 {
		s.DailyGoal = d.DailyGoal
	}
	if s.PointsPerCoin == 0 {
		s.PointsPerCoin = d.PointsPerCoin
	}
	if s.ChallengeMultiplier == 0 {
		s.ChallengeMultiplier = d.ChallengeMultiplier
	}
	if s.BossTasksPerWeek == 0 {
		s.BossTasksPerWeek = d.BossTasksPerWeek
	}
	if s.BossTimesMin == 0 {
		s.BossTimesMin = d.BossTimesMin
	}
	if s.BossTimesMax == 0 {
		s.BossTimesMax = d.BossTimesMax
	}
	// DailyChallengesCount: zero is a legitimate user choice, keep it.
	return s
}

// clampSettings enforces the documented ranges.
func clampSettings(s Settings) Settings {
	if s.PointsPerCoin < 1 {
		s.PointsPerCoin = DefaultPointsPerCoin
	}
	s.DailyChallengesCount = clampInt(s.DailyChallengesCount, 0, 10)
	s.ChallengeMultiplier = clampFloat(s.ChallengeMultiplier, 1.0, 2.0)
	s.BossTasksPerWeek = clampInt(s.BossTasksPerWeek, 1, 10)
	s.BossTimesMin = clampInt(s.BossTimesMin, 1, 14)
	s.BossTimesMax = clampInt(s.BossTimesMax, s.BossTimesMin, 14)
	return s
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
