// Package state owns the application snapshot and the only mutation
// surface: a store with a serialized dispatch of closed action variants.
// Derived aggregates (day summaries, coin totals, streaks) live here only
// as caches; the ledger is authoritative.
package state

import (
	"emberday/internal/ledger"
)

// SchemaVersion is stamped on every migrated state.
const SchemaVersion = 2

// HabitKind selects the completion model for a habit.
type HabitKind string

const (
	HabitBinary  HabitKind = "binary"
	HabitCounter HabitKind = "counter"
)

func (k HabitKind) IsValid() bool {
	return k == HabitBinary || k == HabitCounter
}

// Habit is a recurring daily commitment.
type Habit struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Kind             HabitKind `json:"kind"`
	TargetPerDay     int       `json:"targetPerDay,omitempty"` // counter only, >= 1
	PointsOnComplete int       `json:"pointsOnComplete"`
	ByWeekday        []int     `json:"byWeekday,omitempty"` // 0=Sun..6=Sat, empty = every day
	Active           bool      `json:"active"`
}

// TaskRule is a recurring template that spawns one TaskInstance per
// scheduled day.
type TaskRule struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Points    int    `json:"points"`
	ByWeekday []int  `json:"byWeekday,omitempty"`
	Active    bool   `json:"active"`
}

// TaskInstance is a concrete to-do for one day, either spawned from a rule
// or created ad hoc.
type TaskInstance struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Points int    `json:"points"`
	Day    string `json:"day"`
	RuleID string `json:"ruleId,omitempty"`
	Done   bool   `json:"done"`
}

// LibraryItem is a repeatable quick action. LastDoneAt is the one mutable
// denormalized field outside the ledger; it only drives throttling.
type LibraryItem struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Points              int    `json:"points"`
	CooldownHours       int    `json:"cooldownHours,omitempty"`
	MaxPerDay           int    `json:"maxPerDay,omitempty"`
	AllowedWeekdays     []int  `json:"allowedWeekdays,omitempty"`
	IncludeInChallenges bool   `json:"includeInChallenges"`
	IncludeInBoss       bool   `json:"includeInBoss"`
	Pinned              bool   `json:"pinned"`
	Active              bool   `json:"active"`
	LastDoneAt          int64  `json:"lastDoneAt,omitempty"` // epoch ms
}

// ChallengeSnap freezes a challenge's reward at assignment time so later
// library edits cannot change an already-assigned challenge.
type ChallengeSnap struct {
	Title  string `json:"title"`
	Points int    `json:"points"`
}

// DailyAssignment is the set of challenges picked for one day.
type DailyAssignment struct {
	Day          string                   `json:"day"`
	ChallengeIDs []string                 `json:"challengeIds"`
	Snapshot     map[string]ChallengeSnap `json:"snapshot"`
}

// BossGoal is one repeatable goal inside the weekly boss. The tally is
// never persisted; it is recomputed from the ledger for the current week.
type BossGoal struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Target        int    `json:"target"`
	LinkedItemID  string `json:"linkedTaskId"`
	PointsPerTick int    `json:"pointsPerTick"`
}

// WeeklyBoss is the week-scoped goal set.
type WeeklyBoss struct {
	WeekStartDay string     `json:"weekStartDay"` // Monday key
	Goals        []BossGoal `json:"goals"`
	Rerolls      int        `json:"rerolls"`
	Completed    bool       `json:"completed"`
}

// HabitStatus is the today-only live tally for one habit. Past days are
// reconstructed from the ledger, never from this cache.
type HabitStatus struct {
	Tally int  `json:"tally"`
	Done  bool `json:"done"`
}

// TodayRuntime is the per-day runtime block. CoinsUnminted intentionally
// carries across day rollovers.
type TodayRuntime struct {
	Day             string                 `json:"day"`
	PointsRuntime   int                    `json:"pointsRuntime"`
	CoinsUnminted   int                    `json:"coinsUnminted"`
	PowerHourEndsAt int64                  `json:"powerHourEndsAt,omitempty"` // epoch ms, 0 = none
	HabitsStatus    map[string]HabitStatus `json:"habitsStatus"`
}

// Settings are the user-tunable engine knobs.
type Settings struct {
	DailyGoal            int     `json:"dailyGoal"`
	PointsPerCoin        int     `json:"pointsPerCoin"`
	DailyChallengesCount int     `json:"dailyChallengesCount"`
	ChallengeMultiplier  float64 `json:"challengeMultiplier"`
	BossTasksPerWeek     int     `json:"bossTasksPerWeek"`
	BossTimesMin         int     `json:"bossTimesMin"`
	BossTimesMax         int     `json:"bossTimesMax"`
}

// Profile mirrors ledger-derived totals for display. Coins is recomputed
// on every rebuild, never incrementally trusted; BestStreak never
// decreases.
type Profile struct {
	Coins      int `json:"coins"`
	BestStreak int `json:"bestStreak"`
}

// State is the whole snapshot: settings, entities, today runtime, the
// ledger, and rebuild caches.
type State struct {
	Schema   int          `json:"schema"`
	Profile  Profile      `json:"profile"`
	Settings Settings     `json:"settings"`
	Today    TodayRuntime `json:"today"`

	Ledger      []ledger.Entry                `json:"ledger"`
	Progress    map[string]ledger.DaySummary  `json:"progress"`
	MissedTodos map[string]int                `json:"missedTodos,omitempty"`
	Streak      ledger.Streak                 `json:"streak"`

	TaskRules     []TaskRule     `json:"taskRules"`
	TaskInstances []TaskInstance `json:"taskInstances"`
	Habits        []Habit        `json:"habits"`
	Library       []LibraryItem  `json:"library"`

	DailyAssignments map[string]DailyAssignment `json:"dailyAssignments"`
	WeeklyBoss       *WeeklyBoss                `json:"weeklyBoss,omitempty"`

	CoinsTotal int `json:"coinsTotal"`
}

// HabitSchedules projects the habit list into the slice the ledger rebuild
// needs.
func (s *State) HabitSchedules() []ledger.HabitSchedule {
	out := make([]ledger.HabitSchedule, 0, len(s.Habits))
	for _, h := range s.Habits {
		out = append(out, ledger.HabitSchedule{Active: h.Active, ByWeekday: h.ByWeekday})
	}
	return out
}

// FindHabit returns the habit with the given id, or nil.
func (s *State) FindHabit(id string) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}

// FindTaskInstance returns the task instance with the given id, or nil.
func (s *State) FindTaskInstance(id string) *TaskInstance {
	for i := range s.TaskInstances {
		if s.TaskInstances[i].ID == id {
			return &s.TaskInstances[i]
		}
	}
	return nil
}

// FindLibraryItem returns the library item with the given id, or nil.
func (s *State) FindLibraryItem(id string) *LibraryItem {
	for i := range s.Library {
		if s.Library[i].ID == id {
			return &s.Library[i]
		}
	}
	return nil
}
