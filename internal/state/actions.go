package state

import (
	"fmt"

	"emberday/internal/ledger"
)

// Action is the closed set of state transitions. Every variant is handled
// exhaustively in reduce; an unhandled variant is a validation failure,
// not a silent no-op.
type Action interface {
	isAction()
	Name() string
}

// SetState replaces the whole snapshot (import, reset). The value is
// migrated before being installed.
type SetState struct{ Value *State }

// TodayPatch updates the today-runtime block. Nil fields are untouched.
type TodayPatch struct {
	Day             *string
	PointsRuntime   *int
	CoinsUnminted   *int
	PowerHourEndsAt *int64 // set to 0 to clear
	HabitsStatus    map[string]HabitStatus
}

// LedgerAppend appends one immutable entry. The only ledger mutation.
type LedgerAppend struct{ Entry ledger.Entry }

// Task instances.
type TaskInstanceAdd struct{ Instance TaskInstance }
type TaskInstanceUpdate struct{ Instance TaskInstance }
type TaskInstanceDelete struct{ ID string }

// Task rules.
type TaskRuleAdd struct{ Rule TaskRule }
type TaskRuleUpdate struct{ Rule TaskRule }
type TaskRuleDelete struct{ ID string }
type TaskRuleToggleActive struct{ ID string }

// Habits.
type HabitAdd struct{ Habit Habit }
type HabitUpdate struct{ Habit Habit }
type HabitDelete struct{ ID string }
type HabitToggleActive struct{ ID string }

// Library.
type LibraryAdd struct{ Item LibraryItem }
type LibraryUpdate struct{ Item LibraryItem }
type LibraryDelete struct{ ID string }
type LibraryToggleActive struct{ ID string }
type LibraryTouch struct {
	ID         string
	LastDoneAt int64
}

// Content assignments.
type AssignDailyChallenges struct{ Assignment DailyAssignment }
type SetWeeklyBoss struct{ Boss *WeeklyBoss }

// ProgressRebuild installs freshly derived aggregates as caches.
type ProgressRebuild struct {
	Progress   map[string]ledger.DaySummary
	CoinsTotal int
	Streak     ledger.Streak
	BestStreak int
}

// SetMissedTodos stamps a finalized day's missed count.
type SetMissedTodos struct {
	Day   string
	Count int
}

// SettingsUpdate replaces the settings block (values are clamped).
type SettingsUpdate struct{ Settings Settings }

// Tick is the no-op heartbeat marker, published so subscribers can refresh.
type Tick struct{}

func (SetState) isAction()              {}
func (TodayPatch) isAction()            {}
func (LedgerAppend) isAction()          {}
func (TaskInstanceAdd) isAction()       {}
func (TaskInstanceUpdate) isAction()    {}
func (TaskInstanceDelete) isAction()    {}
func (TaskRuleAdd) isAction()           {}
func (TaskRuleUpdate) isAction()        {}
func (TaskRuleDelete) isAction()        {}
func (TaskRuleToggleActive) isAction()  {}
func (HabitAdd) isAction()              {}
func (HabitUpdate) isAction()           {}
func (HabitDelete) isAction()           {}
func (HabitToggleActive) isAction()     {}
func (LibraryAdd) isAction()            {}
func (LibraryUpdate) isAction()         {}
func (LibraryDelete) isAction()         {}
func (LibraryToggleActive) isAction()   {}
func (LibraryTouch) isAction()          {}
func (AssignDailyChallenges) isAction() {}
func (SetWeeklyBoss) isAction()         {}
func (ProgressRebuild) isAction()       {}
func (SetMissedTodos) isAction()        {}
func (SettingsUpdate) isAction()        {}
func (Tick) isAction()                  {}

func (SetState) Name() string              { return "SET_STATE" }
func (TodayPatch) Name() string            { return "TODAY_PATCH" }
func (LedgerAppend) Name() string          { return "LEDGER_APPEND" }
func (TaskInstanceAdd) Name() string       { return "TASK_INSTANCE_ADD" }
func (TaskInstanceUpdate) Name() string    { return "TASK_INSTANCE_UPDATE" }
func (TaskInstanceDelete) Name() string    { return "TASK_INSTANCE_DELETE" }
func (TaskRuleAdd) Name() string           { return "TASK_RULE_ADD" }
func (TaskRuleUpdate) Name() string        { return "TASK_RULE_UPDATE" }
func (TaskRuleDelete) Name() string        { return "TASK_RULE_DELETE" }
func (TaskRuleToggleActive) Name() string  { return "TASK_RULE_TOGGLE_ACTIVE" }
func (HabitAdd) Name() string              { return "HABIT_ADD" }
func (HabitUpdate) Name() string           { return "HABIT_UPDATE" }
func (HabitDelete) Name() string           { return "HABIT_DELETE" }
func (HabitToggleActive) Name() string     { return "HABIT_TOGGLE_ACTIVE" }
func (LibraryAdd) Name() string            { return "LIB_ITEM_ADD" }
func (LibraryUpdate) Name() string         { return "LIB_ITEM_UPDATE" }
func (LibraryDelete) Name() string         { return "LIB_ITEM_DELETE" }
func (LibraryToggleActive) Name() string   { return "LIB_ITEM_TOGGLE_ACTIVE" }
func (LibraryTouch) Name() string          { return "LIB_ITEM_TOUCH" }
func (AssignDailyChallenges) Name() string { return "ASSIGN_DAILY_CHALLENGES" }
func (SetWeeklyBoss) Name() string         { return "SET_WEEKLY_BOSS" }
func (ProgressRebuild) Name() string       { return "PROGRESS_REBUILD" }
func (SetMissedTodos) Name() string        { return "SET_MISSED_TODOS" }
func (SettingsUpdate) Name() string        { return "SETTINGS_UPDATE" }
func (Tick) Name() string                  { return "APP_TICK" }

// ValidationError reports a rejected action; the state is unchanged.
type ValidationError struct {
	Action string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("action %s rejected: %s", e.Action, e.Reason)
}
