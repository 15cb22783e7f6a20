package state

import (
	"reflect"
	"testing"
)

func TestMigrateNilGivesDefaults(t *testing.T) {
	st := Migrate(nil, "2025-03-12")
	if st.Schema != SchemaVersion {
		t.Fatalf("schema=%d, want %d", st.Schema, SchemaVersion)
	}
	want := Settings{
		DailyGoal:            60,
		PointsPerCoin:        100,
		DailyChallengesCount: 3,
		ChallengeMultiplier:  1.5,
		BossTasksPerWeek:     5,
		BossTimesMin:         2,
		BossTimesMax:         5,
	}
	if st.Settings != want {
		t.Fatalf("settings=%+v, want %+v", st.Settings, want)
	}
	if st.Today.Day != "2025-03-12" {
		t.Fatalf("today=%q", st.Today.Day)
	}
	if st.Ledger == nil || st.Habits == nil || st.DailyAssignments == nil {
		t.Fatalf("collections must be non-nil")
	}
}

func TestMigrateFillsMissingWeeklyBoss(t *testing.T) {
	legacy := &State{
		Settings: DefaultSettings(),
		Today:    TodayRuntime{Day: "2025-03-12"},
	}
	st := Migrate(legacy, "2025-03-12")
	if st.WeeklyBoss == nil {
		t.Fatal("weeklyBoss not filled")
	}
	if st.WeeklyBoss.WeekStartDay != "2025-03-10" {
		t.Fatalf("weekStartDay=%q, want current Monday 2025-03-10", st.WeeklyBoss.WeekStartDay)
	}
	if len(st.WeeklyBoss.Goals) != 0 || st.WeeklyBoss.Rerolls != 0 {
		t.Fatalf("expected empty boss, got %+v", st.WeeklyBoss)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	once := Migrate(nil, "2025-03-12")
	once.Habits = append(once.Habits, Habit{ID: "hb_1", Title: "Stretch", Kind: HabitBinary, Active: true})
	twice := Migrate(once, "2025-03-12")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("migrate not idempotent:\n%+v\n%+v", once, twice)
	}
}

func TestMigrateClampsSettings(t *testing.T) {
	raw := &State{Settings: Settings{
		DailyGoal:            30,
		PointsPerCoin:        -5,
		DailyChallengesCount: 99,
		ChallengeMultiplier:  7.0,
		BossTasksPerWeek:     40,
		BossTimesMin:         9,
		BossTimesMax:         3, // below min, must be pulled up
	}}
	st := Migrate(raw, "2025-03-12")
	s := st.Settings
	if s.PointsPerCoin != 100 {
		t.Errorf("pointsPerCoin=%d, want default 100", s.PointsPerCoin)
	}
	if s.DailyChallengesCount != 10 {
		t.Errorf("dailyChallengesCount=%d, want 10", s.DailyChallengesCount)
	}
	if s.ChallengeMultiplier != 2.0 {
		t.Errorf("challengeMultiplier=%v, want 2.0", s.ChallengeMultiplier)
	}
	if s.BossTasksPerWeek != 10 {
		t.Errorf("bossTasksPerWeek=%d, want 10", s.BossTasksPerWeek)
	}
	if s.BossTimesMax != 9 {
		t.Errorf("bossTimesMax=%d, want clamped up to min 9", s.BossTimesMax)
	}
}
