package ledger

import (
	"reflect"
	"testing"
)

func entry(typ EntryType, subject, day string, points, coins int) Entry {
	e := New(typ, subject, subject, points, coins, day)
	return e
}

func TestRebuildDeterministic(t *testing.T) {
	habits := []HabitSchedule{{Active: true}}
	entries := []Entry{
		entry(TypeTask, "t1", "2025-03-10", 20, 0),
		entry(TypeHabit, "h1", "2025-03-10", 10, 0),
		entry(TypeMint, "coins", "2025-03-10", 0, 1),
		entry(TypeHabit, "h1", "2025-03-11", 10, 0),
	}
	a := Rebuild(habits, entries, "2025-03-11", 0, nil)
	b := Rebuild(habits, entries, "2025-03-11", 0, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("rebuild is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestRebuildDaySummaryAndCoins(t *testing.T) {
	entries := []Entry{
		entry(TypeTask, "t1", "2025-03-10", 20, 0),
		entry(TypeChallenge, "c1", "2025-03-10", 15, 0),
		entry(TypeMint, "coins", "2025-03-10", 0, 2),
		entry(TypeBoss, "bg1", "2025-03-10", 8, 0),
		entry(TypePurchase, "coins", "2025-03-10", 0, -1),
	}
	got := Rebuild(nil, entries, "2025-03-10", 0, nil)

	day := got.Progress["2025-03-10"]
	if day.Points != 43 {
		t.Errorf("points=%d, want 43", day.Points)
	}
	if day.TasksDone != 1 || day.ChallengesDone != 1 || day.BossTicks != 1 {
		t.Errorf("counters wrong: %+v", day)
	}
	if day.CoinsEarned != 2 {
		t.Errorf("coinsEarned=%d, want 2 (purchases do not count)", day.CoinsEarned)
	}
	if got.CoinsTotal != 1 {
		t.Errorf("coinsTotal=%d, want 1 (2 minted - 1 spent)", got.CoinsTotal)
	}
}

func TestRebuildUndoDecrementsNoCounter(t *testing.T) {
	entries := []Entry{
		entry(TypeTask, "t1", "2025-03-10", 20, 0),
		entry(TypeTask, "t1", "2025-03-10", -20, 0),
	}
	got := Rebuild(nil, entries, "2025-03-10", 0, nil)
	day := got.Progress["2025-03-10"]
	if day.Points != 0 {
		t.Errorf("points=%d, want 0", day.Points)
	}
	if day.TasksDone != 1 {
		t.Errorf("tasksDone=%d, want 1 (undo entries do not decrement)", day.TasksDone)
	}
}

func TestStreakWeekendNeutral(t *testing.T) {
	// Habit scheduled Mon-Fri. 2025-03-10..14 are Mon..Fri, all complete.
	habits := []HabitSchedule{{Active: true, ByWeekday: []int{1, 2, 3, 4, 5}}}
	var entries []Entry
	for _, day := range []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"} {
		entries = append(entries, entry(TypeHabit, "h1", day, 10, 0))
	}

	// Evaluated on Saturday: weekend days are neutral, run is intact.
	got := Rebuild(habits, entries, "2025-03-15", 0, nil)
	if got.Streak.Current != 5 {
		t.Fatalf("current=%d, want 5 (weekend neutral)", got.Streak.Current)
	}

	// Sunday too.
	got = Rebuild(habits, entries, "2025-03-16", 0, nil)
	if got.Streak.Current != 5 {
		t.Fatalf("current on Sunday=%d, want 5", got.Streak.Current)
	}

	// Next Monday, nothing done yet: today is scheduled and incomplete.
	got = Rebuild(habits, entries, "2025-03-17", 0, nil)
	if got.Streak.Current != 0 {
		t.Fatalf("current on incomplete Monday=%d, want 0", got.Streak.Current)
	}
	if got.BestStreak != 5 {
		t.Fatalf("bestStreak=%d, want 5", got.BestStreak)
	}
}

func TestStreakBrokenByMissedDay(t *testing.T) {
	habits := []HabitSchedule{{Active: true}} // every day
	entries := []Entry{
		entry(TypeHabit, "h1", "2025-03-10", 10, 0),
		// 2025-03-11 missed
		entry(TypeHabit, "h1", "2025-03-12", 10, 0),
		entry(TypeHabit, "h1", "2025-03-13", 10, 0),
	}
	got := Rebuild(habits, entries, "2025-03-13", 0, nil)
	if got.Streak.Current != 2 {
		t.Fatalf("current=%d, want 2", got.Streak.Current)
	}
	if got.BestStreak != 2 {
		t.Fatalf("best=%d, want 2", got.BestStreak)
	}
}

func TestBestStreakMonotonic(t *testing.T) {
	habits := []HabitSchedule{{Active: true}}
	entries := []Entry{entry(TypeHabit, "h1", "2025-03-10", 10, 0)}
	got := Rebuild(habits, entries, "2025-03-10", 9, nil)
	if got.BestStreak != 9 {
		t.Fatalf("bestStreak=%d, want stored best 9 to be kept", got.BestStreak)
	}
	if got.Streak.Current != 1 {
		t.Fatalf("current=%d, want 1", got.Streak.Current)
	}
}

func TestRebuildCarriesMissedTodos(t *testing.T) {
	got := Rebuild(nil, nil, "2025-03-11", 0, map[string]int{"2025-03-10": 3})
	if got.Progress["2025-03-10"].MissedTodos != 3 {
		t.Fatalf("missedTodos not carried: %+v", got.Progress["2025-03-10"])
	}
}

func TestInactiveHabitsNotScheduled(t *testing.T) {
	habits := []HabitSchedule{
		{Active: false},
		{Active: true, ByWeekday: []int{1}},
	}
	// Tuesday: only the inactive habit would cover it, so the day is neutral.
	if got := scheduledCount(habits, 2); got != 0 {
		t.Fatalf("scheduledCount=%d, want 0", got)
	}
	if got := scheduledCount(habits, 1); got != 1 {
		t.Fatalf("scheduledCount(Mon)=%d, want 1", got)
	}
}
