package engine

import (
	"errors"
	"testing"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// Wednesday, mid-morning local time.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local)

func newTestEngine(t *testing.T, now time.Time, mutate func(*state.State)) *Engine {
	t.Helper()
	st := state.Migrate(nil, timeutil.DayKey(now))
	if mutate != nil {
		mutate(st)
	}
	store := state.NewStore(st, nil, nil)
	return New(store, WithClock(func() time.Time { return now }))
}

func addTask(st *state.State, id, title string, points int, day string) {
	st.TaskInstances = append(st.TaskInstances, state.TaskInstance{
		ID: id, Title: title, Points: points, Day: day,
	})
}

func addLibraryItem(st *state.State, it state.LibraryItem) {
	st.Library = append(st.Library, it)
}

func TestCompleteTaskMintsFromBucket(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Today.CoinsUnminted = 90
		addTask(st, "ti_1", "Laundry", 20, "2025-03-12")
	})

	res, err := e.CompleteTask("ti_1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.CoinsMinted != 1 {
		t.Fatalf("minted=%d, want 1", res.CoinsMinted)
	}
	s := e.Store().State()
	if s.Today.CoinsUnminted != 10 {
		t.Fatalf("bucket=%d, want 10", s.Today.CoinsUnminted)
	}
	if s.Profile.Coins != 1 {
		t.Fatalf("coins=%d, want 1", s.Profile.Coins)
	}
	if got := len(s.Ledger); got != 2 {
		t.Fatalf("ledger len=%d, want 2 (award + mint)", got)
	}
	if inst := s.FindTaskInstance("ti_1"); inst == nil || !inst.Done {
		t.Fatal("instance should be marked done")
	}
}

func TestCompleteTaskRefusesDouble(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		addTask(st, "ti_1", "Laundry", 20, "2025-03-12")
	})
	if _, err := e.CompleteTask("ti_1"); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := e.CompleteTask("ti_1"); err == nil {
		t.Fatal("second complete should fail")
	}
}

func TestPowerHourMultipliesAwards(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Today.PowerHourEndsAt = testNow.Add(30 * time.Minute).UnixMilli()
		addTask(st, "ti_1", "Deep work", 10, "2025-03-12")
	})

	res, err := e.CompleteTask("ti_1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Points != 15 {
		t.Fatalf("points=%d, want 15", res.Points)
	}
	if !res.PowerHour {
		t.Fatal("result should flag the power hour")
	}
}

func TestUndoReclaimFailsClosed(t *testing.T) {
	award := ledger.New(ledger.TypeTask, "ti_1", "Laundry", 20, 0, "2025-03-12")
	e := newTestEngine(t, testNow, func(st *state.State) {
		addTask(st, "ti_1", "Laundry", 20, "2025-03-12")
		st.TaskInstances[0].Done = true
		st.Ledger = append(st.Ledger, award)
		st.Today.CoinsUnminted = 10
		st.Profile.Coins = 0
	})

	_, err := e.UndoTask("ti_1")
	var rerr ReclaimError
	if !errors.As(err, &rerr) {
		t.Fatalf("want ReclaimError, got %v", err)
	}
	s := e.Store().State()
	if len(s.Ledger) != 1 {
		t.Fatal("failed undo must not touch the ledger")
	}
	if inst := s.FindTaskInstance("ti_1"); inst == nil || !inst.Done {
		t.Fatal("failed undo must leave the instance done")
	}
}

func TestUndoReclaimsMintedCoin(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Today.CoinsUnminted = 90
		addTask(st, "ti_1", "Laundry", 20, "2025-03-12")
	})
	if _, err := e.CompleteTask("ti_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	res, err := e.UndoTask("ti_1")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.CoinsReclaimed != 1 {
		t.Fatalf("reclaimed=%d, want 1", res.CoinsReclaimed)
	}
	s := e.Store().State()
	if s.Today.CoinsUnminted != 90 {
		t.Fatalf("bucket=%d, want 90 after round trip", s.Today.CoinsUnminted)
	}
	if s.Profile.Coins != 0 {
		t.Fatalf("coins=%d, want 0 after round trip", s.Profile.Coins)
	}
}

func TestBossTickRewardPenalty(t *testing.T) {
	cases := []struct {
		points, rerolls, want int
	}{
		{10, 0, 10},
		{10, 1, 9},
		{10, 2, 8},
		{10, 3, 7},
		{10, 9, 7}, // penalty floors at 0.7
		{1, 3, 1},  // never below 1
	}
	for _, c := range cases {
		if got := BossTickReward(c.points, c.rerolls); got != c.want {
			t.Errorf("BossTickReward(%d,%d)=%d, want %d", c.points, c.rerolls, got, c.want)
		}
	}
}

func TestGenerateDailyChallengesDeterministic(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			addLibraryItem(st, state.LibraryItem{
				ID: "li_" + id, Title: id, Points: 10,
				Active: true, IncludeInChallenges: true,
			})
		}
	})
	s := e.Store().State()

	first := GenerateDailyChallenges(s, "2025-03-12")
	second := GenerateDailyChallenges(s, "2025-03-12")
	if len(first.ChallengeIDs) != 3 {
		t.Fatalf("got %d challenges, want 3", len(first.ChallengeIDs))
	}
	for i := range first.ChallengeIDs {
		if first.ChallengeIDs[i] != second.ChallengeIDs[i] {
			t.Fatal("same day must produce the same assignment")
		}
	}
	for id, snap := range first.Snapshot {
		if snap.Points != 15 {
			t.Errorf("snapshot %s points=%d, want 15 (10 x 1.5)", id, snap.Points)
		}
	}
}

func TestGenerateDailyChallengesAvoidsYesterday(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			addLibraryItem(st, state.LibraryItem{
				ID: "li_" + id, Title: id, Points: 10,
				Active: true, IncludeInChallenges: true,
			})
		}
	})
	s := e.Store().State()

	yesterday := GenerateDailyChallenges(s, "2025-03-11")
	s.DailyAssignments["2025-03-11"] = yesterday
	today := GenerateDailyChallenges(s, "2025-03-12")

	used := make(map[string]bool)
	for _, id := range yesterday.ChallengeIDs {
		used[id] = true
	}
	for _, id := range today.ChallengeIDs {
		if used[id] {
			t.Fatalf("challenge %s repeated from yesterday despite a big enough pool", id)
		}
	}
}

func TestGenerateWeeklyBossDeterministic(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
			addLibraryItem(st, state.LibraryItem{
				ID: "li_" + id, Title: id, Points: 10,
				Active: true, IncludeInBoss: true,
			})
		}
	})
	s := e.Store().State()

	first := GenerateWeeklyBoss(s, "2025-03-10", 0)
	second := GenerateWeeklyBoss(s, "2025-03-10", 0)
	if len(first.Goals) != 5 {
		t.Fatalf("got %d goals, want 5", len(first.Goals))
	}
	for i := range first.Goals {
		if first.Goals[i] != second.Goals[i] {
			t.Fatal("same week and generation must produce the same boss")
		}
		g := first.Goals[i]
		if g.Target < 2 || g.Target > 5 {
			t.Fatalf("goal %s target=%d outside [2,5]", g.ID, g.Target)
		}
	}

	rerolled := GenerateWeeklyBoss(s, "2025-03-10", 1)
	if rerolled.Rerolls != 1 {
		t.Fatalf("rerolls=%d, want 1", rerolled.Rerolls)
	}
}

func TestBossTickAndComplete(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.WeeklyBoss = &state.WeeklyBoss{
			WeekStartDay: "2025-03-10",
			Goals: []state.BossGoal{
				{ID: "bg_1", Label: "Run", Target: 2, LinkedItemID: "li_run", PointsPerTick: 10},
			},
		}
	})

	if _, err := e.TickBossGoal("bg_1"); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if got := e.BossTally("bg_1"); got != 1 {
		t.Fatalf("tally=%d, want 1", got)
	}
	if _, err := e.TickBossGoal("bg_1"); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	s := e.Store().State()
	if !s.WeeklyBoss.Completed {
		t.Fatal("boss should complete when every goal hits target")
	}

	var terr ThrottleError
	if _, err := e.TickBossGoal("bg_1"); !errors.As(err, &terr) {
		t.Fatalf("tick past target: want ThrottleError, got %v", err)
	}

	if _, err := e.UntickBossGoal("bg_1"); err != nil {
		t.Fatalf("untick: %v", err)
	}
	s = e.Store().State()
	if s.WeeklyBoss.Completed {
		t.Fatal("untick should reopen a completed boss")
	}
	if got := e.BossTally("bg_1"); got != 1 {
		t.Fatalf("tally after untick=%d, want 1", got)
	}
}

func TestLibraryThrottles(t *testing.T) {
	now := testNow // Wednesday
	e := newTestEngine(t, now, func(st *state.State) {
		addLibraryItem(st, state.LibraryItem{
			ID: "li_wk", Title: "Weekend only", Points: 5,
			Active: true, AllowedWeekdays: []int{0, 6},
		})
		addLibraryItem(st, state.LibraryItem{
			ID: "li_cd", Title: "Cooldown", Points: 5,
			Active: true, CooldownHours: 2,
			LastDoneAt: now.Add(-1 * time.Hour).UnixMilli(),
		})
		addLibraryItem(st, state.LibraryItem{
			ID: "li_cap", Title: "Capped", Points: 5,
			Active: true, MaxPerDay: 1,
		})
	})

	var terr ThrottleError
	if _, err := e.TapLibraryItem("li_wk"); !errors.As(err, &terr) {
		t.Fatalf("weekday throttle: want ThrottleError, got %v", err)
	}
	if _, err := e.TapLibraryItem("li_cd"); !errors.As(err, &terr) {
		t.Fatalf("cooldown throttle: want ThrottleError, got %v", err)
	}
	if _, err := e.TapLibraryItem("li_cap"); err != nil {
		t.Fatalf("first tap: %v", err)
	}
	if _, err := e.TapLibraryItem("li_cap"); !errors.As(err, &terr) {
		t.Fatalf("cap throttle: want ThrottleError, got %v", err)
	}
}

func TestLibraryTapStampsCooldown(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		addLibraryItem(st, state.LibraryItem{
			ID: "li_cd", Title: "Cooldown", Points: 5,
			Active: true, CooldownHours: 2,
		})
	})
	if _, err := e.TapLibraryItem("li_cd"); err != nil {
		t.Fatalf("tap: %v", err)
	}
	it := e.Store().State().FindLibraryItem("li_cd")
	if it.LastDoneAt != testNow.UnixMilli() {
		t.Fatalf("lastDoneAt=%d, want %d", it.LastDoneAt, testNow.UnixMilli())
	}
	var terr ThrottleError
	if _, err := e.TapLibraryItem("li_cd"); !errors.As(err, &terr) {
		t.Fatalf("immediate retap: want ThrottleError, got %v", err)
	}
}

func TestStartPowerHourFailsClosed(t *testing.T) {
	e := newTestEngine(t, testNow, nil)
	var cerr InsufficientCoinsError
	if err := e.StartPowerHour(); !errors.As(err, &cerr) {
		t.Fatalf("want InsufficientCoinsError, got %v", err)
	}
	s := e.Store().State()
	if len(s.Ledger) != 0 || s.Today.PowerHourEndsAt != 0 {
		t.Fatal("failed purchase must not mutate anything")
	}
}

func TestStartPowerHour(t *testing.T) {
	mint := ledger.New(ledger.TypeMint, "coins", "Coin mint", 0, 2, "2025-03-11")
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Ledger = append(st.Ledger, mint)
		st.Profile.Coins = 2
	})

	if err := e.StartPowerHour(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s := e.Store().State()
	if s.Profile.Coins != 1 {
		t.Fatalf("coins=%d, want 1", s.Profile.Coins)
	}
	wantEnds := testNow.Add(60 * time.Minute).UnixMilli()
	if s.Today.PowerHourEndsAt != wantEnds {
		t.Fatalf("endsAt=%d, want %d", s.Today.PowerHourEndsAt, wantEnds)
	}
	if !e.PowerHourActive() {
		t.Fatal("power hour should be active")
	}
	if err := e.StartPowerHour(); err == nil {
		t.Fatal("second start while active should fail")
	}
}

func TestSpendCoinsFailsClosed(t *testing.T) {
	e := newTestEngine(t, testNow, nil)
	var cerr InsufficientCoinsError
	if err := e.SpendCoins("Movie night", 3); !errors.As(err, &cerr) {
		t.Fatalf("want InsufficientCoinsError, got %v", err)
	}
	if len(e.Store().State().Ledger) != 0 {
		t.Fatal("failed purchase must not append to the ledger")
	}
}

func TestHeartbeatSpawnsContent(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.TaskRules = append(st.TaskRules, state.TaskRule{
			ID: "tr_1", Title: "Dishes", Points: 10, Active: true,
		})
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			addLibraryItem(st, state.LibraryItem{
				ID: "li_" + id, Title: id, Points: 10,
				Active: true, IncludeInChallenges: true, IncludeInBoss: true,
			})
		}
	})

	if err := e.Heartbeat(); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	s := e.Store().State()
	if len(s.TaskInstances) != 1 {
		t.Fatalf("instances=%d, want 1", len(s.TaskInstances))
	}
	if _, ok := s.DailyAssignments["2025-03-12"]; !ok {
		t.Fatal("heartbeat should assign today's challenges")
	}
	if s.WeeklyBoss == nil || s.WeeklyBoss.WeekStartDay != "2025-03-10" {
		t.Fatal("heartbeat should roll the weekly boss for the current Monday")
	}

	// Idempotent: a second heartbeat changes nothing.
	if err := e.Heartbeat(); err != nil {
		t.Fatalf("second heartbeat: %v", err)
	}
	s = e.Store().State()
	if len(s.TaskInstances) != 1 {
		t.Fatalf("instances after repeat=%d, want 1", len(s.TaskInstances))
	}
}

func TestHeartbeatRollsOverDay(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Today.Day = "2025-03-11"
		st.Today.PointsRuntime = 40
		st.Today.CoinsUnminted = 30
		st.Today.HabitsStatus = map[string]state.HabitStatus{"hb_1": {Tally: 1, Done: true}}
		addTask(st, "ti_old", "Left undone", 10, "2025-03-11")
	})

	if err := e.Heartbeat(); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	s := e.Store().State()
	if s.Today.Day != "2025-03-12" {
		t.Fatalf("day=%s, want 2025-03-12", s.Today.Day)
	}
	if s.Today.PointsRuntime != 0 {
		t.Fatalf("pointsRuntime=%d, want 0", s.Today.PointsRuntime)
	}
	if s.Today.CoinsUnminted != 30 {
		t.Fatalf("coinsUnminted=%d, want 30 (bucket carries over)", s.Today.CoinsUnminted)
	}
	if len(s.Today.HabitsStatus) != 0 {
		t.Fatal("habit cache should reset at rollover")
	}
	if s.MissedTodos["2025-03-11"] != 1 {
		t.Fatalf("missed=%d, want 1", s.MissedTodos["2025-03-11"])
	}
	if s.Progress["2025-03-11"].MissedTodos != 1 {
		t.Fatal("rebuild should surface the missed count for the closed day")
	}
}

func TestTickCounterHabitAwardsAtTarget(t *testing.T) {
	e := newTestEngine(t, testNow, func(st *state.State) {
		st.Habits = append(st.Habits, state.Habit{
			ID: "hb_w", Title: "Water", Kind: state.HabitCounter,
			TargetPerDay: 3, PointsOnComplete: 10, Active: true,
		})
	})

	for i := 0; i < 2; i++ {
		res, err := e.TickHabit("hb_w")
		if err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
		if res != nil {
			t.Fatalf("tick %d should not award yet", i+1)
		}
	}
	res, err := e.TickHabit("hb_w")
	if err != nil {
		t.Fatalf("final tick: %v", err)
	}
	if res == nil || res.Points != 10 {
		t.Fatalf("final tick should award 10 points, got %+v", res)
	}
	if _, err := e.TickHabit("hb_w"); err == nil {
		t.Fatal("tick past target should fail")
	}
}
