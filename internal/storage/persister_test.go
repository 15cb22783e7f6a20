package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"emberday/internal/ledger"
	"emberday/internal/state"
)

func openTestDB(t *testing.T) *SQLitePersister {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "ember.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLitePersister(ctx, db)
}

func TestLoadEmptyReturnsNil(t *testing.T) {
	p := openTestDB(t)
	st, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st != nil {
		t.Fatal("fresh db should load nil state")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := openTestDB(t)

	st := state.Migrate(nil, "2025-03-12")
	st.Habits = append(st.Habits, state.Habit{
		ID: "hb_1", Title: "Stretch", Kind: state.HabitBinary,
		PointsOnComplete: 10, Active: true,
	})
	st.Ledger = append(st.Ledger,
		ledger.New(ledger.TypeHabit, "hb_1", "Stretch", 10, 0, "2025-03-12"),
		ledger.New(ledger.TypeMint, "coins", "Coin mint", 0, 1, "2025-03-12"),
	)
	if err := p.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("saved state should load back")
	}
	if len(got.Habits) != 1 || got.Habits[0].ID != "hb_1" {
		t.Fatalf("habits did not round-trip: %+v", got.Habits)
	}
	if len(got.Ledger) != 2 {
		t.Fatalf("ledger len=%d, want 2", len(got.Ledger))
	}
	if got.Ledger[0].SubjectID != "hb_1" || got.Ledger[1].Type != ledger.TypeMint {
		t.Fatal("ledger order did not survive the round trip")
	}
}

func TestSaveIsIdempotentOnLedger(t *testing.T) {
	p := openTestDB(t)

	st := state.Migrate(nil, "2025-03-12")
	st.Ledger = append(st.Ledger,
		ledger.New(ledger.TypeTask, "ti_1", "Laundry", 20, 0, "2025-03-12"))

	for i := 0; i < 3; i++ {
		if err := p.Save(st); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Ledger) != 1 {
		t.Fatalf("ledger len=%d, want 1 (repeated saves must not duplicate)", len(got.Ledger))
	}
}

func TestWipe(t *testing.T) {
	p := openTestDB(t)
	st := state.Migrate(nil, "2025-03-12")
	st.Ledger = append(st.Ledger,
		ledger.New(ledger.TypeTask, "ti_1", "Laundry", 20, 0, "2025-03-12"))
	if err := p.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := p.Wipe(); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatal("wiped db should load nil state")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()

	st := state.Migrate(nil, "2025-03-12")
	st.Profile.BestStreak = 6
	st.Ledger = append(st.Ledger,
		ledger.New(ledger.TypeChallenge, "li_a", "Pushups", 15, 0, "2025-03-12"))

	for _, name := range []string{"export.json", "export.json.zst"} {
		path := filepath.Join(dir, name)
		if err := Export(path, st); err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		got, err := Import(path, "2025-03-13")
		if err != nil {
			t.Fatalf("import %s: %v", name, err)
		}
		if got.Profile.BestStreak != 6 {
			t.Fatalf("%s: bestStreak=%d, want 6", name, got.Profile.BestStreak)
		}
		if len(got.Ledger) != 1 || got.Ledger[0].SubjectID != "li_a" {
			t.Fatalf("%s: ledger did not round-trip", name)
		}
	}
}

func TestImportMalformedJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{this is not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Import(path, "2025-03-12")
	if err == nil {
		t.Fatal("import of malformed JSON must fail, not synthesize defaults")
	}
	if st != nil {
		t.Fatalf("failed import returned a state: %+v", st)
	}
}
