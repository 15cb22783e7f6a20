package timeutil

import (
	"testing"
	"time"
)

func TestDayKeyRoundTrip(t *testing.T) {
	key := "2025-03-10"
	parsed, err := ParseDayKey(key)
	if err != nil {
		t.Fatalf("ParseDayKey: %v", err)
	}
	if got := DayKey(parsed); got != key {
		t.Fatalf("DayKey(ParseDayKey(%q))=%q", key, got)
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 {
		t.Fatalf("expected local midnight, got %v", parsed)
	}
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
	cases := []struct {
		key  string
		n    int
		want string
	}{
		{"2025-03-10", 1, "2025-03-11"},
		{"2025-03-31", 1, "2025-04-01"},
		{"2025-01-01", -1, "2024-12-31"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2025-03-10", -7, "2025-03-03"},
	}
	for _, c := range cases {
		if got := AddDays(c.key, c.n); got != c.want {
			t.Errorf("AddDays(%q, %d)=%q, want %q", c.key, c.n, got, c.want)
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2025-03-10 is a Monday.
	if got := WeekdayIndex("2025-03-10"); got != 1 {
		t.Fatalf("WeekdayIndex(Mon)=%d, want 1", got)
	}
	if got := WeekdayIndex("2025-03-09"); got != 0 {
		t.Fatalf("WeekdayIndex(Sun)=%d, want 0", got)
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	for _, key := range []string{"2025-03-10", "2025-03-12", "2025-03-16"} {
		if got := WeekStart(key); got != "2025-03-10" {
			t.Errorf("WeekStart(%q)=%q, want 2025-03-10", key, got)
		}
	}
	// A Monday is its own week start.
	if got := WeekStart("2025-03-10"); got != "2025-03-10" {
		t.Fatalf("WeekStart(Mon)=%q", got)
	}
}

func TestWeekStartOf(t *testing.T) {
	wed := time.Date(2025, 3, 12, 15, 30, 0, 0, time.Local)
	if got := WeekStartOf(wed); got != "2025-03-10" {
		t.Fatalf("WeekStartOf(Wed)=%q, want 2025-03-10", got)
	}
}
