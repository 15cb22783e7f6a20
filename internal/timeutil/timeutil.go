// Package timeutil holds the calendar math the rest of the engine builds on:
// local day keys (YYYY-MM-DD), weekday indices, Monday week starts and day
// arithmetic. All functions go through local midnight so DST transitions
// cannot shift a key into the wrong day.
package timeutil

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical day key format.
const DayKeyLayout = "2006-01-02"

// DayKey returns the local calendar day key for t.
func DayKey(t time.Time) string {
	return t.Local().Format(DayKeyLayout)
}

// ParseDayKey parses a day key into local midnight of that day.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a day key by n calendar days. Invalid keys are returned
// unchanged; callers always hold keys produced by DayKey.
func AddDays(key string, n int) string {
	t, err := ParseDayKey(key)
	if err != nil {
		return key
	}
	return DayKey(t.AddDate(0, 0, n))
}

// WeekdayIndex returns 0=Sun..6=Sat for a day key.
func WeekdayIndex(key string) int {
	t, err := ParseDayKey(key)
	if err != nil {
		return 0
	}
	return int(t.Weekday())
}

// WeekStart returns the Monday key of the week containing the given day.
func WeekStart(key string) string {
	t, err := ParseDayKey(key)
	if err != nil {
		return key
	}
	back := (int(t.Weekday()) + 6) % 7 // 0=Mon..6=Sun
	return DayKey(t.AddDate(0, 0, -back))
}

// WeekStartOf returns the Monday key of the week containing t.
func WeekStartOf(t time.Time) string {
	return WeekStart(DayKey(t))
}

// NowMillis returns the current wall clock as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
