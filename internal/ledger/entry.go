// Package ledger defines the append-only event log that is the single
// source of truth for points, coins and streaks, plus the pure rebuild
// that derives every aggregate from it.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies what kind of activity produced a ledger entry.
type EntryType string

const (
	TypeTask      EntryType = "task"
	TypeHabit     EntryType = "habit"
	TypeChallenge EntryType = "challenge"
	TypeBoss      EntryType = "boss"
	TypeLibrary   EntryType = "library"
	TypeMint      EntryType = "mint"
	TypePurchase  EntryType = "purchase"
)

func (t EntryType) IsValid() bool {
	switch t {
	case TypeTask, TypeHabit, TypeChallenge, TypeBoss, TypeLibrary, TypeMint, TypePurchase:
		return true
	default:
		return false
	}
}

// Entry is one immutable event. Entries are never edited or removed; an
// undo is a new entry with inverted sign for the same type and subject on
// the same day.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    int64     `json:"ts"` // epoch ms
	Day          string    `json:"day"`
	Type         EntryType `json:"type"`
	SubjectID    string    `json:"subjectId"`
	SubjectLabel string    `json:"subjectLabel"`
	PointsDelta  int       `json:"pointsDelta"`
	CoinsDelta   int       `json:"coinsDelta"`
}

// New builds an entry stamped with a fresh ID and the current time.
func New(typ EntryType, subjectID, label string, pointsDelta, coinsDelta int, day string) Entry {
	return Entry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UnixMilli(),
		Day:          day,
		Type:         typ,
		SubjectID:    subjectID,
		SubjectLabel: label,
		PointsDelta:  pointsDelta,
		CoinsDelta:   coinsDelta,
	}
}
