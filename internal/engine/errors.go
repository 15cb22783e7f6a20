package engine

import (
	"errors"
	"fmt"
)

// ErrNothingToUndo is returned when no positive award exists today for
// the requested type and subject.
var ErrNothingToUndo = errors.New("nothing to undo")

// ReclaimError reports an undo that would need more coins back than the
// profile holds. Nothing is mutated when it is returned.
type ReclaimError struct {
	Needed    int
	Available int
}

func (e ReclaimError) Error() string {
	return fmt.Sprintf("undo needs to reclaim %d coin(s) but only %d available; earn coins or undo purchases first", e.Needed, e.Available)
}

// InsufficientCoinsError reports a purchase the balance cannot cover.
type InsufficientCoinsError struct {
	Needed    int
	Available int
}

func (e InsufficientCoinsError) Error() string {
	return fmt.Sprintf("not enough coins: need %d, have %d", e.Needed, e.Available)
}

// ThrottleError reports a refused library tap or tick (cooldown, max per
// day, weekday restriction, target reached).
type ThrottleError struct {
	Subject string
	Reason  string
}

func (e ThrottleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}
