package engine

import (
	"errors"
	"fmt"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
	"emberday/internal/timeutil"
)

// PowerHourActive reports whether the multiplier window is currently
// open.
func (e *Engine) PowerHourActive() bool {
	return powerHourActive(e.store.State(), e.now())
}

// PowerHourEndsAt returns the window's end time, or the zero time when
// no window is open.
func (e *Engine) PowerHourEndsAt() time.Time {
	s := e.store.State()
	ends := s.Today.PowerHourEndsAt
	if ends == 0 || !powerHourActive(s, e.now()) {
		return time.Time{}
	}
	return time.UnixMilli(ends)
}

// StartPowerHour spends coins to open the multiplier window. Refuses if
// a window is already open. The purchase entry and the window start land
// in one batch so subscribers never see the coins gone without the
// window.
func (e *Engine) StartPowerHour() error {
	s := e.store.State()
	now := e.now()
	if powerHourActive(s, now) {
		return errors.New("power hour already active")
	}
	if s.Profile.Coins < e.powerHourCoinCost {
		return InsufficientCoinsError{Needed: e.powerHourCoinCost, Available: s.Profile.Coins}
	}

	today := e.today(s)
	entry := ledger.New(ledger.TypePurchase, "power_hour", "Power Hour", 0, -e.powerHourCoinCost, today)
	ends := now.Add(time.Duration(e.powerHourMinutes) * time.Minute).UnixMilli()

	err := e.store.DispatchBatch(
		state.LedgerAppend{Entry: entry},
		state.TodayPatch{PowerHourEndsAt: &ends},
		rebuildAction(s, append(append([]ledger.Entry{}, s.Ledger...), entry), today),
	)
	if err != nil {
		return fmt.Errorf("start power hour: %w", err)
	}
	e.log.Info("power hour started", "ends_at", time.UnixMilli(ends))
	return nil
}

// SpendCoins records a coin purchase. Purchases are terminal: there is
// no undo path, so the check is fail-closed before anything is written.
func (e *Engine) SpendCoins(label string, coins int) error {
	if coins < 1 {
		return errors.New("purchase must cost at least one coin")
	}
	s := e.store.State()
	if s.Profile.Coins < coins {
		return InsufficientCoinsError{Needed: coins, Available: s.Profile.Coins}
	}
	today := e.today(s)
	entry := ledger.New(ledger.TypePurchase, "", label, 0, -coins, today)
	err := e.store.DispatchBatch(
		state.LedgerAppend{Entry: entry},
		rebuildAction(s, append(append([]ledger.Entry{}, s.Ledger...), entry), today),
	)
	if err != nil {
		return fmt.Errorf("spend coins: %w", err)
	}
	return nil
}

// clearExpiredPowerHour zeroes a window whose end time has passed.
// Called from Heartbeat; a no-op when nothing is set or still running.
func (e *Engine) clearExpiredPowerHour(now time.Time) error {
	s := e.store.State()
	ends := s.Today.PowerHourEndsAt
	if ends == 0 || now.UnixMilli() < ends {
		return nil
	}
	var zero int64
	if err := e.store.Dispatch(state.TodayPatch{PowerHourEndsAt: &zero}); err != nil {
		return err
	}
	e.log.Info("power hour ended", "day", timeutil.DayKey(now))
	return nil
}
