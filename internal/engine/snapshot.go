package engine

import (
	"fmt"

	"emberday/internal/state"
)

// ImportState replaces the whole snapshot with an externally supplied,
// already migrated one. The heartbeat afterwards rebuilds aggregates
// from the imported ledger and fills in today's content.
func (e *Engine) ImportState(next *state.State) error {
	if next == nil {
		return fmt.Errorf("import: nil state")
	}
	if err := e.store.Replace(next); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := e.Heartbeat(); err != nil {
		return fmt.Errorf("import heartbeat: %w", err)
	}
	return nil
}
