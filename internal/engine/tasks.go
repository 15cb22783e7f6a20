package engine

import (
	"fmt"

	"emberday/internal/ledger"
	"emberday/internal/state"
)

// CompleteTask awards a task instance and marks it done.
func (e *Engine) CompleteTask(id string) (*AwardResult, error) {
	s := e.store.State()
	inst := s.FindTaskInstance(id)
	if inst == nil {
		return nil, fmt.Errorf("task %s not found", id)
	}
	if inst.Done {
		return nil, fmt.Errorf("task %q is already done", inst.Title)
	}

	pts := applyMultipliers(s, e.now(), inst.Points)
	done := *inst
	done.Done = true
	return e.appendWithMint(ledger.TypeTask, inst.ID, inst.Title, pts,
		state.TaskInstanceUpdate{Instance: done})
}

// UndoTask reverses today's completion of a task instance and reopens it.
func (e *Engine) UndoTask(id string) (*UndoResult, error) {
	s := e.store.State()
	inst := s.FindTaskInstance(id)
	var extra []state.Action
	if inst != nil && inst.Done {
		reopened := *inst
		reopened.Done = false
		extra = append(extra, state.TaskInstanceUpdate{Instance: reopened})
	}
	return e.UndoLastFor(ledger.TypeTask, id, extra...)
}

// AddAdHocTask creates a one-off task instance for today.
func (e *Engine) AddAdHocTask(title string, points int) error {
	s := e.store.State()
	return e.store.Dispatch(state.TaskInstanceAdd{Instance: state.TaskInstance{
		ID:     state.NewID("ti"),
		Title:  title,
		Points: points,
		Day:    e.today(s),
	}})
}
