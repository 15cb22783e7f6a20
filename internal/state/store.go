package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Persister is the persistence collaborator. Load returns (nil, nil) when
// no prior state exists or the stored form cannot be decoded; Save is
// best-effort.
type Persister interface {
	Load() (*State, error)
	Save(*State) error
	Wipe() error
}

// Listener observes committed actions. It runs synchronously inside
// dispatch, after persistence.
type Listener func(*State, Action)

// Store owns the snapshot. All transitions are serialized through
// Dispatch; no other code may mutate State fields.
type Store struct {
	mu        sync.Mutex
	state     *State
	persister Persister
	log       *slog.Logger

	listeners map[int]Listener
	nextSub   int

	// Ring of recently applied dispatch IDs, so duplicate UI-originated
	// calls do not double-append ledger entries.
	recentIDs []string
	recentSet map[string]struct{}
}

const recentIDCap = 64

// NewStore builds a store around an initial (already migrated) state.
func NewStore(initial *State, persister Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		state:     initial,
		persister: persister,
		log:       log,
		listeners: make(map[int]Listener),
		recentSet: make(map[string]struct{}),
	}
}

// State returns the current snapshot. Callers must treat it as read-only;
// every mutation goes through Dispatch.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch applies one action. The transition, the save and the
// subscriber notifications all complete before Dispatch returns; a
// rejected action leaves the state untouched.
func (s *Store) Dispatch(action Action) error {
	return s.dispatch("", action)
}

// DispatchOnce is Dispatch with duplicate suppression: a repeated
// non-empty id within the recent window is dropped without error.
func (s *Store) DispatchOnce(id string, action Action) error {
	return s.dispatch(id, action)
}

func (s *Store) dispatch(id string, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, seen := s.recentSet[id]; seen {
			return nil
		}
	}

	if err := reduce(s.state, action); err != nil {
		return err
	}

	if id != "" {
		s.remember(id)
	}

	if s.persister != nil {
		if err := s.persister.Save(s.state); err != nil {
			// Durability is best-effort; the in-memory state stays correct.
			s.log.Error("state save failed", "action", action.Name(), "err", err)
		}
	}

	for _, fn := range s.listeners {
		fn(s.state, action)
	}
	return nil
}

// DispatchBatch applies a sequence of actions as one transition: either
// every action commits, or the state is restored and nothing is visible
// to subscribers or the persister. Listeners are notified per action,
// after the whole batch has committed.
func (s *Store) DispatchBatch(actions ...Action) error {
	if len(actions) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup, err := cloneState(s.state)
	if err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}
	for _, a := range actions {
		if err := reduce(s.state, a); err != nil {
			s.state = backup
			return err
		}
	}

	if s.persister != nil {
		if err := s.persister.Save(s.state); err != nil {
			s.log.Error("state save failed", "action", actions[len(actions)-1].Name(), "err", err)
		}
	}
	for _, a := range actions {
		for _, fn := range s.listeners {
			fn(s.state, a)
		}
	}
	return nil
}

func cloneState(st *State) (*State, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var out State
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) remember(id string) {
	if len(s.recentIDs) >= recentIDCap {
		oldest := s.recentIDs[0]
		s.recentIDs = s.recentIDs[1:]
		delete(s.recentSet, oldest)
	}
	s.recentIDs = append(s.recentIDs, id)
	s.recentSet[id] = struct{}{}
}

// Reset wipes persistence and installs a fresh default state.
func (s *Store) Reset(today string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister != nil {
		if err := s.persister.Wipe(); err != nil {
			return fmt.Errorf("wipe state: %w", err)
		}
	}
	s.state = Migrate(nil, today)
	if s.persister != nil {
		if err := s.persister.Save(s.state); err != nil {
			s.log.Error("state save failed after reset", "err", err)
		}
	}
	for _, fn := range s.listeners {
		fn(s.state, SetState{Value: s.state})
	}
	return nil
}

// Replace wipes persistence and installs the supplied state wholesale.
// Import goes through here rather than Dispatch(SetState) because the
// persister's ledger rows are append-only; a replaced ledger must not be
// merged with the old one.
func (s *Store) Replace(next *State) error {
	if next == nil {
		return ValidationError{Action: SetState{}.Name(), Reason: "nil state"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister != nil {
		if err := s.persister.Wipe(); err != nil {
			return fmt.Errorf("wipe state: %w", err)
		}
	}
	s.state = next
	if s.persister != nil {
		if err := s.persister.Save(s.state); err != nil {
			s.log.Error("state save failed after replace", "err", err)
		}
	}
	for _, fn := range s.listeners {
		fn(s.state, SetState{Value: s.state})
	}
	return nil
}

// NewID mints an entity id with a readable prefix.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// reduce applies one action variant to the state in place.
func reduce(st *State, action Action) error {
	switch a := action.(type) {
	case SetState:
		if a.Value == nil {
			return ValidationError{Action: a.Name(), Reason: "nil state"}
		}
		*st = *a.Value

	case TodayPatch:
		if a.Day != nil {
			st.Today.Day = *a.Day
		}
		if a.PointsRuntime != nil {
			st.Today.PointsRuntime = *a.PointsRuntime
		}
		if a.CoinsUnminted != nil {
			st.Today.CoinsUnminted = *a.CoinsUnminted
		}
		if a.PowerHourEndsAt != nil {
			st.Today.PowerHourEndsAt = *a.PowerHourEndsAt
		}
		if a.HabitsStatus != nil {
			st.Today.HabitsStatus = a.HabitsStatus
		}

	case LedgerAppend:
		if !a.Entry.Type.IsValid() {
			return ValidationError{Action: a.Name(), Reason: fmt.Sprintf("unknown entry type %q", a.Entry.Type)}
		}
		if a.Entry.Day == "" {
			return ValidationError{Action: a.Name(), Reason: "entry has no day key"}
		}
		st.Ledger = append(st.Ledger, a.Entry)

	case TaskInstanceAdd:
		inst := a.Instance
		if inst.ID == "" {
			inst.ID = NewID("ti")
		}
		if inst.Title == "" {
			return ValidationError{Action: a.Name(), Reason: "title is required"}
		}
		st.TaskInstances = append(st.TaskInstances, inst)

	case TaskInstanceUpdate:
		for i := range st.TaskInstances {
			if st.TaskInstances[i].ID == a.Instance.ID {
				st.TaskInstances[i] = a.Instance
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown task instance " + a.Instance.ID}

	case TaskInstanceDelete:
		st.TaskInstances = deleteByID(st.TaskInstances, a.ID, func(t TaskInstance) string { return t.ID })

	case TaskRuleAdd:
		r := a.Rule
		if r.ID == "" {
			r.ID = NewID("tr")
		}
		if r.Title == "" {
			return ValidationError{Action: a.Name(), Reason: "title is required"}
		}
		st.TaskRules = append(st.TaskRules, r)

	case TaskRuleUpdate:
		for i := range st.TaskRules {
			if st.TaskRules[i].ID == a.Rule.ID {
				st.TaskRules[i] = a.Rule
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown task rule " + a.Rule.ID}

	case TaskRuleDelete:
		// Instances already spawned for past days are kept; history stands.
		st.TaskRules = deleteByID(st.TaskRules, a.ID, func(r TaskRule) string { return r.ID })

	case TaskRuleToggleActive:
		for i := range st.TaskRules {
			if st.TaskRules[i].ID == a.ID {
				st.TaskRules[i].Active = !st.TaskRules[i].Active
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown task rule " + a.ID}

	case HabitAdd:
		h := a.Habit
		if h.ID == "" {
			h.ID = NewID("hb")
		}
		if h.Title == "" {
			return ValidationError{Action: a.Name(), Reason: "title is required"}
		}
		if !h.Kind.IsValid() {
			return ValidationError{Action: a.Name(), Reason: fmt.Sprintf("invalid habit kind %q", h.Kind)}
		}
		if h.Kind == HabitCounter && h.TargetPerDay < 1 {
			h.TargetPerDay = 1
		}
		st.Habits = append(st.Habits, h)

	case HabitUpdate:
		for i := range st.Habits {
			if st.Habits[i].ID == a.Habit.ID {
				st.Habits[i] = a.Habit
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown habit " + a.Habit.ID}

	case HabitDelete:
		// Ledger history for the habit is untouched.
		st.Habits = deleteByID(st.Habits, a.ID, func(h Habit) string { return h.ID })

	case HabitToggleActive:
		for i := range st.Habits {
			if st.Habits[i].ID == a.ID {
				st.Habits[i].Active = !st.Habits[i].Active
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown habit " + a.ID}

	case LibraryAdd:
		it := a.Item
		if it.ID == "" {
			it.ID = NewID("li")
		}
		if it.Title == "" {
			return ValidationError{Action: a.Name(), Reason: "title is required"}
		}
		st.Library = append(st.Library, it)

	case LibraryUpdate:
		for i := range st.Library {
			if st.Library[i].ID == a.Item.ID {
				st.Library[i] = a.Item
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown library item " + a.Item.ID}

	case LibraryDelete:
		st.Library = deleteByID(st.Library, a.ID, func(it LibraryItem) string { return it.ID })

	case LibraryToggleActive:
		for i := range st.Library {
			if st.Library[i].ID == a.ID {
				st.Library[i].Active = !st.Library[i].Active
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown library item " + a.ID}

	case LibraryTouch:
		for i := range st.Library {
			if st.Library[i].ID == a.ID {
				st.Library[i].LastDoneAt = a.LastDoneAt
				return nil
			}
		}
		return ValidationError{Action: a.Name(), Reason: "unknown library item " + a.ID}

	case AssignDailyChallenges:
		if a.Assignment.Day == "" {
			return ValidationError{Action: a.Name(), Reason: "assignment has no day key"}
		}
		if st.DailyAssignments == nil {
			st.DailyAssignments = make(map[string]DailyAssignment)
		}
		st.DailyAssignments[a.Assignment.Day] = a.Assignment

	case SetWeeklyBoss:
		st.WeeklyBoss = a.Boss

	case ProgressRebuild:
		st.Progress = a.Progress
		st.CoinsTotal = a.CoinsTotal
		st.Streak = a.Streak
		st.Profile.Coins = a.CoinsTotal
		if a.BestStreak > st.Profile.BestStreak {
			st.Profile.BestStreak = a.BestStreak
		}

	case SetMissedTodos:
		if st.MissedTodos == nil {
			st.MissedTodos = make(map[string]int)
		}
		st.MissedTodos[a.Day] = a.Count

	case SettingsUpdate:
		st.Settings = clampSettings(a.Settings)

	case Tick:
		// Heartbeat marker only.

	default:
		return ValidationError{Action: "?", Reason: fmt.Sprintf("unhandled action type %T", action)}
	}
	return nil
}

func deleteByID[T any](items []T, id string, key func(T) string) []T {
	out := items[:0]
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}
