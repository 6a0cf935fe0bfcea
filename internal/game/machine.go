package game

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type StateID int
type EventID int

type Event struct {
	ID      EventID
	Payload any
}

type Action func(ctx context.Context, evt *Event, from StateID, to StateID) error
type Guard func(ctx context.Context, evt *Event, from StateID, to StateID) (bool, error)

var (
	ErrNotStarted = errors.New("machine not started")
	ErrFinalState = errors.New("machine is in a final state")
)

// ---

type State struct {
	ID          StateID
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
	Final       bool
}

type Transition struct {
	Event  EventID
	Source *State
	Target *State // nil --> internal transition
	Guard  Guard  // nil --> always taken
	Action Action // nil --> do nothing
}

// Machine is a flat state machine: the first transition whose event matches
// and whose guard passes fires.
type Machine struct {
	states  map[StateID]*State
	initial *State
	current *State
	started bool
	logger  *zap.Logger
}

//
// Public API
//

func (s *State) OnEntry(action Action) {
	s.EntryAction = action
}

func (s *State) OnExit(action Action) {
	s.ExitAction = action
}

// On appends a transition in document order. A nil target makes it internal:
// only the action runs and the state is neither exited nor re-entered.
func (s *State) On(event EventID, target *State, guard Guard, action Action) *State {
	s.Transitions = append(s.Transitions, &Transition{
		Event:  event,
		Source: s,
		Target: target,
		Guard:  guard,
		Action: action,
	})
	return s
}

func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, errors.New("no states provided")
	}
	m := &Machine{
		states: map[StateID]*State{},
		logger: zap.NewNop(),
	}

	// Build LUT and find initial state.
	for _, s := range states {
		if s == nil {
			return nil, errors.New("nil state")
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, errors.New("duplicate state ID")
		}
		m.states[s.ID] = s
		if s.Initial {
			if m.initial != nil {
				return nil, errors.New("more than one initial state")
			}
			m.initial = s
		}
	}
	if m.initial == nil {
		m.initial = states[0] // First state is assigned as initial.
	}

	for _, s := range states {
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			if t.Source == nil {
				t.Source = s
			}
			if t.Target != nil && m.states[t.Target.ID] != t.Target {
				return nil, errors.New("transition target is not a machine state")
			}
		}
	}
	m.current = m.initial
	return m, nil
}

// SetLogger enables transition logging. A nil logger is ignored.
func (m *Machine) SetLogger(l *zap.Logger) {
	if l != nil {
		m.logger = l
	}
}

// Start enters the initial state.
func (m *Machine) Start(ctx context.Context) error {
	m.current = m.initial
	if err := m.current.enterState(ctx, nil, m.current.ID, m.current.ID); err != nil {
		return err
	}
	m.started = true
	return nil
}

// Send delivers evt to the current state. Events with no matching
// transition are ignored.
func (m *Machine) Send(ctx context.Context, evt Event) error {
	if !m.started {
		return ErrNotStarted
	}
	if m.current.Final {
		return ErrFinalState
	}

	t, err := m.pickTransition(ctx, m.current, &evt)
	if err != nil || t == nil {
		return err
	}

	next, err := t.doTransition(ctx, &evt)
	if err != nil {
		return err
	}
	if next != m.current {
		m.logger.Debug("transition",
			zap.Int("event", int(evt.ID)),
			zap.Int("from", int(m.current.ID)),
			zap.Int("to", int(next.ID)))
	}
	m.current = next
	return nil
}

// Current returns the active state.
func (m *Machine) Current() StateID {
	return m.current.ID
}

// Done reports whether the machine reached a final state.
func (m *Machine) Done() bool {
	return m.started && m.current.Final
}

//
// Helper Functions (internal API)
//

func (s *State) enterState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.EntryAction != nil {
		return s.EntryAction(ctx, evt, from, to)
	}
	return nil
}

func (s *State) exitState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.ExitAction != nil {
		return s.ExitAction(ctx, evt, from, to)
	}
	return nil
}

// pickTransition returns the first transition, in document order, whose event
// matches and whose guard passes.
func (m *Machine) pickTransition(ctx context.Context, s *State, evt *Event) (*Transition, error) {
	for _, t := range s.Transitions {
		if t == nil || t.Event != evt.ID {
			continue
		}
		pass, err := t.evaluateGuard(ctx, evt)
		if err != nil {
			return nil, err
		}
		if pass {
			return t, nil
		}
	}
	return nil, nil
}

func (t *Transition) targetID() StateID {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

func (t *Transition) evaluateGuard(ctx context.Context, evt *Event) (bool, error) {
	if t.Guard != nil {
		return t.Guard(ctx, evt, t.Source.ID, t.targetID())
	}
	return true, nil
}

func (t *Transition) evaluateAction(ctx context.Context, evt *Event) error {
	if t.Action != nil {
		return t.Action(ctx, evt, t.Source.ID, t.targetID())
	}
	return nil
}

// doTransition runs a transition and returns the resulting state.
func (t *Transition) doTransition(ctx context.Context, evt *Event) (*State, error) {
	if t.Target == nil {
		return t.Source, t.evaluateAction(ctx, evt)
	}

	if err := t.Source.exitState(ctx, evt, t.Source.ID, t.Target.ID); err != nil {
		return t.Source, err
	}
	if err := t.evaluateAction(ctx, evt); err != nil {
		// Rewind: re-enter the source state and report the failure.
		if rerr := t.Source.enterState(ctx, nil, t.Source.ID, t.Source.ID); rerr != nil {
			return t.Source, errors.Join(err, rerr)
		}
		return t.Source, err
	}
	if err := t.Target.enterState(ctx, evt, t.Source.ID, t.Target.ID); err != nil {
		return t.Source, err
	}
	return t.Target, nil
}
