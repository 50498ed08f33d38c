// Package workflow implements the transition engines behind every
// status-bearing entity: time-off requests, shift swaps, and the schedule
// lifecycle. Each workflow is a closed transition table plus per-action actor
// authorization; nothing here touches storage or transport.
package workflow

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

type Status interface {
	~string
}

type Action string

// AuthFunc decides whether the actor may trigger an action on the entity.
// It returns domain.ErrUnauthorized (wrapped) when the actor is not allowed.
type AuthFunc[E any] func(e *E, actor domain.Actor) error

type transitionKey[S Status] struct {
	from   S
	action Action
}

type actionSpec[E any] struct {
	authorize AuthFunc[E]
	review    bool
}

// Machine validates and applies one transition at a time. S is the status
// enum, E the entity carrying it. The table is fixed at construction; a
// status with no outgoing entries is terminal.
type Machine[S Status, E any] struct {
	name        string
	statuses    []S
	actions     map[Action]actionSpec[E]
	table       map[transitionKey[S]]S
	status      func(*E) S
	setStatus   func(*E, S)
	setReviewer func(*E, int64)
}

func NewMachine[S Status, E any](name string, statuses []S, status func(*E) S, setStatus func(*E, S)) *Machine[S, E] {
	return &Machine[S, E]{
		name:      name,
		statuses:  statuses,
		actions:   make(map[Action]actionSpec[E]),
		table:     make(map[transitionKey[S]]S),
		status:    status,
		setStatus: setStatus,
	}
}

// OnReview registers the setter used for actions declared as reviews.
func (m *Machine[S, E]) OnReview(set func(*E, int64)) *Machine[S, E] {
	m.setReviewer = set
	return m
}

// Action declares an action with its authorization rule. review marks the
// action as a supervisor review, which records the actor on the entity.
func (m *Machine[S, E]) Action(a Action, authorize AuthFunc[E], review bool) *Machine[S, E] {
	m.actions[a] = actionSpec[E]{authorize: authorize, review: review}
	return m
}

// Permit adds a table entry (from, action) -> to. The action must have been
// declared first.
func (m *Machine[S, E]) Permit(from S, a Action, to S) *Machine[S, E] {
	if _, ok := m.actions[a]; !ok {
		panic("workflow: permit of undeclared action " + string(a))
	}
	m.table[transitionKey[S]{from: from, action: a}] = to
	return m
}

// Terminal reports whether a status has no outgoing transitions.
func (m *Machine[S, E]) Terminal(s S) bool {
	for key := range m.table {
		if key.from == s {
			return false
		}
	}
	return true
}

// Statuses returns the closed status set the machine was declared over.
func (m *Machine[S, E]) Statuses() []S {
	return m.statuses
}

func (m *Machine[S, E]) check(e *E, a Action, actor domain.Actor) (S, error) {
	var zero S

	spec, ok := m.actions[a]
	if !ok {
		return zero, domain.IllegalTransitionf("%s: unknown action %q", m.name, a)
	}

	// Actor legality is judged per action, not per status: an accept attempt
	// by the wrong user is unauthorized even when the swap is already closed.
	if err := spec.authorize(e, actor); err != nil {
		return zero, err
	}

	current := m.status(e)
	to, ok := m.table[transitionKey[S]{from: current, action: a}]
	if !ok {
		return zero, domain.IllegalTransitionf("%s: action %q is not legal from status %q", m.name, a, current)
	}
	return to, nil
}

// CanApply reports whether Apply would succeed for this entity, action and
// actor.
func (m *Machine[S, E]) CanApply(e *E, a Action, actor domain.Actor) bool {
	_, err := m.check(e, a, actor)
	return err == nil
}

// Apply performs one transition in place. It fails with ErrIllegalTransition
// when (status, action) has no table entry (terminal statuses included) and
// with ErrUnauthorized when the actor may not trigger the action.
func (m *Machine[S, E]) Apply(e *E, a Action, actor domain.Actor) error {
	to, err := m.check(e, a, actor)
	if err != nil {
		return err
	}

	m.setStatus(e, to)
	if m.actions[a].review && m.setReviewer != nil {
		m.setReviewer(e, actor.ID)
	}
	return nil
}

// SupervisorOnly authorizes any supervisor.
func SupervisorOnly[E any](e *E, actor domain.Actor) error {
	if !actor.IsSupervisor() {
		return domain.Unauthorizedf("action requires the supervisor role")
	}
	return nil
}

// BoundUser authorizes exactly the user whose id the selector yields,
// regardless of role.
func BoundUser[E any](pick func(*E) int64) AuthFunc[E] {
	return func(e *E, actor domain.Actor) error {
		if actor.ID != pick(e) {
			return domain.Unauthorizedf("actor %d is not bound to this action", actor.ID)
		}
		return nil
	}
}
