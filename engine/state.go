package engine

import "fmt"

// State is the progress of one ResolveAssociations call. It only moves
// forward: Idle, Resolving, Fetching, Matching, then Done, or Failed from
// any state before Done.
type State int

const (
	Idle State = iota
	Resolving
	Fetching
	Matching
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Fetching:
		return "fetching"
	case Matching:
		return "matching"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Transition is delivered to an Observer on every state change.
type Transition struct {
	CallID string
	Name   string
	From   State
	To     State
}

type Observer func(Transition)

type tracker struct {
	callID   string
	name     string
	state    State
	observer Observer
}

func (t *tracker) moveTo(next State) {
	if t.state.Terminal() || (next != Failed && next <= t.state) {
		panic(fmt.Sprintf("engine: illegal transition %s -> %s", t.state, next))
	}
	prev := t.state
	t.state = next
	if t.observer != nil {
		t.observer(Transition{CallID: t.callID, Name: t.name, From: prev, To: next})
	}
}
