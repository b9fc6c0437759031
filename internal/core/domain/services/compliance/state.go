package compliance

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// State is the classification progress of one package.
//
//	Unclassified ──> PreProcessed ──> Classified ──┬──> Accepted
//	                                               └──> Forbidden
type State int

const (
	UnknownState State = iota
	Unclassified
	PreProcessed
	Classified
	Forbidden
	Accepted
)

func getStateStrings() map[State]string {
	return map[State]string{
		UnknownState: "Unknown",
		Unclassified: "Unclassified",
		PreProcessed: "PreProcessed",
		Classified:   "Classified",
		Forbidden:    "Forbidden",
		Accepted:     "Accepted",
	}
}

func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s State) PreProcess() (State, error) {
	return s.transition(Unclassified, PreProcessed)
}

func (s State) Classify() (State, error) {
	return s.transition(PreProcessed, Classified)
}

func (s State) Forbid() (State, error) {
	return s.transition(Classified, Forbidden)
}

func (s State) Accept() (State, error) {
	return s.transition(Classified, Accepted)
}

// IsFinal reports whether no further transition is possible.
func (s State) IsFinal() bool {
	return s == Forbidden || s == Accepted
}

func (s State) transition(from, to State) (State, error) {
	if s != from {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"classification state is invalid",
			fmt.Errorf("cannot move from %s to %s", s, to),
		)
	}
	return to, nil
}
