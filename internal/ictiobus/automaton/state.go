package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riscc32/ppjc/internal/util"
)

// FATransition is one outgoing edge of a finite-automaton state: the input
// symbol that triggers it ("" for an NFA epsilon move) and the name of the
// state it leads to.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

func mustParseFATransition(s string) FATransition {
	t, err := parseFATransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

func parseFATransition(s string) (FATransition, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return FATransition{}, fmt.Errorf("not a valid FATransition: %q", s)
	}

	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if len(left) < 3 {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left len < 3: %q", left)
	}

	if left[0] != '=' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[0] != '=': %q", left)
	}
	if left[1] != '(' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[1] != '(': %q", left)
	}
	left = left[2:]
	if len(left) < 4 {
		return FATransition{}, fmt.Errorf("not a valid left: len(chopped) < 4: %q", left)
	}
	if left[len(left)-1] != '>' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-1] != '>': %q", left)
	}
	if left[len(left)-2] != '=' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-2] != '=': %q", left)
	}
	if left[len(left)-3] != ')' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-3] != ')': %q", left)
	}
	input := left[:len(left)-3]
	if input == "ε" {
		input = ""
	}

	next := right
	if next == "" {
		return FATransition{}, fmt.Errorf("not a valid FATransition: bad next: %q", s)
	}

	return FATransition{input: input, next: next}, nil
}

// DFAState is one state of a DFA[E]: its name, its attached value, its
// (deterministic) outgoing transitions, whether it accepts, and the order
// it was added in (used by NumberStates for reproducible renumbering).
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
	ordering    uint64
}

func (ns DFAState[E]) Copy() DFAState[E] {
	copied := DFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		ordering:    ns.ordering,
		transitions: make(map[string]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		copied.transitions[k] = v
	}
	return copied
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// NFAState is one state of an NFA[E]: its name, its attached value, its
// (possibly nondeterministic, possibly epsilon-keyed) outgoing transitions,
// and whether it accepts.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) Copy() NFAState[E] {
	copied := NFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		cp := make([]FATransition, len(v))
		copy(cp, v)
		copied.transitions[k] = cp
	}
	return copied
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}
