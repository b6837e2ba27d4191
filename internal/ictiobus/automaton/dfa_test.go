package automaton

import (
	"testing"

	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/util"
	"github.com/stretchr/testify/assert"
)

func smallGrammar() grammar.Grammar {
	g := grammar.Grammar{}
	g.AddTerm("c", types.MakeDefaultClass("c"))
	g.AddTerm("d", types.MakeDefaultClass("d"))
	g.AddRule("S", []grammar.Production{{"C", "C"}})
	g.AddRule("C", []grammar.Production{{"c", "C"}, {"d"}})
	return g
}

func TestNewLR1ViablePrefixDFA(t *testing.T) {
	g := smallGrammar()

	dfa := NewLR1ViablePrefixDFA(g)

	assert.NotEmpty(t, dfa.Start)
	// S -> C C has two C's to shift/reduce through plus the accepting state,
	// so there must be more than one state in the canonical collection.
	assert.True(t, dfa.States().Len() > 1)
}

func TestNewLR1ViablePrefixDFAAccepts(t *testing.T) {
	g := smallGrammar()
	dfa := NewLR1ViablePrefixDFA(g)

	// from the start state, shifting "d" must lead somewhere (GOTO/transition
	// defined), since d is a valid first token of the language.
	next := dfa.Next(dfa.Start, "d")
	assert.NotEmpty(t, next)
}

func TestBuildDFAHelper(t *testing.T) {
	dfa := buildDFA(map[string][]string{
		"S0": {"=(a)=> S1"},
		"S1": {"=(b)=> S1"},
	}, "S0", []string{"S1"})

	assert.True(t, dfa.IsAccepting("S1"))
	assert.False(t, dfa.IsAccepting("S0"))
	assert.Equal(t, "S1", dfa.Next("S0", "a"))
}

func buildDFA(from map[string][]string, start string, acceptingStates []string) *DFA[string] {
	dfa := &DFA[string]{}

	acceptSet := util.StringSetOf(acceptingStates)

	for k := range from {
		dfa.AddState(k, acceptSet.Has(k))
		dfa.SetValue(k, k)
	}

	// add transitions AFTER all states are already in or it will cause a panic
	for k := range from {
		for i := range from[k] {
			transition := mustParseFATransition(from[k][i])
			dfa.AddTransition(k, transition.input, transition.next)
		}
	}

	dfa.Start = start

	return dfa
}
