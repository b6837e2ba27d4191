package regex

import (
	"testing"

	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptsString(nfa *automaton.NFA[string], accept string, s string) bool {
	dfa := nfa.ToDFA()
	cur := dfa.Start
	for _, r := range s {
		cur = dfa.Next(cur, string(r))
		if cur == "" {
			return false
		}
	}
	return dfa.IsAccepting(cur)
}

func TestCompileLiteralConcat(t *testing.T) {
	nfa := &automaton.NFA[string]{}
	ids := &IDGen{}
	start := ids.Next()
	nfa.AddState(start, false)
	nfa.Start = start

	frag, err := Compile(nfa, ids, "abc")
	require.NoError(t, err)
	nfa.AddTransition(start, "", frag.Start)
	markAccepting(nfa, frag.Accept)

	assert.True(t, acceptsString(nfa, frag.Accept, "abc"))
	assert.False(t, acceptsString(nfa, frag.Accept, "ab"))
	assert.False(t, acceptsString(nfa, frag.Accept, "abcd"))
}

func TestCompileAlternation(t *testing.T) {
	nfa := &automaton.NFA[string]{}
	ids := &IDGen{}
	start := ids.Next()
	nfa.AddState(start, false)
	nfa.Start = start

	frag, err := Compile(nfa, ids, "cat|dog")
	require.NoError(t, err)
	nfa.AddTransition(start, "", frag.Start)
	markAccepting(nfa, frag.Accept)

	assert.True(t, acceptsString(nfa, frag.Accept, "cat"))
	assert.True(t, acceptsString(nfa, frag.Accept, "dog"))
	assert.False(t, acceptsString(nfa, frag.Accept, "cow"))
}

func TestCompileStar(t *testing.T) {
	nfa := &automaton.NFA[string]{}
	ids := &IDGen{}
	start := ids.Next()
	nfa.AddState(start, false)
	nfa.Start = start

	frag, err := Compile(nfa, ids, "a*")
	require.NoError(t, err)
	nfa.AddTransition(start, "", frag.Start)
	markAccepting(nfa, frag.Accept)

	assert.True(t, acceptsString(nfa, frag.Accept, ""))
	assert.True(t, acceptsString(nfa, frag.Accept, "aaaa"))
	assert.False(t, acceptsString(nfa, frag.Accept, "aaab"))
}

func TestCompileEscapes(t *testing.T) {
	nfa := &automaton.NFA[string]{}
	ids := &IDGen{}
	start := ids.Next()
	nfa.AddState(start, false)
	nfa.Start = start

	frag, err := Compile(nfa, ids, `\n\_\*`)
	require.NoError(t, err)
	nfa.AddTransition(start, "", frag.Start)
	markAccepting(nfa, frag.Accept)

	assert.True(t, acceptsString(nfa, frag.Accept, "\n *"))
}

func TestCompileUnmatchedParen(t *testing.T) {
	nfa := &automaton.NFA[string]{}
	ids := &IDGen{}
	nfa.AddState("s0", false)
	nfa.Start = "s0"

	_, err := Compile(nfa, ids, "(ab")
	assert.Error(t, err)
}

func markAccepting(nfa *automaton.NFA[string], state string) {
	// test-only helper: NFA has no exported mutator for marking an existing
	// state accepting after creation, so acceptance is synthesized by
	// wrapping with a dedicated accepting state reachable only via epsilon
	// (the same way lexspec.Generate marks each rule's accept state).
	nfa.AddState(state+"_accept", true)
	nfa.AddTransition(state, "", state+"_accept")
}
