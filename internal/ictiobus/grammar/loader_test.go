package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrammarSrc = `
# textbook expression grammar
%V E T F
%T + * ( ) id
%Syn ) $

<E> ::= <E> + <T>
<E> ::= <T>
<T> ::= <T> * <F>
<T> ::= <F>
<F> ::= ( <E> )
<F> ::= id
`

func TestLoadBasic(t *testing.T) {
	res, err := Load(sampleGrammarSrc)
	require.NoError(t, err)

	g := res.Grammar
	assert.Equal(t, "E'", g.StartSymbol())
	assert.True(t, g.HasRule("E"))
	assert.True(t, g.HasRule("E'"))
	assert.Len(t, g.Rule("E").Productions, 2)
	assert.Len(t, g.Rule("T").Productions, 2)
	assert.Len(t, g.Rule("F").Productions, 2)

	assert.True(t, g.IsTerminal("+"))
	assert.True(t, g.IsTerminal("id"))

	assert.True(t, res.SyncSet[")"])
	assert.True(t, res.SyncSet["$"])
}

func TestLoadEpsilonProduction(t *testing.T) {
	src := `
%V S A
%T a
<S> ::= <A> a
<A> ::= $
`
	res, err := Load(src)
	require.NoError(t, err)

	a := res.Grammar.Rule("A")
	require.Len(t, a.Productions, 1)
	assert.Equal(t, Production{"$"}, a.Productions[0])
}

func TestLoadUndefinedSymbol(t *testing.T) {
	src := `
%V S
%T a
<S> ::= <A> a
`
	_, err := Load(src)
	assert.Error(t, err)
}

func TestLoadMalformedProduction(t *testing.T) {
	src := `
%V S
<S> a b c
`
	_, err := Load(src)
	assert.Error(t, err)
}
