package tablecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/parse"
)

const sampleGrammarSrc = `
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

func TestKeyForSourceIsStable(t *testing.T) {
	k1 := KeyForSource([]byte(sampleGrammarSrc))
	k2 := KeyForSource([]byte(sampleGrammarSrc))
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)

	k3 := KeyForSource([]byte(sampleGrammarSrc + "\n"))
	assert.NotEqual(t, k1, k3)
}

func TestPutGetRoundTrip(t *testing.T) {
	res, err := grammar.Load(sampleGrammarSrc)
	require.NoError(t, err)

	parser, err := parse.GenerateCanonicalLR1Parser(res.Grammar)
	require.NoError(t, err)
	table := parser.Table()

	dir := t.TempDir()
	key := KeyForSource([]byte(sampleGrammarSrc))

	require.NoError(t, Put(dir, key, res.Grammar, table))

	cached, ok, err := Get(dir, key)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, table.Initial(), cached.Initial())

	for _, term := range res.Grammar.Terminals() {
		for state := range table.GetDFA().States() {
			want := table.Action(state, term)
			got := cached.Action(state, term)
			assert.Equal(t, want.Type, got.Type, "state=%s term=%s", state, term)
		}
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := Get(dir, "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}
