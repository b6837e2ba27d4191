package grammar

import (
	"testing"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

func termClass(id string) types.TokenClass {
	return types.MakeDefaultClass(id)
}

// exprGrammar builds the textbook E -> E + T | T ; T -> T * F | F ; F -> ( E ) | id
func exprGrammar() Grammar {
	g := Grammar{}
	g.AddTerm("+", termClass("+"))
	g.AddTerm("*", termClass("*"))
	g.AddTerm("(", termClass("("))
	g.AddTerm(")", termClass(")"))
	g.AddTerm("id", termClass("id"))

	g.AddRule("E", []Production{{"E", "+", "T"}, {"T"}})
	g.AddRule("T", []Production{{"T", "*", "F"}, {"F"}})
	g.AddRule("F", []Production{{"(", "E", ")"}, {"id"}})

	return g
}

func TestGrammarValidate(t *testing.T) {
	g := exprGrammar()
	assert.NoError(t, g.Validate())
}

func TestGrammarValidateUndefinedSymbol(t *testing.T) {
	g := Grammar{}
	g.AddTerm("id", termClass("id"))
	g.AddRule("E", []Production{{"id", "bogus"}})
	assert.Error(t, g.Validate())
}

func TestGrammarAugmented(t *testing.T) {
	g := exprGrammar()
	gPrime := g.Augmented()

	assert.Equal(t, "E", g.StartSymbol())
	assert.Equal(t, "E'", gPrime.StartSymbol())
	assert.True(t, gPrime.HasRule("E'"))
	assert.Equal(t, []Production{{"E"}}, gPrime.Rule("E'").Productions)

	// original grammar must not have been mutated
	assert.False(t, g.HasRule("E'"))
}

func TestGrammarFIRST(t *testing.T) {
	g := exprGrammar()

	first := g.FIRST("E")
	assert.True(t, first.Has("("))
	assert.True(t, first.Has("id"))
	assert.False(t, first.Has("+"))
}

func TestGrammarFIRSTNullable(t *testing.T) {
	g := Grammar{}
	g.AddTerm("a", termClass("a"))
	g.AddRule("S", []Production{{"A", "a"}})
	g.AddRule("A", []Production{Production(Epsilon)})

	first := g.FIRST("A")
	assert.True(t, first.Has(Epsilon[0]))

	firstS := g.FIRST("S")
	assert.True(t, firstS.Has("a"))
}

func TestGrammarLR0Items(t *testing.T) {
	g := Grammar{}
	g.AddTerm("id", termClass("id"))
	g.AddRule("S", []Production{{"id"}})

	items := g.LR0Items()
	// dot at position 0 and position 1 of the one-symbol production
	assert.Len(t, items, 2)
}

func TestGrammarLR1Closure(t *testing.T) {
	g := exprGrammar().Augmented()

	initial := LR1Item{
		LR0Item:   LR0Item{NonTerminal: g.StartSymbol(), Right: []string{"E"}},
		Lookahead: "#",
	}

	start := g.LR1_CLOSURE(map[string]LR1Item{initial.String(): initial})

	// closure over E' -> . E, # must also produce E -> . E + T, # / +
	// and T -> . T * F, #/+ and F -> . ( E ), #/+/*  and F -> . id, ...
	foundEStart := false
	for _, k := range start.Elements() {
		item := start.Get(k)
		if item.NonTerminal == "E" && len(item.Left) == 0 {
			foundEStart = true
		}
	}
	assert.True(t, foundEStart)
	assert.True(t, start.Len() > 1)
}
