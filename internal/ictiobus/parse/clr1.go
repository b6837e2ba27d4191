package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/util"
)

// endOfInput is the lookahead terminal used for end-of-input, matching the
// convention spec.md documents for the grammar/lexer specification formats.
const endOfInput = "#"

// GenerateCanonicalLR1Parser returns a parser that uses the set of canonical
// LR(1) items from g to parse input in language g. Conflicts in a grammar that
// is not LR(1) are resolved during table construction rather than reported as
// an error (see constructCanonicalLR1ParseTable).
func GenerateCanonicalLR1Parser(g grammar.Grammar) (lrParser, error) {
	table, err := constructCanonicalLR1ParseTable(g)
	if err != nil {
		return lrParser{}, err
	}

	return lrParser{table: table, parseType: types.ParserCLR1, gram: g}, nil
}

// constructCanonicalLR1ParseTable constructs the canonical LR(1) table for G.
// It augments grammar G to produce G', then the canonical collection of sets of
// LR(1) items of G' is used to construct a table with applicable GOTO and
// ACTION columns.
//
// This is an implementation of Algorithm 4.56, "Construction of canonical-LR
// parsing tables", from the purple dragon book. In the comments, most of which
// is lifted directly from the textbook, GOTO[i, A] refers to the vaue of the
// table's GOTO column at state i, symbol A, while GOTO(i, A) refers to the
// "precomputed GOTO function for grammar G'".
//
// Conflicts are not fatal: a shift/reduce conflict resolves to shift, and a
// reduce/reduce conflict resolves to whichever production was declared first
// in the grammar. Both are recorded as diagnostics on the returned table's
// Conflicts slice rather than aborting construction.
func constructCanonicalLR1ParseTable(g grammar.Grammar) (LRParseTable, error) {
	// we will skip a few steps here and simply grab the LR(1) viable-prefix
	// DFA for G' which
	// will pretty immediately give us our GOTO() function, since as purple
	// dragon book mentions, "intuitively, the GOTO function is used to define
	// the transitions in the LR(0) automaton for a grammar."
	lr1Automaton := automaton.NewLR1ViablePrefixDFA(g)

	table := &canonicalLR1Table{
		gPrime:    g.Augmented(),
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		lr1:       lr1Automaton,
		itemCache: map[string]grammar.LR1Item{},
		prodOrder: prodDeclOrder(g),
	}

	// collect item cache from the states of our lr1 DFA
	allStates := util.OrderedKeys(table.lr1.States())
	for _, dfaStateName := range allStates {
		itemSet := table.lr1.GetValue(dfaStateName)
		for k := range itemSet {
			table.itemCache[k] = itemSet[k]
		}
	}

	// pre-compute and resolve every ACTION cell up front so conflicts are
	// diagnosed (and silently resolved) exactly once, at construction time.
	for i := range lr1Automaton.States() {
		for _, a := range table.gPrime.Terminals() {
			table.resolveAction(i, a)
		}
		table.resolveAction(i, endOfInput)
	}

	return table, nil
}

// prodDeclOrder assigns each production of every rule an increasing ordinal
// in grammar declaration order, used to break reduce/reduce conflicts in
// favor of whichever alternative was written first.
func prodDeclOrder(g grammar.Grammar) map[string]int {
	order := map[string]int{}
	n := 0
	for _, nt := range g.NonTerminals() {
		for _, prod := range g.Rule(nt).Productions {
			order[nt+" -> "+prod.String()] = n
			n++
		}
	}
	return order
}

type canonicalLR1Table struct {
	gPrime    grammar.Grammar
	gStart    string
	lr1       automaton.DFA[util.SVSet[grammar.LR1Item]]
	itemCache map[string]grammar.LR1Item
	gTerms    []string
	gNonTerms []string
	prodOrder map[string]int

	// Conflicts holds one human-readable diagnostic per shift/reduce or
	// reduce/reduce conflict that construction silently resolved.
	Conflicts []string

	resolved map[string]LRAction
}

// resolveAction computes, caches, and (on conflict) records the resolution
// for ACTION[state, term]. It is the single place conflicting candidate
// actions for a cell are merged into the one the table will actually use.
func (clr1 *canonicalLR1Table) resolveAction(state, term string) LRAction {
	if clr1.resolved == nil {
		clr1.resolved = map[string]LRAction{}
	}
	cacheKey := state + "\x00" + term
	if act, ok := clr1.resolved[cacheKey]; ok {
		return act
	}

	itemSet := clr1.lr1.GetValue(state)
	var matchFound bool
	var act LRAction

	for itemStr := range itemSet {
		item := clr1.itemCache[itemStr]
		A := item.NonTerminal
		alpha := item.Left
		beta := item.Right
		b := item.Lookahead

		var candidate LRAction
		var haveCandidate bool

		if clr1.gPrime.IsTerminal(term) && len(beta) > 0 && beta[0] == term {
			j, err := clr1.Goto(state, term)
			if err == nil {
				candidate = LRAction{Type: LRShift, State: j}
				haveCandidate = true
			}
		} else if len(beta) == 0 && A != clr1.gPrime.StartSymbol() && term == b {
			candidate = LRAction{Type: LRReduce, Symbol: A, Production: grammar.Production(alpha)}
			haveCandidate = true
		} else if term == endOfInput && b == endOfInput && A == clr1.gPrime.StartSymbol() &&
			len(alpha) == 1 && alpha[0] == clr1.gStart && len(beta) == 0 {
			candidate = LRAction{Type: LRAccept}
			haveCandidate = true
		}

		if !haveCandidate {
			continue
		}
		if !matchFound {
			act = candidate
			matchFound = true
			continue
		}
		if candidate.Equal(act) {
			continue
		}

		resolved, diag := resolveLRConflict(act, candidate, term, clr1.prodOrder)
		clr1.Conflicts = append(clr1.Conflicts, diag)
		act = resolved
	}

	if !matchFound {
		act.Type = LRError
	}

	clr1.resolved[cacheKey] = act
	return act
}

func (clr1 *canonicalLR1Table) String() string {
	// need mapping of state to indexes
	stateRefs := map[string]string{}

	// need to gaurantee order
	stateNames := clr1.lr1.States().Elements()
	sort.Strings(stateNames)

	// put the initial state first
	for i := range stateNames {
		if stateNames[i] == clr1.lr1.Start {
			old := stateNames[0]
			stateNames[0] = stateNames[i]
			stateNames[i] = old
			break
		}
	}
	for i := range stateNames {
		stateRefs[stateNames[i]] = fmt.Sprintf("%d", i)
	}

	allTerms := make([]string, len(clr1.gTerms))
	copy(allTerms, clr1.gTerms)
	allTerms = append(allTerms, endOfInput)

	// okay now do data setup
	data := [][]string{}

	// set up the headers
	headers := []string{"S", "|"}

	for _, t := range allTerms {
		headers = append(headers, fmt.Sprintf("A:%s", t))
	}

	headers = append(headers, "|")

	for _, nt := range clr1.gNonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	// now need to do each state
	for stateIdx := range stateNames {
		i := stateNames[stateIdx]
		row := []string{stateRefs[i], "|"}

		for _, t := range allTerms {
			act := clr1.Action(i, t)

			cell := ""
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				// reduces to the state that corresponds with the symbol
				cell = fmt.Sprintf("r%s -> %s", act.Symbol, act.Production.String())
			case LRShift:
				cell = fmt.Sprintf("s%s", stateRefs[act.State])
			case LRError:
				// do nothing, err is blank
			}

			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range clr1.gNonTerms {
			var cell = ""

			gotoState, err := clr1.Goto(i, nt)
			if err == nil {
				cell = stateRefs[gotoState]
			}

			row = append(row, cell)
		}

		data = append(data, row)
	}

	// This used to be 120 width. Glu88in' *8et* on that. lol.
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (clr1 *canonicalLR1Table) Initial() string {
	return clr1.lr1.Start
}

// GetDFA returns the underlying canonical-LR(1) viable-prefix DFA with its
// per-state item sets erased, leaving just the state-name automaton.
func (clr1 *canonicalLR1Table) GetDFA() automaton.DFA[string] {
	return automaton.TransformDFA(clr1.lr1, func(util.SVSet[grammar.LR1Item]) string { return "" })
}

func (clr1 *canonicalLR1Table) Goto(state, symbol string) (string, error) {
	// step 3 of algorithm 4.56, "Construction of canonical-LR parsing tables",
	// for reference:

	// 3. The goto transitions for state i are constructed for all nonterminals
	// A using the rule: If GOTO(Iᵢ, A) = Iⱼ, then GOTO[i, A] = j.
	newState := clr1.lr1.Next(state, symbol)
	if newState == "" {
		return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
	}
	return newState, nil
}

func (clr1 *canonicalLR1Table) Action(i, a string) LRAction {
	// step 2 of algorithm 4.56, "Construction of canonical-LR parsing tables":
	// (a) shift on a terminal successor, (b) reduce on a completed item whose
	// lookahead matches, (c) accept on [S' -> S., #]. Conflicting candidates
	// were already resolved once, at table-construction time.
	return clr1.resolveAction(i, a)
}

// resolveLRConflict picks the winner between two candidate actions for the
// same (state, terminal) cell and returns a diagnostic describing what was
// chosen and why. Shift always wins over reduce; between two reduces, the
// production declared earliest in the grammar wins.
func resolveLRConflict(act1, act2 LRAction, onInput string, order map[string]int) (LRAction, string) {
	isSR1, shiftAct := isShiftReduceConlict(act1, act2)
	if isSR1 {
		return shiftAct, fmt.Sprintf("shift/reduce conflict on %q resolved in favor of %s", onInput, shiftAct.String())
	}

	if act1.Type == LRReduce && act2.Type == LRReduce {
		key1 := act1.Symbol + " -> " + act1.Production.String()
		key2 := act2.Symbol + " -> " + act2.Production.String()
		winner := act1
		if order[key2] < order[key1] {
			winner = act2
		}
		return winner, fmt.Sprintf("reduce/reduce conflict on %q between %s and %s resolved in favor of %s",
			onInput, act1.String(), act2.String(), winner.String())
	}

	// genuinely unresolvable (e.g. accept vs anything): keep the
	// first-discovered action but still surface the conflict.
	return act1, makeLRConflictError(act1, act2, onInput).Error()
}
