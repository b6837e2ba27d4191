package parse

import (
	"fmt"
	"strings"

	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/icterrors"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/util"
)

// LRParseTable is a table of information passed to an LR parser. These will be
// generated from a grammar for the purposes of performing bottom-up parsing.
type LRParseTable interface {
	// Shift reads one token of input. For SR parsers that are implemented with
	// a stack, this will push a terminal onto the stack.
	//
	// ABC|xyz => ABCx|yz
	//Shift()

	// Reduce applies an inverse production at the right end of the left string.
	// For SR parsers that are implemented with a stack, this will pop 0 or more
	// terminals off of the stack (production rhs), then will push a
	// non-terminal onto the stack (production lhs).
	//
	// Given A -> xy is a production, then:
	// Cbxy|ijk => CbA|ijk
	//Reduce()

	// Initial returns the initial state of the parse table, if that is
	// applicable for the table.
	Initial() string

	// Action gets the next action to take based on a state i and terminal a.
	Action(state, symbol string) LRAction

	// Goto maps a state and a grammar symbol to some other state.
	Goto(state, symbol string) (string, error)

	// String prints a string representation of the table. If two LRParseTables
	// produce the same String() output, they are considered equal.
	String() string

	// GetDFA returns the DFA simulated by the table. Some tables may in fact
	// be the DFA itself along with supplementary info.
	GetDFA() automaton.DFA[string]
}

type lrParser struct {
	table     LRParseTable
	parseType types.ParserType
	gram      grammar.Grammar
	trace     func(s string)

	// syncSet is the %Syn-declared set of synchronisation tokens panic-mode
	// recovery is restricted to. A nil/empty set falls back to resyncing on
	// end-of-input only, since syncRecover must never use an arbitrary
	// non-error token as a resync point.
	syncSet map[string]bool
}

func (lr *lrParser) GetDFA() *automaton.DFA[string] {
	dfa := lr.table.GetDFA()
	return &dfa
}

// Table returns the underlying LR parse table, for callers (such as
// tablecache) that need to persist or replay it directly rather than
// through lrParser's own Parse loop.
func (lr lrParser) Table() LRParseTable {
	return lr.table
}

// FromTable wraps an already-constructed LRParseTable (such as one replayed
// from tablecache) in a working CLR(1) parser, without redoing canonical-
// LR(1) construction. g must be the same grammar the table was built from;
// it is kept for error-reporting (findExpectedTokens) since the table
// itself does not carry symbol metadata. syncSet is the %Syn-declared
// synchronisation token set panic-mode recovery restricts itself to; it may
// be nil, in which case recovery only ever resyncs on end-of-input.
func FromTable(table LRParseTable, g grammar.Grammar, syncSet map[string]bool) lrParser {
	return lrParser{table: table, parseType: types.ParserCLR1, gram: g, syncSet: syncSet}
}

func (lr *lrParser) RegisterTraceListener(listener func(s string)) {
	lr.trace = listener
}

func (lr *lrParser) Type() types.ParserType {
	return lr.parseType
}

func (lr *lrParser) TableString() string {
	return lr.table.String()
}

func (lr lrParser) notifyTraceFn(fn func() string) {
	if lr.trace != nil {
		lr.trace(fn())
	}
}

func (lr lrParser) notifyTrace(fmtStr string, args ...interface{}) {
	lr.notifyTraceFn(func() string { return fmt.Sprintf(fmtStr, args...) })
}

func (lr lrParser) notifyStatePeek(s string) {
	lr.notifyTrace("states.peek(): %s", s)
}

func (lr lrParser) notifyStatePush(s string) {
	lr.notifyTrace("states.push(): %s", s)
}

func (lr lrParser) notifyStatePop(s string) {
	if s == "" {
		lr.notifyTrace("states.pop()")
	} else {
		lr.notifyTrace("states.pop(): %s", s)
	}
}

func (lr lrParser) notifyAction(act LRAction) {
	lr.notifyTrace("Action: %s", act.Type.String())
}

func (lr lrParser) notifyNextToken(tok types.Token) {
	lr.notifyTrace("Got next token: %s", tok.String())
}

func (lr lrParser) notifyTokenStack(st util.Stack[types.Token]) {
	lr.notifyTraceFn(func() string {
		var lexStr strings.Builder
		var tokStr strings.Builder
		for i := range st.Of {
			tok := st.Of[i]
			lexStr.WriteRune('"')
			lexStr.WriteString(tok.Lexeme())
			lexStr.WriteRune('"')

			tokStr.WriteString(strings.ToUpper(tok.Class().ID()))

			if i+1 < len(st.Of) {
				lexStr.WriteString(", ")
				tokStr.WriteString(", ")
			}
		}
		if st.Empty() {
			lexStr.WriteString("(empty)")
			tokStr.WriteString("(empty)")
		}

		str := fmt.Sprintf("Token stack (lexed): %s", lexStr.String())
		str += "\n"
		str += fmt.Sprintf("Token stack (ttype): %s", tokStr.String())

		return str
	})
}

// Parse parses the input stream with the internal LR parse table.
//
// This is an implementation of Algorithm 4.44, "LR-parsing algorithm", from
// the purple dragon book, extended with sync-token panic-mode recovery: an
// error ACTION entry is not immediately fatal. The parser pops states until
// one of them admits the current (or some later) lookahead, discarding input
// along the way, and resumes. Every error encountered, recovered or not, is
// appended to the returned diagnostic list; a non-nil error is returned only
// when recovery itself runs out of input without ever finding a state to
// resume from, or when a reduce finds no GOTO entry for its non-terminal.
func (lr *lrParser) Parse(stream types.TokenStream) (types.ParseTree, []*diag.Diagnostic, error) {
	stateStack := util.Stack[string]{Of: []string{lr.table.Initial()}}

	// we will use these to build our parse tree
	tokenBuffer := util.Stack[types.Token]{}
	subTreeRoots := util.Stack[*types.ParseTree]{}

	var diags []*diag.Diagnostic

	// let a be the first symbol of w$;
	a := stream.Next()
	lr.notifyNextToken(a)

	for { /* repeat forever */
		lr.notifyTokenStack(tokenBuffer)

		// let s be the state on top of the stack;
		s := stateStack.Peek()
		lr.notifyStatePeek(s)

		ACTION := lr.table.Action(s, a.Class().ID())
		lr.notifyAction(ACTION)

		switch ACTION.Type {
		case LRShift: // if ( ACTION[s, a] = shift t )
			// add token to our buffer
			tokenBuffer.Push(a)

			t := ACTION.State

			// push t onto the stack
			stateStack.Push(t)
			lr.notifyStatePush(t)

			// let a be the next input symbol
			a = stream.Next()
			lr.notifyNextToken(a)
		case LRReduce: // else if ( ACTION[s, a] = reduce A -> β )
			A := ACTION.Symbol
			beta := ACTION.Production

			// use the reduce to create a node in the parse tree
			node := &types.ParseTree{Value: A, Children: make([]*types.ParseTree, 0)}
			// we need to go from right to left of the production to pop things
			// from the stacks in the correct order
			for i := len(beta) - 1; i >= 0; i-- {
				sym := beta[i]
				if lr.gram.IsTerminal(sym) {
					// it is a terminal. read the source from the token buffer
					tok := tokenBuffer.Pop()
					subNode := &types.ParseTree{Terminal: true, Value: tok.Class().ID(), Source: tok}
					node.Children = append([]*types.ParseTree{subNode}, node.Children...)
				} else {
					// it is a non-terminal. it should be in our stack of
					// current tree roots.
					subNode := subTreeRoots.Pop()
					node.Children = append([]*types.ParseTree{subNode}, node.Children...)
				}
			}
			// remember it for next time
			subTreeRoots.Push(node)

			// pop |β| symbols off the stack;
			for i := 0; i < len(beta); i++ {
				stateStack.Pop()
				lr.notifyStatePop("")
			}

			// let state t now be on top of the stack
			t := stateStack.Peek()
			lr.notifyStatePeek(t)

			// push GOTO[t, A] onto the stack
			toPush, err := lr.table.Goto(t, A)
			if err != nil {
				diagErr := icterrors.NewSyntaxErrorFromToken(fmt.Sprintf("LR parsing error; DFA has no valid transition from here on %q", A), a)
				return types.ParseTree{}, diags, diagErr
			}
			stateStack.Push(toPush)
			lr.notifyStatePush(toPush)

			// output the production A -> β
			// (TODO: put it on the parse tree)
		case LRAccept: // else if ( ACTION[s, a] = accept )
			// parsing is done. there should be at least one item on the stack
			pt := subTreeRoots.Pop()
			return *pt, diags, nil
		case LRError:
			expMessage := lr.getExpectedString(s)
			pos := diag.Position{Line: a.Line(), Column: a.LinePos()}
			diags = append(diags, diag.Syntactic(pos, "unexpected %s; %s", a.Class().Human(), expMessage))

			recovered, nextA := lr.syncRecover(&stateStack, a, stream)
			if !recovered {
				return types.ParseTree{}, diags, fmt.Errorf("unrecoverable syntax error: ran out of input while synchronizing after %s", pos.String())
			}
			a = nextA
			lr.notifyNextToken(a)
		}
	}
}

// syncRecover implements panic-mode error recovery: per spec §4.8, it
// discards input tokens until one of the %Syn-declared synchronisation
// tokens (or end-of-input) is seen, then pops states off stateStack until
// the top of the stack admits a non-error ACTION for that token. It never
// resynchronizes on an arbitrary token outside the declared sync set. At
// least one state is always left on the stack. It returns false only if
// input is exhausted before a resync point is found.
func (lr *lrParser) syncRecover(stateStack *util.Stack[string], lookahead types.Token, stream types.TokenStream) (bool, types.Token) {
	a := lr.discardToSyncToken(lookahead, stream)

	for {
		for i := len(stateStack.Of) - 1; i >= 0; i-- {
			st := stateStack.Of[i]
			if lr.table.Action(st, a.Class().ID()).Type != LRError {
				for len(stateStack.Of)-1 > i {
					stateStack.Pop()
					lr.notifyStatePop("")
				}
				return true, a
			}
		}

		if a.Class().ID() == types.TokenEndOfText.ID() {
			return false, a
		}
		next := stream.Next()
		lr.notifyNextToken(next)
		a = lr.discardToSyncToken(next, stream)
	}
}

// discardToSyncToken advances from a (inclusive) through the stream,
// discarding tokens, until a declared %Syn synchronisation token or
// end-of-input is reached (end-of-input always counts, so this always
// terminates). It notifies the trace listener for every token it fetches
// itself, but not for a, which the caller is assumed to have notified.
func (lr *lrParser) discardToSyncToken(a types.Token, stream types.TokenStream) types.Token {
	for !lr.isSyncToken(a) {
		a = stream.Next()
		lr.notifyNextToken(a)
	}
	return a
}

// isSyncToken reports whether a is a declared %Syn synchronisation token or
// end-of-input. With no declared sync set, only end-of-input qualifies.
func (lr *lrParser) isSyncToken(a types.Token) bool {
	if a.Class().ID() == types.TokenEndOfText.ID() {
		return true
	}
	return lr.syncSet[a.Class().ID()]
}

func (lr lrParser) getExpectedString(stateName string) string {
	expected := lr.findExpectedTokens(stateName)

	var sb strings.Builder

	sb.WriteString("expected ")

	commas := false
	finalOr := false

	if len(expected) > 1 {
		finalOr = true
		if len(expected) > 2 {
			commas = true
		}
	}
	for i := range expected {
		t := expected[i]

		if i == 0 {
			sb.WriteString(util.ArticleFor(t.Human(), false))
			sb.WriteRune(' ')
		}

		if finalOr && i+1 == len(expected) {
			sb.WriteString(" or ")
		}

		sb.WriteString(t.Human())
		if commas && i+1 < len(expected) {
			sb.WriteString(", ")
		}
	}

	return sb.String()
}

// findExpectedTokens returns all token classes that are allowed/expected for
// the given state, that is, those symbols that result in a non-error entry.
func (lr lrParser) findExpectedTokens(stateName string) []types.TokenClass {
	terms := lr.gram.Terminals()

	classes := make([]types.TokenClass, 0)
	for i := range terms {
		t := lr.gram.Term(terms[i])
		act := lr.table.Action(stateName, terms[i])
		if act.Type != LRError {
			classes = append(classes, t)
		}
	}

	return classes
}
