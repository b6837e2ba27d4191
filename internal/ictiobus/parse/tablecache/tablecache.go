// Package tablecache persists a constructed LR parse table to disk keyed by
// a hash of the grammar definition source it was built from, so repeated
// runs over an unchanged grammar skip canonical-LR(1) construction
// entirely.
package tablecache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/parse"
)

// endOfInput mirrors parse's own unexported lookahead terminal; ACTION
// cells on this symbol must be cached alongside ordinary terminal cells.
const endOfInput = "#"

// KeyForSource returns the cache key for a grammar definition's raw bytes:
// its FNV-1a hash, hex-encoded.
func KeyForSource(src []byte) string {
	h := fnv.New64a()
	h.Write(src)
	return fnvHex(h.Sum64())
}

func fnvHex(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// stateEntry captures one DFA state's name and accepting flag.
type stateEntry struct {
	Name       string
	Accepting  bool
}

// transEntry captures one DFA transition.
type transEntry struct {
	From, Input, To string
}

// actionEntry captures one non-error ACTION table cell. Error cells are
// never stored; Action falls back to LRError for anything not found.
type actionEntry struct {
	State, Symbol string
	Type          int
	Production    []string
	ProdSymbol    string
	ShiftState    string
}

// gotoEntry captures one GOTO table cell.
type gotoEntry struct {
	State, Symbol, To string
}

// entry is the full on-disk cache record for one grammar's LR table.
type entry struct {
	Initial     string
	States      []stateEntry
	Transitions []transEntry
	Actions     []actionEntry
	Gotos       []gotoEntry
}

// Put builds a cache entry from a freshly-constructed table and its source
// grammar, and writes it under dir/<key>.tab using a temp-file-then-rename
// so a reader never observes a partially-written cache file.
func Put(dir, key string, g grammar.Grammar, table parse.LRParseTable) error {
	e := entry{Initial: table.Initial()}

	dfa := table.GetDFA()
	states := dfa.States()
	for s := range states {
		e.States = append(e.States, stateEntry{Name: s, Accepting: dfa.IsAccepting(s)})
	}

	symbols := allSymbols(g)

	for s := range states {
		for _, sym := range symbols {
			if to := dfa.Next(s, sym); to != "" {
				e.Transitions = append(e.Transitions, transEntry{From: s, Input: sym, To: to})
			}
		}

		for _, sym := range g.Terminals() {
			act := table.Action(s, sym)
			if act.Type == parse.LRError {
				continue
			}
			e.Actions = append(e.Actions, toActionEntry(s, sym, act))
		}
		if act := table.Action(s, endOfInput); act.Type != parse.LRError {
			e.Actions = append(e.Actions, toActionEntry(s, endOfInput, act))
		}

		for _, nt := range g.NonTerminals() {
			if to, err := table.Goto(s, nt); err == nil && to != "" {
				e.Gotos = append(e.Gotos, gotoEntry{State: s, Symbol: nt, To: to})
			}
		}
	}

	data, err := rezi.Enc(e)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, key+".tab.*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, key+".tab"))
}

func toActionEntry(state, symbol string, act parse.LRAction) actionEntry {
	return actionEntry{
		State:      state,
		Symbol:     symbol,
		Type:       int(act.Type),
		Production: []string(act.Production),
		ProdSymbol: act.Symbol,
		ShiftState: act.State,
	}
}

func allSymbols(g grammar.Grammar) []string {
	syms := append([]string{}, g.Terminals()...)
	syms = append(syms, g.NonTerminals()...)
	return syms
}

// Get reads and reconstructs a cached table from dir/<key>.tab. It reports
// (nil, false, nil) on a cache miss (no error, just nothing cached yet).
func Get(dir, key string) (parse.LRParseTable, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, key+".tab"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var e entry
	if _, err := rezi.Dec(data, &e); err != nil {
		return nil, false, err
	}

	dfa := &automaton.DFA[string]{Start: e.Initial}
	for _, s := range e.States {
		dfa.AddState(s.Name, s.Accepting)
	}
	for _, tr := range e.Transitions {
		dfa.AddTransition(tr.From, tr.Input, tr.To)
	}
	for _, s := range e.States {
		dfa.SetValue(s.Name, s.Name)
	}

	actions := map[string]map[string]parse.LRAction{}
	for _, a := range e.Actions {
		if actions[a.State] == nil {
			actions[a.State] = map[string]parse.LRAction{}
		}
		actions[a.State][a.Symbol] = parse.LRAction{
			Type:       parse.LRActionType(a.Type),
			Production: grammar.Production(a.Production),
			Symbol:     a.ProdSymbol,
			State:      a.ShiftState,
		}
	}

	gotos := map[string]map[string]string{}
	for _, gt := range e.Gotos {
		if gotos[gt.State] == nil {
			gotos[gt.State] = map[string]string{}
		}
		gotos[gt.State][gt.Symbol] = gt.To
	}

	t := &cachedTable{
		initial: e.Initial,
		dfa:     *dfa,
		actions: actions,
		gotos:   gotos,
	}
	return t, true, nil
}

// cachedTable replays a previously-constructed table's ACTION/GOTO
// decisions without redoing canonical-LR(1) construction.
type cachedTable struct {
	initial string
	dfa     automaton.DFA[string]
	actions map[string]map[string]parse.LRAction
	gotos   map[string]map[string]string
}

func (t *cachedTable) Initial() string {
	return t.initial
}

func (t *cachedTable) Action(state, symbol string) parse.LRAction {
	if row, ok := t.actions[state]; ok {
		if act, ok := row[symbol]; ok {
			return act
		}
	}
	return parse.LRAction{Type: parse.LRError}
}

func (t *cachedTable) Goto(state, symbol string) (string, error) {
	if row, ok := t.gotos[state]; ok {
		if to, ok := row[symbol]; ok {
			return to, nil
		}
	}
	return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
}

func (t *cachedTable) GetDFA() automaton.DFA[string] {
	return t.dfa
}

func (t *cachedTable) String() string {
	return "cachedTable(" + t.initial + ")"
}
