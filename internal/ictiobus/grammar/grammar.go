// Package grammar models a context-free grammar over named terminal token
// classes and non-terminal symbols, plus the item-set algebra (LR0Item,
// LR1Item, CLOSURE) the automaton and parse packages drive.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/util"
)

// Epsilon is the grammar's literal empty-RHS marker. A production whose
// right-hand side is exactly this slice derives the empty string.
var Epsilon = []string{"$"}

// endOfInput is the lookahead terminal used for the augmented start rule's
// accepting item and for CLOSURE's end-of-input placeholder.
const endOfInput = "#"

// Production is the right-hand side of a single grammar alternative.
type Production []string

func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		return false
	}
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if len(p) == 0 {
		return strings.Join(Epsilon, " ")
	}
	return strings.Join(p, " ")
}

// Rule is the full set of alternatives for one non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) String() string {
	var alts []string
	for _, p := range r.Productions {
		alts = append(alts, p.String())
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is a context-free grammar: a start symbol, a set of named terminal
// token classes, and a set of non-terminal production rules.
type Grammar struct {
	rulesOrder  []string
	rules       map[string]Rule
	termsOrder  []string
	terminals   map[string]types.TokenClass
	start       string
}

// AddTerm registers a terminal token class under the given ID. The first
// terminal added does not set the start symbol; only AddRule does that.
func (g *Grammar) AddTerm(id string, class types.TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}
	if _, ok := g.terminals[id]; !ok {
		g.termsOrder = append(g.termsOrder, id)
	}
	g.terminals[id] = class
}

// AddRule adds (or extends, if the non-terminal already has a rule)
// productions for nonTerminal. The first non-terminal ever added becomes the
// grammar's start symbol.
func (g *Grammar) AddRule(nonTerminal string, prods []Production) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	existing, ok := g.rules[nonTerminal]
	if !ok {
		g.rulesOrder = append(g.rulesOrder, nonTerminal)
		existing = Rule{NonTerminal: nonTerminal}
		if g.start == "" {
			g.start = nonTerminal
		}
	}
	existing.Productions = append(existing.Productions, prods...)
	g.rules[nonTerminal] = existing
}

// setRule overwrites the stored rule for r.NonTerminal in place, preserving
// its existing position in rulesOrder if already registered.
func (g *Grammar) setRule(r Rule) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	if _, ok := g.rules[r.NonTerminal]; !ok {
		g.rulesOrder = append(g.rulesOrder, r.NonTerminal)
		if g.start == "" {
			g.start = r.NonTerminal
		}
	}
	g.rules[r.NonTerminal] = r
}

// SetStart explicitly overrides the inferred start symbol.
func (g *Grammar) SetStart(nonTerminal string) {
	g.start = nonTerminal
}

// StartSymbol is the grammar's designated start non-terminal.
func (g Grammar) StartSymbol() string {
	return g.start
}

// IsTerminal reports whether sym names a registered terminal class.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// Term returns the token class registered under id.
func (g Grammar) Term(id string) types.TokenClass {
	return g.terminals[id]
}

// Terminals returns all terminal IDs, in registration order.
func (g Grammar) Terminals() []string {
	out := make([]string, len(g.termsOrder))
	copy(out, g.termsOrder)
	return out
}

// NonTerminals returns all non-terminal names, in registration order.
func (g Grammar) NonTerminals() []string {
	out := make([]string, len(g.rulesOrder))
	copy(out, g.rulesOrder)
	return out
}

// Rule returns the full alternative set for the named non-terminal.
func (g Grammar) Rule(nonTerminal string) Rule {
	return g.rules[nonTerminal]
}

// HasRule reports whether nonTerminal has at least one production registered.
func (g Grammar) HasRule(nonTerminal string) bool {
	_, ok := g.rules[nonTerminal]
	return ok
}

// Validate checks that every symbol referenced on the right-hand side of a
// production is either a known terminal or a known non-terminal, and that a
// start symbol is set.
func (g Grammar) Validate() error {
	if g.start == "" {
		return fmt.Errorf("grammar has no start symbol")
	}
	if !g.HasRule(g.start) {
		return fmt.Errorf("start symbol %q has no production rule", g.start)
	}
	for _, nt := range g.rulesOrder {
		rule := g.rules[nt]
		for _, prod := range rule.Productions {
			for _, sym := range prod {
				if sym == "" || sym == Epsilon[0] {
					continue
				}
				if g.IsTerminal(sym) || g.HasRule(sym) {
					continue
				}
				return fmt.Errorf("rule %q references undefined symbol %q", nt, sym)
			}
		}
	}
	return nil
}

// Augmented returns a copy of g with a synthetic start rule S' -> S added,
// where S is g's current start symbol. Calling Augmented on an
// already-augmented grammar adds a further start rule (S'' -> S', and so on).
func (g Grammar) Augmented() Grammar {
	newStart := g.start + "'"
	for g.HasRule(newStart) {
		newStart += "'"
	}

	gPrime := g.Copy()
	gPrime.AddRule(newStart, []Production{{g.start}})
	gPrime.SetStart(newStart)
	return gPrime
}

// Copy returns a deep-enough copy of g for safe independent mutation of its
// rule/terminal maps.
func (g Grammar) Copy() Grammar {
	cp := Grammar{
		start: g.start,
	}
	cp.rulesOrder = append(cp.rulesOrder, g.rulesOrder...)
	cp.rules = make(map[string]Rule, len(g.rules))
	for k, v := range g.rules {
		prods := make([]Production, len(v.Productions))
		copy(prods, v.Productions)
		cp.rules[k] = Rule{NonTerminal: v.NonTerminal, Productions: prods}
	}
	cp.termsOrder = append(cp.termsOrder, g.termsOrder...)
	cp.terminals = make(map[string]types.TokenClass, len(g.terminals))
	for k, v := range g.terminals {
		cp.terminals[k] = v
	}
	return cp
}

// LR0Items enumerates every LR(0) item (NonTerminal -> alpha . beta) derivable
// from every production of every rule in the grammar, dot at every position.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.rulesOrder {
		rule := g.rules[nt]
		for _, prod := range rule.Productions {
			rhs := []string(prod)
			if len(rhs) == 0 || (len(rhs) == 1 && rhs[0] == Epsilon[0]) {
				items = append(items, LR0Item{NonTerminal: nt})
				continue
			}
			for dot := 0; dot <= len(rhs); dot++ {
				left := make([]string, dot)
				copy(left, rhs[:dot])
				right := make([]string, len(rhs)-dot)
				copy(right, rhs[dot:])
				items = append(items, LR0Item{NonTerminal: nt, Left: left, Right: right})
			}
		}
	}
	return items
}

// FIRST computes FIRST(symbols): the set of terminals (plus Epsilon's marker
// if the whole sequence can derive the empty string) that can begin some
// derivation of the symbol sequence.
func (g Grammar) FIRST(symbols ...string) util.StringSet {
	return g.first(symbols, map[string]bool{})
}

func (g Grammar) first(symbols []string, inProgress map[string]bool) util.StringSet {
	result := util.NewStringSet()
	if len(symbols) == 0 {
		result.Add(Epsilon[0])
		return result
	}

	head := symbols[0]
	rest := symbols[1:]

	if head == Epsilon[0] {
		result.AddAll(g.first(rest, inProgress))
		return result
	}

	if head == endOfInput || g.IsTerminal(head) {
		result.Add(head)
		return result
	}

	if inProgress[head] {
		// left recursion through FIRST; contributes nothing new here.
		return result
	}
	inProgress[head] = true
	defer delete(inProgress, head)

	rule, ok := g.rules[head]
	if !ok {
		return result
	}

	nullable := false
	for _, prod := range rule.Productions {
		prodFirst := g.first([]string(prod), inProgress)
		for _, t := range prodFirst.Elements() {
			if t == Epsilon[0] {
				nullable = true
				continue
			}
			result.Add(t)
		}
	}

	if nullable {
		result.AddAll(g.first(rest, inProgress))
	}

	return result
}

// Nullable reports whether the symbol sequence can derive the empty string.
func (g Grammar) Nullable(symbols ...string) bool {
	return g.FIRST(symbols...).Has(Epsilon[0])
}

// LR1_CLOSURE computes the canonical-LR(1) closure of the given item set:
// repeatedly, for every item A -> alpha . B beta, la in the set with B a
// non-terminal, add B -> . gamma, b for every production of B and every
// terminal b in FIRST(beta la).
func (g Grammar) LR1_CLOSURE(items util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet[LR1Item]()
	for _, k := range items.Elements() {
		closure.Set(k, items.Get(k))
	}

	changed := true
	for changed {
		changed = false
		for _, k := range closure.Elements() {
			item := closure.Get(k)
			if len(item.Right) == 0 {
				continue
			}
			B := item.Right[0]
			if !g.HasRule(B) {
				continue
			}
			beta := item.Right[1:]

			firstArgs := make([]string, 0, len(beta)+1)
			firstArgs = append(firstArgs, beta...)
			firstArgs = append(firstArgs, item.Lookahead)
			lookaheads := g.FIRST(firstArgs...)

			rule := g.rules[B]
			for _, prod := range rule.Productions {
				rhs := []string(prod)
				if len(rhs) == 1 && rhs[0] == Epsilon[0] {
					rhs = nil
				}
				right := make([]string, len(rhs))
				copy(right, rhs)

				for _, b := range lookaheads.Elements() {
					if b == Epsilon[0] {
						b = endOfInput
					}
					newItem := LR1Item{
						LR0Item: LR0Item{
							NonTerminal: B,
							Right:       right,
						},
						Lookahead: b,
					}
					key := newItem.String()
					if !closure.Has(key) {
						closure.Set(key, newItem)
						changed = true
					}
				}
			}
		}
	}

	return closure
}

// String renders the grammar's rules in deterministic, sorted-by-non-terminal
// order for diagnostic output.
func (g Grammar) String() string {
	names := append([]string{}, g.rulesOrder...)
	sort.Strings(names)
	var sb strings.Builder
	for i, nt := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(g.rules[nt].String())
	}
	return sb.String()
}
