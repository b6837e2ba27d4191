// Package regex implements the subset of regular expressions accepted by the
// lexer specification format: literal characters, the escapes \n, \t, \_ and
// \c, the empty-string atom $, grouping, alternation (|), and Kleene star
// (*). Compile builds an ε-NFA via Thompson's construction; callers are
// expected to feed the resulting fragment into a larger NFA (one per lexer
// state) before running subset construction.
package regex

import (
	"fmt"

	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
)

// IDGen produces unique state names so that multiple compiled fragments can
// be merged into a single NFA without name collisions.
type IDGen struct {
	next int
}

func (g *IDGen) Next() string {
	id := fmt.Sprintf("rx%d", g.next)
	g.next++
	return id
}

// Fragment is a compiled piece of NFA with a single start and single accept
// state, ready to be spliced into a larger automaton.
type Fragment struct {
	Start  string
	Accept string
}

// Compile parses expr and adds its states/transitions into nfa, returning the
// fragment's start and accept state. ids supplies fresh, NFA-unique state
// names. The accept state returned is never marked accepting on nfa itself;
// callers decide which composed fragment's accept state(s) to mark.
func Compile(nfa *automaton.NFA[string], ids *IDGen, expr string) (Fragment, error) {
	p := &parser{src: []rune(expr)}
	ast, err := p.parseAlt()
	if err != nil {
		return Fragment{}, err
	}
	if p.pos != len(p.src) {
		return Fragment{}, fmt.Errorf("unexpected %q at position %d", p.src[p.pos], p.pos)
	}
	return build(nfa, ids, ast)
}

// ---- AST ----

type nodeKind int

const (
	nodeLit nodeKind = iota
	nodeEpsilon
	nodeConcat
	nodeAlt
	nodeStar
)

type node struct {
	kind     nodeKind
	lit      rune
	children []*node
}

// ---- recursive-descent parser ----
//
// alt    := concat ('|' concat)*
// concat := star+
// star   := atom '*'?
// atom   := '(' alt ')' | '$' | escape | literal

type parser struct {
	src []rune
	pos int
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseAlt() (*node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	branches := []*node{first}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return &node{kind: nodeAlt, children: branches}, nil
}

func (p *parser) parseConcat() (*node, error) {
	var parts []*node
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		n, err := p.parseStar()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return &node{kind: nodeEpsilon}, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &node{kind: nodeConcat, children: parts}, nil
}

func (p *parser) parseStar() (*node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok || c != '*' {
			break
		}
		p.pos++
		atom = &node{kind: nodeStar, children: []*node{atom}}
	}
	return atom, nil
}

func (p *parser) parseAtom() (*node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of pattern")
	}

	switch c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		c, ok = p.peek()
		if !ok || c != ')' {
			return nil, fmt.Errorf("unmatched '(' in pattern")
		}
		p.pos++
		return inner, nil
	case ')':
		return nil, fmt.Errorf("unmatched ')' in pattern")
	case '$':
		p.pos++
		return &node{kind: nodeEpsilon}, nil
	case '\\':
		p.pos++
		esc, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated escape at end of pattern")
		}
		p.pos++
		return &node{kind: nodeLit, lit: mapEscape(esc)}, nil
	case '*':
		return nil, fmt.Errorf("dangling '*' with nothing to repeat")
	default:
		p.pos++
		return &node{kind: nodeLit, lit: c}, nil
	}
}

func mapEscape(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '_':
		return ' '
	default:
		return c
	}
}

// ---- Thompson construction ----

func build(nfa *automaton.NFA[string], ids *IDGen, n *node) (Fragment, error) {
	switch n.kind {
	case nodeLit:
		start, accept := ids.Next(), ids.Next()
		nfa.AddState(start, false)
		nfa.AddState(accept, false)
		nfa.AddTransition(start, string(n.lit), accept)
		return Fragment{Start: start, Accept: accept}, nil
	case nodeEpsilon:
		start, accept := ids.Next(), ids.Next()
		nfa.AddState(start, false)
		nfa.AddState(accept, false)
		nfa.AddTransition(start, "", accept)
		return Fragment{Start: start, Accept: accept}, nil
	case nodeConcat:
		var prev Fragment
		for i, child := range n.children {
			frag, err := build(nfa, ids, child)
			if err != nil {
				return Fragment{}, err
			}
			if i == 0 {
				prev = frag
				continue
			}
			nfa.AddTransition(prev.Accept, "", frag.Start)
			prev.Accept = frag.Accept
		}
		return prev, nil
	case nodeAlt:
		start, accept := ids.Next(), ids.Next()
		nfa.AddState(start, false)
		nfa.AddState(accept, false)
		for _, child := range n.children {
			frag, err := build(nfa, ids, child)
			if err != nil {
				return Fragment{}, err
			}
			nfa.AddTransition(start, "", frag.Start)
			nfa.AddTransition(frag.Accept, "", accept)
		}
		return Fragment{Start: start, Accept: accept}, nil
	case nodeStar:
		inner, err := build(nfa, ids, n.children[0])
		if err != nil {
			return Fragment{}, err
		}
		start, accept := ids.Next(), ids.Next()
		nfa.AddState(start, false)
		nfa.AddState(accept, false)
		nfa.AddTransition(start, "", inner.Start)
		nfa.AddTransition(start, "", accept)
		nfa.AddTransition(inner.Accept, "", inner.Start)
		nfa.AddTransition(inner.Accept, "", accept)
		return Fragment{Start: start, Accept: accept}, nil
	default:
		return Fragment{}, fmt.Errorf("unhandled node kind %d", n.kind)
	}
}
