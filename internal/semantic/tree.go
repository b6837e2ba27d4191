package semantic

import "github.com/riscc32/ppjc/internal/ictiobus/types"

// Attributes is the per-node semantic attribute record. Only the fields a
// given rule actually computes are populated; the rest keep their zero
// value. Keeping this as a side-table (rather than fields on ParseTree
// itself) means the parse tree stays immutable and semantic analysis can be
// re-run over the same tree without resetting node state by hand.
type Attributes struct {
	Type Type

	IsLValue bool

	Identifier string

	ElementCount    int
	IsStringLiteral bool
	StringLength    int

	InheritedType Type

	ContainsReturn bool

	ParamTypes []Type
	ParamNames []string
}

// Tree adapts a parse tree with a side-table of attributes keyed by node
// identity, so that semantic rules never need to mutate parse-tree
// topology to record what they learned about a node.
type Tree struct {
	Root  *types.ParseTree
	attrs map[*types.ParseTree]*Attributes
}

// NewTree wraps root for semantic analysis.
func NewTree(root *types.ParseTree) *Tree {
	return &Tree{Root: root, attrs: map[*types.ParseTree]*Attributes{}}
}

// Attrs returns the (possibly freshly-created) attribute record for node.
func (t *Tree) Attrs(node *types.ParseTree) *Attributes {
	a, ok := t.attrs[node]
	if !ok {
		a = &Attributes{}
		t.attrs[node] = a
	}
	return a
}

// Generative renders the annotated tree: the underlying generative
// rendering, with each node's computed attributes appended in brackets.
func (t *Tree) Generative() string {
	var sb []byte
	t.generative(t.Root, 0, &sb)
	return string(sb)
}

func (t *Tree) generative(node *types.ParseTree, depth int, sb *[]byte) {
	line := renderGenerativeLine(node, depth)
	if a, ok := t.attrs[node]; ok {
		line += " " + renderAttrs(a)
	}
	*sb = append(*sb, line...)
	*sb = append(*sb, '\n')
	for _, c := range node.Children {
		if c != nil {
			t.generative(c, depth+1, sb)
		}
	}
}
