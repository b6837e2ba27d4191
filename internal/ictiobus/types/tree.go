package types

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

type ParseTree struct {
	// Terminal is whether thie node is for a terminal symbol.
	Terminal bool

	// Value is the symbol at this node.
	Value string

	// Source is only available when Terminal is true.
	Source Token

	// Children is all children of the parse tree.
	Children []*ParseTree
}

// String returns a prettified representation of the entire parse tree suitable
// for use in line-by-line comparisons of tree structure. Two parse trees are
// considered semantcally identical if they produce identical String() output.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

// Copy returns a duplicate, deeply-copied parse tree.
func (pt ParseTree) Copy() ParseTree {
	newPt := ParseTree{
		Terminal: pt.Terminal,
		Value:    pt.Value,
		Source:   pt.Source,
		Children: make([]*ParseTree, len(pt.Children)),
	}

	for i := range pt.Children {
		if pt.Children[i] != nil {
			newChild := pt.Children[i].Copy()
			newPt.Children[i] = &newChild
		}
	}

	return newPt
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Value))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Generative renders every node of the tree, depth-indented and numbered in
// preorder, with no simplification applied.
func (pt ParseTree) Generative() string {
	var sb strings.Builder
	n := 0
	pt.generative(&sb, 0, &n)
	return sb.String()
}

func (pt ParseTree) generative(sb *strings.Builder, depth int, n *int) {
	sb.WriteString(fmt.Sprintf("%d. %s", *n, strings.Repeat("  ", depth)))
	*n++
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("%s %q\n", pt.Value, pt.Source.Lexeme()))
	} else {
		sb.WriteString(fmt.Sprintf("%s\n", pt.Value))
	}
	for _, c := range pt.Children {
		if c != nil {
			c.generative(sb, depth+1, n)
		}
	}
}

// listWrapperNames holds non-terminals that denote repetition lists; their
// same-named children are inlined directly into the parent's child list
// rather than nested one level per repeated element.
var listWrapperNames = map[string]bool{
	"lista_naredbi": true,
	"lista_izraza":  true,
	"niz_brojeva":   true,
	"lista_parametara": true,
}

// Syntax returns a simplification of the tree suitable for human review: unit
// productions (a non-terminal with exactly one non-terminal child) are
// elided in favor of the child, and list-wrapper non-terminals have their
// recursive same-named children flattened into a single sibling list. The
// result is always a subtree-preserving contraction of the original tree.
func (pt ParseTree) Syntax() ParseTree {
	simplified := pt.simplify()
	return *simplified
}

func (pt ParseTree) simplify() *ParseTree {
	if pt.Terminal {
		leaf := pt
		return &leaf
	}

	children := pt.flattenedChildren()

	if len(children) == 1 && !children[0].Terminal {
		return children[0].simplify()
	}

	out := &ParseTree{
		Terminal: false,
		Value:    pt.Value,
	}
	for _, c := range children {
		out.Children = append(out.Children, c.simplify())
	}
	return out
}

// flattenedChildren expands list-wrapper children that share this node's
// non-terminal name into this node's own child list.
func (pt ParseTree) flattenedChildren() []*ParseTree {
	var out []*ParseTree
	for _, c := range pt.Children {
		if c == nil {
			continue
		}
		if listWrapperNames[pt.Value] && !c.Terminal && c.Value == pt.Value {
			out = append(out, c.flattenedChildren()...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// Equal returns whether the parseTree is equal to the given object. If the
// given object is not a parseTree, returns false, else returns whether the two
// parse trees have the exact same structure.
func (pt ParseTree) Equal(o any) bool {
	other, ok := o.(ParseTree)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*ParseTree)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Terminal != other.Terminal {
		return false
	} else if pt.Value != other.Value {
		return false
	} else {
		// check every sub tree
		if len(pt.Children) != len(other.Children) {
			return false
		}

		for i := range pt.Children {
			if !pt.Children[i].Equal(other.Children[i]) {
				return false
			}
		}
	}
	return true
}
