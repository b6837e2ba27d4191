// Package render formats the compiler's pipeline artifacts into the exact
// text contracts spec §6 names: the token dump, the generative and syntax
// trees, the symbol table, and the annotated semantic tree.
package render

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/lexer"
)

// treeIndent is the fixed per-depth indentation for the generative and
// syntax tree dumps.
const treeIndent = "    "

// Tree renders tree preorder: one line per node, indented by depth, each
// line reading "<depth>:<symbol>" for a non-terminal or
// "<depth>:<class> , <lexeme>" for a terminal.
func Tree(tree types.ParseTree) string {
	var sb strings.Builder
	writeTreeLine(&sb, tree, 0)
	return sb.String()
}

// Line formats a single preorder tree line the same way Tree/SyntaxTree do
// ("<depth>:<symbol>" or "<depth>:<class> , <lexeme>", indented by depth),
// without a trailing newline. Other packages that render a tree with extra
// per-node annotations (such as the semantic checker's attribute suffix)
// build on this instead of diverging into their own line format.
func Line(node types.ParseTree, depth int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(treeIndent, depth))
	if node.Terminal {
		fmt.Fprintf(&sb, "%d:%s , %s", depth, node.Value, node.Source.Lexeme())
	} else {
		fmt.Fprintf(&sb, "%d:%s", depth, node.Value)
	}
	return sb.String()
}

func writeTreeLine(sb *strings.Builder, node types.ParseTree, depth int) {
	sb.WriteString(Line(node, depth))
	sb.WriteByte('\n')
	for _, c := range node.Children {
		if c != nil {
			writeTreeLine(sb, *c, depth+1)
		}
	}
}

// SyntaxTree renders tree's wrapper-elided simplification (types.ParseTree.
// Syntax) using the same line format as Tree.
func SyntaxTree(tree types.ParseTree) string {
	return Tree(tree.Syntax())
}

// TokenDump renders the two-section leksicke_jedinke.txt contract: a table
// of symbol-table entries ("tablica znakova"), then the uniform token array
// ("niz uniformnih znakova").
func TokenDump(tokens []lexer.Token, symtab *lexer.SymbolTable) string {
	var sb strings.Builder

	sb.WriteString("tablica znakova\n")
	symData := [][]string{{"indeks", "tip", "tekst"}}
	for i := 0; i < symtab.Len(); i++ {
		class, text := symtab.At(i)
		symData = append(symData, []string{fmt.Sprintf("%d", i), class, text})
	}
	sb.WriteString(rosed.Edit("").
		InsertTableOpts(0, symData, 80, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String())
	sb.WriteString("\n\n")

	sb.WriteString("niz uniformnih znakova\n")
	tokData := [][]string{{"tip", "redak", "indeks"}}
	for _, tok := range tokens {
		tokData = append(tokData, []string{
			tok.Class().ID(),
			fmt.Sprintf("%d", tok.Line()),
			fmt.Sprintf("%d", tok.SymbolIndex),
		})
	}
	sb.WriteString(rosed.Edit("").
		InsertTableOpts(0, tokData, 80, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String())
	sb.WriteString("\n")

	return sb.String()
}
