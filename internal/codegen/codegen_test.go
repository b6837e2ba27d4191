package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riscc32/ppjc/internal/ictiobus/lex"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/semantic"
)

func term(id, lexeme string) *types.ParseTree {
	cls := lex.NewTokenClass(id, id)
	return &types.ParseTree{Terminal: true, Value: id, Source: lex.NewToken(cls, lexeme, 1, 1, lexeme)}
}

func nt(value string, children ...*types.ParseTree) *types.ParseTree {
	return &types.ParseTree{Value: value, Children: children}
}

// buildMinimalMain builds the tree for `int main(void){ return 0; }` and
// runs it through the checker so the returned tree carries real attributes.
func buildMinimalMain(t *testing.T) *types.ParseTree {
	ret := nt(semantic.NTJumpStmt,
		term(semantic.TKrReturn, "return"),
		nt(semantic.NTExprList, nt(semantic.NTPrimaryExpr, term(semantic.TBroj, "0"))),
		term(semantic.TTockaZarez, ";"))
	body := nt(semantic.NTCompoundStmt,
		term(semantic.TLVitZagrada, "{"),
		nt(semantic.NTStmtList, nt(semantic.NTStmt, ret)),
		term(semantic.TDVitZagrada, "}"))
	fn := nt(semantic.NTFuncDef,
		nt(semantic.NTTypeName, nt(semantic.NTTypeSpec, term(semantic.TKrInt, "int"))),
		term(semantic.TIdn, "main"),
		term(semantic.TLZagrada, "("),
		term(semantic.TDZagrada, ")"),
		body,
	)
	root := nt(semantic.NTProgram, nt(semantic.NTExternalDecl, fn))

	c := semantic.NewChecker(root)
	if err := c.Check(); err != nil {
		t.Fatalf("unexpected semantic error: %v", err)
	}
	return root
}

func TestGenerateMinimalMain(t *testing.T) {
	root := buildMinimalMain(t)
	g := NewGenerator(semantic.NewTree(root), semantic.NewSymbolTable())
	out := g.Generate()

	assert.Contains(t, out, "F_main:")
	assert.Contains(t, out, "MOVI R_top, 0")
	assert.Contains(t, out, "MOVE R_ret, R_top")
	assert.Contains(t, out, "RET")
}

func TestGenerateDeterministic(t *testing.T) {
	root1 := buildMinimalMain(t)
	root2 := buildMinimalMain(t)

	out1 := NewGenerator(semantic.NewTree(root1), semantic.NewSymbolTable()).Generate()
	out2 := NewGenerator(semantic.NewTree(root2), semantic.NewSymbolTable()).Generate()

	assert.Equal(t, out1, out2)
}

func TestGenerateWhileLoopLabels(t *testing.T) {
	cond := nt(semantic.NTExprList, nt(semantic.NTPrimaryExpr, term(semantic.TBroj, "1")))
	brk := nt(semantic.NTJumpStmt, term(semantic.TKrBreak, "break"), term(semantic.TTockaZarez, ";"))
	loopBody := nt(semantic.NTStmt, nt(semantic.NTCompoundStmt,
		term(semantic.TLVitZagrada, "{"),
		nt(semantic.NTStmtList, nt(semantic.NTStmt, brk)),
		term(semantic.TDVitZagrada, "}")))
	loop := nt(semantic.NTLoopStmt,
		term(semantic.TKrWhile, "while"),
		term(semantic.TLZagrada, "("),
		cond,
		term(semantic.TDZagrada, ")"),
		loopBody,
	)
	ret := nt(semantic.NTJumpStmt,
		term(semantic.TKrReturn, "return"),
		nt(semantic.NTExprList, nt(semantic.NTPrimaryExpr, term(semantic.TBroj, "0"))),
		term(semantic.TTockaZarez, ";"))
	body := nt(semantic.NTCompoundStmt,
		term(semantic.TLVitZagrada, "{"),
		nt(semantic.NTStmtList, nt(semantic.NTStmt, loop), nt(semantic.NTStmt, ret)),
		term(semantic.TDVitZagrada, "}"))
	fn := nt(semantic.NTFuncDef,
		nt(semantic.NTTypeName, nt(semantic.NTTypeSpec, term(semantic.TKrInt, "int"))),
		term(semantic.TIdn, "main"),
		term(semantic.TLZagrada, "("),
		term(semantic.TDZagrada, ")"),
		body,
	)
	root := nt(semantic.NTProgram, nt(semantic.NTExternalDecl, fn))

	c := semantic.NewChecker(root)
	if err := c.Check(); err != nil {
		t.Fatalf("unexpected semantic error: %v", err)
	}

	g := NewGenerator(semantic.NewTree(root), semantic.NewSymbolTable())
	out := g.Generate()

	assert.True(t, strings.Contains(out, "L1_top:"))
	assert.Contains(t, out, "JMP L2_break") // break jumps to the loop's break label
}
