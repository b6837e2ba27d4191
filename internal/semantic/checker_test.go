package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riscc32/ppjc/internal/ictiobus/lex"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
)

var (
	clsIdn  = lex.NewTokenClass(TIdn, "identifier")
	clsBroj = lex.NewTokenClass(TBroj, "number")
	clsInt  = lex.NewTokenClass(TKrInt, "int")
	clsVoid = lex.NewTokenClass(TKrVoid, "void")
)

func term(class types.TokenClass, lexeme string) *types.ParseTree {
	tok := lex.NewToken(class, lexeme, 1, 1, lexeme)
	return &types.ParseTree{Terminal: true, Value: class.ID(), Source: tok}
}

func nt(value string, children ...*types.ParseTree) *types.ParseTree {
	return &types.ParseTree{Value: value, Children: children}
}

// intTypeName builds a <ime_tipa> node for a plain (non-const) `int`.
func intTypeName() *types.ParseTree {
	return nt(NTTypeName, nt(NTTypeSpec, term(clsInt, "int")))
}

func voidTypeName() *types.ParseTree {
	return nt(NTTypeName, nt(NTTypeSpec, term(clsVoid, "void")))
}

// mainFuncDef builds `int main ( ) { return 0 ; }`.
func mainFuncDef() *types.ParseTree {
	ret := nt(NTJumpStmt, term(lex.NewTokenClass(TKrReturn, "return"), "return"),
		nt(NTExprList, nt(NTPrimaryExpr, term(clsBroj, "0"))),
		term(lex.NewTokenClass(TTockaZarez, ";"), ";"))
	body := nt(NTCompoundStmt,
		term(lex.NewTokenClass(TLVitZagrada, "{"), "{"),
		nt(NTStmtList, nt(NTStmt, ret)),
		term(lex.NewTokenClass(TDVitZagrada, "}"), "}"))
	return nt(NTFuncDef,
		intTypeName(),
		term(clsIdn, "main"),
		term(lex.NewTokenClass(TLZagrada, "("), "("),
		term(lex.NewTokenClass(TDZagrada, ")"), ")"),
		body,
	)
}

func TestCheckerValidProgram(t *testing.T) {
	root := nt(NTProgram, nt(NTExternalDecl, mainFuncDef()))
	c := NewChecker(root)
	err := c.Check()
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics())
}

func TestCheckerUndeclaredIdentifier(t *testing.T) {
	primary := nt(NTPrimaryExpr, term(clsIdn, "nope"))
	body := nt(NTCompoundStmt,
		term(lex.NewTokenClass(TLVitZagrada, "{"), "{"),
		nt(NTStmtList, nt(NTStmt, nt(NTExprStmt, nt(NTExprList, primary), term(lex.NewTokenClass(TTockaZarez, ";"), ";")))),
		term(lex.NewTokenClass(TDVitZagrada, "}"), "}"),
	)
	fn := nt(NTFuncDef,
		voidTypeName(),
		term(clsIdn, "f"),
		term(lex.NewTokenClass(TLZagrada, "("), "("),
		term(lex.NewTokenClass(TDZagrada, ")"), ")"),
		body,
	)
	root := nt(NTProgram, nt(NTExternalDecl, fn), nt(NTExternalDecl, mainFuncDef()))
	c := NewChecker(root)
	err := c.Check()
	require.Error(t, err)
	require.NotEmpty(t, c.Diagnostics())
	assert.Contains(t, c.Diagnostics()[0].Human(), "undeclared identifier")
}

func TestCheckerBreakOutsideLoop(t *testing.T) {
	brk := nt(NTJumpStmt, term(lex.NewTokenClass(TKrBreak, "break"), "break"), term(lex.NewTokenClass(TTockaZarez, ";"), ";"))
	body := nt(NTCompoundStmt,
		term(lex.NewTokenClass(TLVitZagrada, "{"), "{"),
		nt(NTStmtList, nt(NTStmt, brk)),
		term(lex.NewTokenClass(TDVitZagrada, "}"), "}"),
	)
	fn := nt(NTFuncDef,
		voidTypeName(),
		term(clsIdn, "f"),
		term(lex.NewTokenClass(TLZagrada, "("), "("),
		term(lex.NewTokenClass(TDZagrada, ")"), ")"),
		body,
	)
	root := nt(NTProgram, nt(NTExternalDecl, fn), nt(NTExternalDecl, mainFuncDef()))
	c := NewChecker(root)
	err := c.Check()
	require.Error(t, err)
	assert.Contains(t, c.Diagnostics()[0].Human(), "outside of a loop")
}

func TestCheckerMissingMain(t *testing.T) {
	root := nt(NTProgram)
	c := NewChecker(root)
	err := c.Check()
	require.Error(t, err)
	assert.Contains(t, c.Diagnostics()[0].Human(), "no main function")
}
