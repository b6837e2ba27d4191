package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
)

// loopFrame is one entry of the checker's enclosing-loop-context stack,
// consulted by break/continue. Carried alongside codegen's matching
// (Lbreak, Lcontinue) label-pair stack, but the checker only needs to know
// whether one is open.
type loopFrame struct{}

// Checker performs a single pass of syntax-directed semantic analysis over
// a syntax tree, dispatching by non-terminal name into a small rule table
// built once in NewChecker and looked up by the node's name on each visit.
type Checker struct {
	tree   *Tree
	syms   *SymbolTable
	diags  []*diag.Diagnostic
	loops  []loopFrame
	rules  map[string]func(*Checker, *types.ParseTree)
	failed bool

	// currentFunc is the return type of the function body currently being
	// checked, used by the return-statement rule.
	currentFunc *Type
}

// NewChecker builds a checker over root, ready to run Check.
func NewChecker(root *types.ParseTree) *Checker {
	c := &Checker{
		tree: NewTree(root),
		syms: NewSymbolTable(),
	}
	c.rules = map[string]func(*Checker, *types.ParseTree){
		NTProgram:      (*Checker).checkProgram,
		NTExternalDecl: (*Checker).visitChildren,
		NTFuncDef:      (*Checker).checkFuncDef,
		NTDecl:         (*Checker).checkDecl,
		NTCompoundStmt: (*Checker).checkCompoundStmt,
		NTStmtList:     (*Checker).visitChildren,
		NTStmt:         (*Checker).visitChildren,
		NTExprStmt:     (*Checker).checkExprStmt,
		NTExprList:     (*Checker).checkExprList,
		NTBranchStmt:   (*Checker).checkBranchStmt,
		NTLoopStmt:     (*Checker).checkLoopStmt,
		NTJumpStmt:     (*Checker).checkJumpStmt,
		NTAssignExpr:   (*Checker).checkAssignExpr,
		NTOrExpr:       (*Checker).checkBinaryLogical,
		NTAndExpr:      (*Checker).checkBinaryLogical,
		NTEqExpr:       (*Checker).checkBinaryArith,
		NTRelExpr:      (*Checker).checkBinaryArith,
		NTAddExpr:      (*Checker).checkBinaryArith,
		NTMulExpr:      (*Checker).checkBinaryArith,
		NTCastExpr:     (*Checker).checkCastExpr,
		NTUnaryExpr:    (*Checker).checkUnaryExpr,
		NTPostfixExpr:  (*Checker).checkPostfixExpr,
		NTPrimaryExpr:  (*Checker).checkPrimaryExpr,
	}
	return c
}

// Diagnostics returns every diagnostic raised during Check.
func (c *Checker) Diagnostics() []*diag.Diagnostic {
	return c.diags
}

// Symbols returns the global-and-nested symbol table built during Check.
func (c *Checker) Symbols() *SymbolTable {
	return c.syms
}

// Tree returns the attribute-annotated tree built during Check.
func (c *Checker) Tree() *Tree {
	return c.tree
}

func (c *Checker) errorf(node *types.ParseTree, format string, a ...interface{}) {
	pos := diag.Position{}
	if tok := firstToken(node); tok != nil {
		pos = diag.Position{Line: tok.Line(), Column: tok.LinePos()}
	}
	c.diags = append(c.diags, diag.Semantic(pos, "%s: %s", canonicalProduction(node), fmt.Sprintf(format, a...)))
	c.failed = true
}

// firstToken returns the source token of the leftmost terminal descendant
// of node, used to anchor a diagnostic's position.
func firstToken(node *types.ParseTree) types.Token {
	if node.Terminal {
		return node.Source
	}
	for _, ch := range node.Children {
		if ch == nil {
			continue
		}
		if t := firstToken(ch); t != nil {
			return t
		}
	}
	return nil
}

// canonicalProduction renders node's production in the `<lhs> ::= sym...`
// canonical form spec §4.11/§6 requires semantic error messages to include,
// with terminals rendered as TERMINAL(line,lexeme).
func canonicalProduction(node *types.ParseTree) string {
	if node.Terminal {
		tok := node.Source
		line := 0
		lexeme := node.Value
		if tok != nil {
			line = tok.Line()
			lexeme = tok.Lexeme()
		}
		return fmt.Sprintf("%s(%d,%s)", node.Value, line, lexeme)
	}
	parts := make([]string, 0, len(node.Children))
	for _, ch := range node.Children {
		if ch == nil {
			continue
		}
		if ch.Terminal {
			tok := ch.Source
			line := 0
			lexeme := ch.Value
			if tok != nil {
				line = tok.Line()
				lexeme = tok.Lexeme()
			}
			parts = append(parts, fmt.Sprintf("%s(%d,%s)", ch.Value, line, lexeme))
		} else {
			parts = append(parts, ch.Value)
		}
	}
	return fmt.Sprintf("<%s> ::= %s", node.Value, strings.Join(parts, " "))
}

// Check runs the full pass: per-node rule dispatch followed by the
// program-level checks of spec §4.11 (exactly one defined main, every
// declared function defined). It stops dispatching further nodes after the
// first semantic error, matching spec §7's single-shot-fatal semantic
// error policy, but still returns whatever diagnostics were accumulated.
func (c *Checker) Check() error {
	c.visit(c.tree.Root)
	if c.failed {
		return fmt.Errorf("semantic analysis failed: %s", c.diags[len(c.diags)-1].Human())
	}
	c.checkProgramLevel()
	if c.failed {
		return fmt.Errorf("semantic analysis failed: %s", c.diags[len(c.diags)-1].Human())
	}
	return nil
}

func (c *Checker) visit(node *types.ParseTree) {
	if node == nil || c.failed {
		return
	}
	if node.Terminal {
		return
	}
	if rule, ok := c.rules[node.Value]; ok {
		rule(c, node)
		return
	}
	c.visitChildren(node)
}

func (c *Checker) visitChildren(node *types.ParseTree) {
	for _, ch := range node.Children {
		c.visit(ch)
	}
}

func (c *Checker) checkProgram(node *types.ParseTree) {
	c.visitChildren(node)
}

// checkProgramLevel enforces the two whole-program invariants after the
// tree has been fully traversed: exactly one `main : int()` defined, and
// every declared function defined somewhere.
func (c *Checker) checkProgramLevel() {
	var mainSym *Symbol
	for _, sym := range c.syms.AllSymbols() {
		sym := sym
		if sym.Kind != SymFunction {
			continue
		}
		if sym.Name == "main" {
			mainSym = &sym
		}
		if !sym.Defined {
			c.diags = append(c.diags, diag.Semantic(diag.Position{}, "function %q is declared but never defined", sym.Name))
			c.failed = true
		}
	}
	if mainSym == nil {
		c.diags = append(c.diags, diag.Semantic(diag.Position{}, "program has no main function"))
		c.failed = true
		return
	}
	wantMain := Function(Int)
	if !mainSym.Type.Equal(wantMain) || !mainSym.Defined {
		c.diags = append(c.diags, diag.Semantic(diag.Position{}, "main must be defined with signature int main(void)"))
		c.failed = true
	}
}

// --- declarations ---

func (c *Checker) resolveTypeName(node *types.ParseTree) Type {
	isConst := false
	var spec *types.ParseTree
	for _, ch := range node.Children {
		if ch.Terminal && ch.Value == TKrConst {
			isConst = true
		} else if !ch.Terminal && ch.Value == NTTypeSpec {
			spec = ch
		}
	}
	base := Void
	if spec != nil && len(spec.Children) > 0 {
		switch spec.Children[0].Value {
		case TKrInt:
			base = Int
		case TKrChar:
			base = Char
		case TKrVoid:
			base = Void
		}
	}
	if isConst {
		return ConstOf(base)
	}
	return base
}

func (c *Checker) checkFuncDef(node *types.ParseTree) {
	var typeName, paramList *types.ParseTree
	var nameTok *types.ParseTree
	var body *types.ParseTree
	for i, ch := range node.Children {
		switch {
		case !ch.Terminal && ch.Value == NTTypeName:
			typeName = ch
		case ch.Terminal && ch.Value == TIdn && nameTok == nil:
			nameTok = ch
		case !ch.Terminal && ch.Value == NTParamList:
			paramList = ch
		case !ch.Terminal && ch.Value == NTCompoundStmt:
			body = node.Children[i]
		}
	}

	baseType := Void
	if typeName != nil {
		baseType = c.resolveTypeName(typeName)
	}

	var paramTypes []Type
	var paramNames []string
	if paramList != nil {
		paramTypes, paramNames = c.collectParams(paramList)
	}

	fnType := Function(baseType, paramTypes...)
	name := ""
	if nameTok != nil {
		name = nameTok.Source.Lexeme()
	}

	if err := c.syms.Declare(Symbol{Kind: SymFunction, Name: name, Type: fnType, Defined: body != nil}); err != nil {
		c.errorf(node, "%s", err)
		return
	}

	if body == nil {
		return
	}

	prevFn := c.currentFunc
	retType := *fnType.Return
	c.currentFunc = &retType

	c.syms.OpenChild()
	for i, pt := range paramTypes {
		if i < len(paramNames) && paramNames[i] != "" {
			c.syms.Declare(Symbol{Kind: SymVariable, Name: paramNames[i], Type: pt})
		}
	}
	c.checkCompoundStmtBody(body)
	c.syms.CloseChild()

	c.currentFunc = prevFn
}

func (c *Checker) collectParams(node *types.ParseTree) ([]Type, []string) {
	var types_ []Type
	var names []string
	for _, ch := range node.Children {
		if ch.Terminal {
			continue
		}
		if ch.Value == NTParamDecl {
			t, n := c.paramDeclType(ch)
			types_ = append(types_, t)
			names = append(names, n)
		}
	}
	return types_, names
}

func (c *Checker) paramDeclType(node *types.ParseTree) (Type, string) {
	var typeName *types.ParseTree
	name := ""
	isArray := false
	for _, ch := range node.Children {
		switch {
		case !ch.Terminal && ch.Value == NTTypeName:
			typeName = ch
		case ch.Terminal && ch.Value == TIdn:
			name = ch.Source.Lexeme()
		case ch.Terminal && ch.Value == TLUglZagrada:
			isArray = true
		}
	}
	base := Void
	if typeName != nil {
		base = c.resolveTypeName(typeName)
	}
	if isArray {
		base = Array(base)
	}
	return base, name
}

func (c *Checker) checkDecl(node *types.ParseTree) {
	var typeName *types.ParseTree
	for _, ch := range node.Children {
		if !ch.Terminal && ch.Value == NTTypeName {
			typeName = ch
			break
		}
	}
	base := Void
	if typeName != nil {
		base = c.resolveTypeName(typeName)
	}
	for _, ch := range node.Children {
		if !ch.Terminal && (ch.Value == NTInitDeclList || ch.Value == NTInitDecl) {
			c.checkInitDeclarators(ch, base)
		}
	}
}

// checkInitDeclarators handles a single or list of `name[=init]` clauses
// for one shared base type, including array-of-char string-literal
// initializer length propagation (spec §4.11 "Initialisers").
func (c *Checker) checkInitDeclarators(node *types.ParseTree, base Type) {
	if node.Value == NTInitDeclList {
		for _, ch := range node.Children {
			if !ch.Terminal {
				c.checkInitDeclarators(ch, base)
			}
		}
		return
	}

	var name string
	var declaredLen int = -1
	var hasArray bool
	var initExpr *types.ParseTree
	for _, ch := range node.Children {
		switch {
		case ch.Terminal && ch.Value == TIdn:
			name = ch.Source.Lexeme()
		case ch.Terminal && ch.Value == TBroj:
			hasArray = true
			if n, err := strconv.Atoi(ch.Source.Lexeme()); err == nil {
				declaredLen = n
			}
		case ch.Terminal && ch.Value == TLUglZagrada:
			hasArray = true
		case !ch.Terminal:
			initExpr = ch
			c.visit(ch)
		}
	}

	declType := base
	if hasArray {
		declType = Array(base)
	}

	if initExpr != nil {
		initAttrs := c.tree.Attrs(initExpr)
		if hasArray && initAttrs.IsStringLiteral {
			needed := initAttrs.StringLength + 1
			if declaredLen >= 0 && needed > declaredLen {
				c.errorf(node, "string literal initializer for %q needs %d elements, array declares %d", name, needed, declaredLen)
				return
			}
		} else if !CanAssign(initAttrs.Type, declType) {
			c.errorf(node, "cannot initialize %q of type %s from %s", name, declType, initAttrs.Type)
			return
		}
	}

	isConst := declType.Kind == KindConst || (declType.Kind == KindArray && declType.Elem.Kind == KindConst)
	if err := c.syms.Declare(Symbol{Kind: SymVariable, Name: name, Type: declType, IsConst: isConst}); err != nil {
		c.errorf(node, "%s", err)
	}
}

// --- statements ---

func (c *Checker) checkCompoundStmt(node *types.ParseTree) {
	c.syms.OpenChild()
	c.checkCompoundStmtBody(node)
	c.syms.CloseChild()
}

func (c *Checker) checkCompoundStmtBody(node *types.ParseTree) {
	c.visitChildren(node)
}

func (c *Checker) checkExprStmt(node *types.ParseTree) {
	c.visitChildren(node)
}

func (c *Checker) checkExprList(node *types.ParseTree) {
	var last *types.ParseTree
	for _, ch := range node.Children {
		c.visit(ch)
		if !ch.Terminal {
			last = ch
		}
	}
	if last != nil {
		a := c.tree.Attrs(node)
		la := c.tree.Attrs(last)
		a.Type = la.Type
		a.IsLValue = false
		a.IsStringLiteral = la.IsStringLiteral
		a.StringLength = la.StringLength
	}
}

func (c *Checker) checkBranchStmt(node *types.ParseTree) {
	var cond *types.ParseTree
	for _, ch := range node.Children {
		if !ch.Terminal && (ch.Value == NTExprList || ch.Value == NTAssignExpr) {
			cond = ch
			break
		}
	}
	if cond != nil {
		c.visit(cond)
		if a := c.tree.Attrs(cond); !IsIntConvertible(a.Type) {
			c.errorf(node, "condition must be int-convertible, got %s", a.Type)
		}
	}
	for _, ch := range node.Children {
		if !ch.Terminal && ch.Value == NTStmt {
			c.visit(ch)
		}
	}
}

func (c *Checker) checkLoopStmt(node *types.ParseTree) {
	c.loops = append(c.loops, loopFrame{})
	defer func() { c.loops = c.loops[:len(c.loops)-1] }()

	isFor := node.Children[0].Terminal && node.Children[0].Value == TKrFor
	exprStmtSeen := 0

	for _, ch := range node.Children {
		if ch.Terminal {
			continue
		}
		switch ch.Value {
		case NTExprList, NTAssignExpr:
			c.visit(ch)
			if a := c.tree.Attrs(ch); !IsIntConvertible(a.Type) {
				c.errorf(node, "loop condition must be int-convertible, got %s", a.Type)
			}
		case NTExprStmt:
			c.visit(ch)
			exprStmtSeen++
			// for's second clause (init, cond, [step]) is its condition; the
			// expression it wraps carries the same int-convertible constraint
			// as while's bare condition.
			if isFor && exprStmtSeen == 2 {
				if inner := lastExprChild(ch); inner != nil {
					if a := c.tree.Attrs(inner); !IsIntConvertible(a.Type) {
						c.errorf(node, "loop condition must be int-convertible, got %s", a.Type)
					}
				}
			}
		default:
			c.visit(ch)
		}
	}
}

// lastExprChild returns the sole non-terminal child of an izraz_naredba
// node (its wrapped expression list), or nil for a bare `;`.
func lastExprChild(node *types.ParseTree) *types.ParseTree {
	for _, ch := range node.Children {
		if !ch.Terminal {
			return ch
		}
	}
	return nil
}

func (c *Checker) checkJumpStmt(node *types.ParseTree) {
	kw := node.Children[0]
	switch kw.Value {
	case TKrBreak, TKrContinue:
		if len(c.loops) == 0 {
			c.errorf(node, "%s used outside of a loop", strings.ToLower(kw.Value))
			return
		}
	case TKrReturn:
		var exprNode *types.ParseTree
		for _, ch := range node.Children {
			if !ch.Terminal {
				exprNode = ch
			}
		}
		ret := Void
		if c.currentFunc != nil {
			ret = *c.currentFunc
		}
		if exprNode == nil {
			if ret.Kind != KindVoid {
				c.errorf(node, "non-void function must return a value")
			}
			return
		}
		c.visit(exprNode)
		if ret.Kind == KindVoid {
			c.errorf(node, "void function must not return a value")
			return
		}
		a := c.tree.Attrs(exprNode)
		if !CanAssign(a.Type, ret) {
			c.errorf(node, "cannot return %s from function returning %s", a.Type, ret)
		}
	}
}

// --- expressions ---

func (c *Checker) checkAssignExpr(node *types.ParseTree) {
	if len(node.Children) == 1 {
		c.visit(node.Children[0])
		c.copyAttrs(node, node.Children[0])
		return
	}

	lhs, rhs := node.Children[0], node.Children[2]
	c.visit(lhs)
	c.visit(rhs)

	la := c.tree.Attrs(lhs)
	ra := c.tree.Attrs(rhs)

	a := c.tree.Attrs(node)
	if !la.IsLValue {
		c.errorf(node, "left side of assignment is not an l-value")
		a.Type = la.Type
		return
	}
	if la.Type.Kind == KindConst {
		c.errorf(node, "cannot assign to a const-qualified l-value")
		a.Type = la.Type
		return
	}
	if !CanAssign(ra.Type, la.Type) {
		c.errorf(node, "cannot assign %s to %s", ra.Type, la.Type)
	}
	a.Type = la.Type
	a.IsLValue = false
}

func (c *Checker) checkBinaryLogical(node *types.ParseTree) {
	c.checkBinaryArith(node)
}

func (c *Checker) checkBinaryArith(node *types.ParseTree) {
	if len(node.Children) == 1 {
		c.visit(node.Children[0])
		c.copyAttrs(node, node.Children[0])
		return
	}
	l, r := node.Children[0], node.Children[2]
	c.visit(l)
	c.visit(r)
	la, ra := c.tree.Attrs(l), c.tree.Attrs(r)
	result, err := ArithmeticResult(la.Type, ra.Type)
	a := c.tree.Attrs(node)
	if err != nil {
		c.errorf(node, "%s", err)
		a.Type = Int
		return
	}
	a.Type = result
	a.IsLValue = false
}

func (c *Checker) checkCastExpr(node *types.ParseTree) {
	if len(node.Children) == 1 {
		c.visit(node.Children[0])
		c.copyAttrs(node, node.Children[0])
		return
	}
	typeName := node.Children[1]
	inner := node.Children[3]
	c.visit(inner)
	target := c.resolveTypeName(typeName)
	innerAttrs := c.tree.Attrs(inner)
	a := c.tree.Attrs(node)
	if !CanCast(innerAttrs.Type, target) {
		c.errorf(node, "cannot cast %s to %s", innerAttrs.Type, target)
	}
	a.Type = target
	a.IsLValue = false
}

func (c *Checker) checkUnaryExpr(node *types.ParseTree) {
	if len(node.Children) == 1 {
		c.visit(node.Children[0])
		c.copyAttrs(node, node.Children[0])
		return
	}

	first := node.Children[0]
	operand := node.Children[len(node.Children)-1]
	c.visit(operand)
	oa := c.tree.Attrs(operand)
	a := c.tree.Attrs(node)

	if first.Terminal && (first.Value == TInc || first.Value == TDec) {
		if !oa.IsLValue || oa.Type.Kind == KindConst {
			c.errorf(node, "operand of prefix %s must be a modifiable l-value", first.Value)
		} else if !IsIntConvertible(oa.Type) {
			c.errorf(node, "operand of prefix %s must be int-convertible", first.Value)
		}
		a.Type = Int
		a.IsLValue = false
		return
	}

	// unary_operator cast_izraz
	if !IsIntConvertible(oa.Type) {
		c.errorf(node, "operand of unary operator must be int-convertible, got %s", oa.Type)
	}
	a.Type = Int
	a.IsLValue = false
}

func (c *Checker) checkPostfixExpr(node *types.ParseTree) {
	if len(node.Children) == 1 {
		c.visit(node.Children[0])
		c.copyAttrs(node, node.Children[0])
		return
	}

	base := node.Children[0]
	c.visit(base)
	ba := c.tree.Attrs(base)
	a := c.tree.Attrs(node)

	last := node.Children[len(node.Children)-1]

	switch {
	case last.Terminal && (last.Value == TInc || last.Value == TDec):
		if !ba.IsLValue || ba.Type.Kind == KindConst {
			c.errorf(node, "operand of postfix %s must be a modifiable l-value", last.Value)
		} else if !IsIntConvertible(ba.Type) {
			c.errorf(node, "operand of postfix %s must be int-convertible", last.Value)
		}
		a.Type = Int
		a.IsLValue = false

	case node.Children[1].Terminal && node.Children[1].Value == TLUglZagrada:
		// postfiks_izraz [ lista_izraza ]
		idxExpr := node.Children[2]
		c.visit(idxExpr)
		ia := c.tree.Attrs(idxExpr)
		baseType := StripConst(ba.Type)
		if baseType.Kind != KindArray {
			c.errorf(node, "indexed expression is not an array, has type %s", ba.Type)
			a.Type = Int
			return
		}
		if !IsIntConvertible(ia.Type) {
			c.errorf(node, "array index must be int-convertible, got %s", ia.Type)
		}
		a.Type = *baseType.Elem
		a.IsLValue = a.Type.Kind != KindConst

	case node.Children[1].Terminal && node.Children[1].Value == TLZagrada:
		// function call
		var args *types.ParseTree
		if len(node.Children) == 4 {
			args = node.Children[2]
			c.visit(args)
		}
		if ba.Type.Kind != KindFunction {
			c.errorf(node, "called expression is not a function, has type %s", ba.Type)
			a.Type = Int
			return
		}
		argTypes := collectExprListTypes(c, args)
		if len(argTypes) != len(ba.Type.Params) {
			c.errorf(node, "function call has %d arguments, expected %d", len(argTypes), len(ba.Type.Params))
		} else {
			for i, pt := range ba.Type.Params {
				if !CanAssign(argTypes[i], pt) {
					c.errorf(node, "argument %d of type %s is not assignable to parameter of type %s", i+1, argTypes[i], pt)
					break
				}
			}
		}
		a.Type = *ba.Type.Return
		a.IsLValue = false
	}
}

// collectExprListTypes flattens a comma-expression-list argument node into
// its individual argument types, in left-to-right order.
func collectExprListTypes(c *Checker, node *types.ParseTree) []Type {
	if node == nil {
		return nil
	}
	var out []Type
	var walk func(n *types.ParseTree)
	walk = func(n *types.ParseTree) {
		if n.Terminal {
			return
		}
		if n.Value == NTExprList {
			for _, ch := range n.Children {
				walk(ch)
			}
			return
		}
		out = append(out, c.tree.Attrs(n).Type)
	}
	walk(node)
	return out
}

func (c *Checker) checkPrimaryExpr(node *types.ParseTree) {
	a := c.tree.Attrs(node)
	leaf := node.Children[0]

	if leaf.Terminal && leaf.Value == TLZagrada {
		// L_ZAGRADA lista_izraza D_ZAGRADA
		inner := node.Children[1]
		c.visit(inner)
		*a = *c.tree.Attrs(inner)
		return
	}

	switch leaf.Value {
	case TIdn:
		name := leaf.Source.Lexeme()
		sym, ok := c.syms.Lookup(name)
		if !ok {
			c.errorf(node, "undeclared identifier %q", name)
			a.Type = Int
			return
		}
		a.Type = sym.Type
		a.Identifier = name
		st := StripConst(sym.Type)
		a.IsLValue = sym.Kind == SymVariable && st.Kind != KindArray && st.Kind != KindFunction
	case TBroj:
		val, err := parseIntLiteral(leaf.Source.Lexeme())
		if err != nil {
			c.errorf(node, "%s", err)
		}
		_ = val
		a.Type = Int
	case TZnak:
		if err := validateCharLiteral(leaf.Source.Lexeme()); err != nil {
			c.errorf(node, "%s", err)
		}
		a.Type = Char
	case TNiz:
		length := stringLiteralLength(leaf.Source.Lexeme())
		a.Type = Array(ConstOf(Char))
		a.IsStringLiteral = true
		a.StringLength = length
	}
}

func (c *Checker) copyAttrs(dst, src *types.ParseTree) {
	*c.tree.Attrs(dst) = *c.tree.Attrs(src)
}

// parseIntLiteral parses a decimal, octal (leading 0), or hex (0x) integer
// literal and verifies it fits in a 32-bit signed integer.
func parseIntLiteral(lexeme string) (int64, error) {
	base := 10
	s := lexeme
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0") && len(s) > 1:
		base = 8
		s = s[1:]
	}
	val, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", lexeme)
	}
	if val < -(1<<31) || val > (1<<31)-1 {
		return 0, fmt.Errorf("integer literal %q does not fit in a 32-bit signed integer", lexeme)
	}
	return val, nil
}

var validCharEscapes = map[byte]bool{'n': true, 't': true, '0': true, '\'': true, '"': true, '\\': true}

// validateCharLiteral checks the inner content of a 'x' character literal
// (lexeme includes the surrounding quotes): either one printable character
// that is not a quote, backslash, or newline, or one of the fixed escapes.
func validateCharLiteral(lexeme string) error {
	inner := strings.Trim(lexeme, "'")
	if len(inner) == 0 {
		return fmt.Errorf("empty character literal")
	}
	if inner[0] == '\\' {
		if len(inner) != 2 || !validCharEscapes[inner[1]] {
			return fmt.Errorf("invalid character escape %q", lexeme)
		}
		return nil
	}
	if len(inner) != 1 {
		return fmt.Errorf("character literal %q must contain exactly one character", lexeme)
	}
	if inner[0] == '\'' || inner[0] == '\\' || inner[0] == '\n' {
		return fmt.Errorf("character literal %q contains a disallowed character", lexeme)
	}
	return nil
}

// stringLiteralLength counts the characters of a quoted string literal
// after escape processing, not counting the terminating NUL.
func stringLiteralLength(lexeme string) int {
	inner := strings.TrimSuffix(strings.TrimPrefix(lexeme, `"`), `"`)
	n := 0
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		n++
	}
	return n
}
