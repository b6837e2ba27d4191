// Package lexer implements the stateful, maximal-munch DFA-driven scanner
// runtime described by the engine's lexer generator: it consumes the
// per-state DFAs built by internal/lexspec and produces tokens, a deduped
// symbol table, and diagnostics for unrecognized input and unterminated
// string literals.
package lexer

import (
	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/lex"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/lexspec"
)

// Token decorates a types.Token with the symbol-table index assigned to its
// (class, lexeme) pair.
type Token struct {
	types.Token
	SymbolIndex int
}

// Runtime is a single-shot, single-threaded scanner over a fixed rune
// buffer. Construct one with New and drain it with ScanAll or Next/HasNext.
type Runtime struct {
	spec   *lexspec.Spec
	state  string
	input  []rune
	pos    int
	line   int
	col    int
	symtab *SymbolTable

	pendingNewline bool
	done           bool

	Diagnostics []*diag.Diagnostic
}

// New creates a Runtime over src, starting in the spec's declared start
// state.
func New(spec *lexspec.Spec, src string) *Runtime {
	return &Runtime{
		spec:   spec,
		state:  spec.StartState,
		input:  []rune(src),
		pos:    0,
		line:   1,
		col:    1,
		symtab: NewSymbolTable(),
	}
}

// SymbolTable returns the runtime's deduped symbol table, populated as
// tokens are scanned.
func (r *Runtime) SymbolTable() *SymbolTable {
	return r.symtab
}

// HasNext reports whether more input remains to scan.
func (r *Runtime) HasNext() bool {
	return !r.done
}

// ScanAll drains the runtime, returning every emitted token in source order
// terminated by an end-of-text token, plus diagnostics for any lexical
// errors encountered along the way. It never returns a hard error: lexical
// errors are recoverable via panic-mode, recorded as diagnostics, and
// scanning continues.
func (r *Runtime) ScanAll() ([]Token, []*diag.Diagnostic) {
	var tokens []Token
	for {
		tok := r.Next()
		tokens = append(tokens, tok)
		if tok.Class().ID() == types.TokenEndOfText.ID() {
			break
		}
	}
	return tokens, r.Diagnostics
}

// Next scans and returns the next token, or an end-of-text token once input
// is exhausted.
func (r *Runtime) Next() Token {
	for {
		if r.pos >= len(r.input) {
			r.done = true
			return r.makeToken(types.TokenEndOfText, "")
		}

		before := r.pos
		match, consumed, ok := r.maximalMunch()
		if !ok {
			// unterminated-string recovery has already discarded input.
			if r.pos == before {
				r.handleNoMatch()
			}
			continue
		}

		line, col := r.snapshotPosition()
		lexeme := string(r.input[r.pos : r.pos+consumed])

		rm, _ := r.spec.MatchFor(r.state, match.dfaState)

		newlineDeferred := false
		var classID string
		for _, a := range rm.Actions {
			switch a.Type {
			case lex.ActionScan:
				classID = a.ClassID
			case lex.ActionState:
				r.state = a.State
			case lex.ActionNewline:
				newlineDeferred = true
			}
		}

		matchedNewline := containsNewline(lexeme)
		r.advance(consumed)
		if newlineDeferred && !matchedNewline {
			r.line++
			r.col = 1
		}

		if classID == "" {
			// discarded match (whitespace, comments, state-only switches);
			// keep scanning for a real token.
			continue
		}

		class, ok := r.spec.Classes[classID]
		if !ok {
			class = lex.NewTokenClass(classID, classID)
		}

		idx := r.symtab.Intern(class.ID(), lexeme)
		return Token{
			Token:       lex.NewToken(class, lexeme, line, col, r.currentLineText(line)),
			SymbolIndex: idx,
		}
	}
}

type munchResult struct {
	dfaState string
}

// maximalMunch simulates the current state's DFA against the buffer
// starting at r.pos, tracking the longest accepting prefix. It applies the
// VRATI_SE return-chars override and the string-literal unescaped-quote
// boundary special case.
func (r *Runtime) maximalMunch() (munchResult, int, bool) {
	dfa, ok := r.spec.DFAs[r.state]
	if !ok || dfa.Start == "" {
		return munchResult{}, 0, false
	}

	inString := r.spec.StringState != "" && r.state == r.spec.StringState

	cur := dfa.Start
	lastAcceptLen := -1
	lastAcceptState := ""

	i := 0
	for {
		if dfa.IsAccepting(cur) {
			lastAcceptLen = i
			lastAcceptState = cur
		}

		if r.pos+i >= len(r.input) {
			break
		}

		ch := r.input[r.pos+i]

		if inString && i > 0 && ch == '"' && !precedingBackslashEscaped(r.input, r.pos+i) {
			// hard stop at the closing quote: consume it as part of the
			// match if doing so keeps the DFA accepting, then stop.
			next := dfa.Next(cur, string(ch))
			if next != "" && dfa.IsAccepting(next) {
				lastAcceptLen = i + 1
				lastAcceptState = next
			}
			break
		}

		next := dfa.Next(cur, string(ch))
		if next == "" {
			break
		}
		cur = next
		i++
	}

	if lastAcceptLen < 0 {
		if inString {
			r.reportUnterminatedString()
		}
		return munchResult{}, 0, false
	}

	n, rm := lastAcceptLen, lastAcceptState

	// apply VRATI_SE, if present, by re-deriving the rule for this accepting
	// state and checking for an ActionReturnChars directive.
	if match, ok := r.spec.MatchFor(r.state, rm); ok {
		for _, a := range match.Actions {
			if a.Type == lex.ActionReturnChars && a.N < n {
				n = a.N
			}
		}
	}

	return munchResult{dfaState: rm}, n, true
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}

func precedingBackslashEscaped(input []rune, quoteIdx int) bool {
	count := 0
	for j := quoteIdx - 1; j >= 0 && input[j] == '\\'; j-- {
		count++
	}
	return count%2 == 1
}

// handleNoMatch implements character-level panic mode: emit a diagnostic
// naming the offending character and drop it, advancing position by one.
func (r *Runtime) handleNoMatch() {
	if r.pos >= len(r.input) {
		return
	}
	ch := r.input[r.pos]
	r.Diagnostics = append(r.Diagnostics, diag.Lexical(diag.Position{Line: r.line, Column: r.col}, "unrecognized character %q", ch))
	r.advance(1)
}

// reportUnterminatedString scans backward for the opening quote to anchor
// the diagnostic, then discards up to (and including) the next newline or
// end of input, returning to the lexer's start state.
func (r *Runtime) reportUnterminatedString() {
	openIdx := r.pos
	for openIdx > 0 && r.input[openIdx] != '"' {
		openIdx--
	}
	openLine, openCol := r.line, r.col
	if openIdx < r.pos {
		back := r.pos - openIdx
		openCol = r.col - back
	}

	r.Diagnostics = append(r.Diagnostics, diag.Lexical(diag.Position{Line: openLine, Column: openCol}, "unterminated string literal"))

	for r.pos < len(r.input) && r.input[r.pos] != '\n' {
		r.advance(1)
	}
	if r.pos < len(r.input) {
		r.advance(1)
	}
	r.state = r.spec.StartState
}

// advance moves pos forward by n runes, updating line/column tracking.
func (r *Runtime) advance(n int) {
	for k := 0; k < n && r.pos < len(r.input); k++ {
		if r.input[r.pos] == '\n' {
			r.line++
			r.col = 1
		} else {
			r.col++
		}
		r.pos++
	}
}

func (r *Runtime) snapshotPosition() (int, int) {
	return r.line, r.col
}

func (r *Runtime) currentLineText(line int) string {
	start := r.pos
	for start > 0 && r.input[start-1] != '\n' {
		start--
	}
	end := r.pos
	for end < len(r.input) && r.input[end] != '\n' {
		end++
	}
	return string(r.input[start:end])
}

func (r *Runtime) makeToken(class types.TokenClass, lexeme string) Token {
	idx := r.symtab.Intern(class.ID(), lexeme)
	return Token{
		Token:       lex.NewToken(class, lexeme, r.line, r.col, ""),
		SymbolIndex: idx,
	}
}
