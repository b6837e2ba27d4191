// Package lexspec parses the lexer specification format described in the
// engine's §4.3 (macros, states, token declarations, and state-scoped rule
// blocks) and compiles it down to one DFA per lexer state via internal/regex
// and internal/ictiobus/automaton.
package lexspec

import (
	"fmt"
	"strings"

	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/automaton"
	"github.com/riscc32/ppjc/internal/ictiobus/lex"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/regex"
	"github.com/riscc32/ppjc/internal/util"
)

const maxMacroExpansions = 100

// RuleMatch is the value attached to an accepting DFA state: the rule that
// produced it (for tie-breaking on priority) and the actions to execute when
// it is the chosen longest match.
type RuleMatch struct {
	Priority int
	Actions  []lex.Action
}

// Rule is one source rule: the lexer state it applies in, its pattern, and
// its ordered action list, tagged with its declaration order for priority.
type Rule struct {
	State    string
	Pattern  string
	Actions  []lex.Action
	Priority int
}

// Spec is a fully parsed and compiled lexer specification: every declared
// state, every declared token class, and one DFA per state (keyed by state
// name) whose accepting states carry a RuleMatch.
type Spec struct {
	States     []string
	StartState string
	TokenNames []string
	Classes    map[string]types.TokenClass
	Rules      []Rule
	DFAs       map[string]*automaton.DFA[util.SVSet[string]]

	// StringState, if non-empty, names the lexer state used for scanning the
	// body of a string literal; the runtime applies the unescaped-quote
	// boundary special case only while in this state.
	StringState string
	// StringLiteralClass, if non-empty, names the token class emitted for a
	// completed string literal.
	StringLiteralClass string

	// RuleMatches maps state name -> DFA state name -> the winning rule
	// (smallest priority among the NFA accepting states folded into that
	// DFA state) for every accepting DFA state.
	RuleMatches map[string]map[string]RuleMatch
}

// MatchFor returns the RuleMatch for the given lexer state and DFA state
// name, and whether one was found (it always is for an accepting state).
func (s *Spec) MatchFor(state, dfaState string) (RuleMatch, bool) {
	m, ok := s.RuleMatches[state][dfaState]
	return m, ok
}

// Generate parses the textual specification src and compiles every declared
// state's rules into a DFA.
func Generate(src string) (*Spec, error) {
	macros := map[string]string{}
	var states []string
	var tokenNames []string
	var rules []Rule
	var stringState, stringLiteralClass string

	lines := splitLogicalLines(src)

	var i int
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			i++
			continue
		}

		switch {
		case strings.HasPrefix(line, "{"):
			name, pattern, err := parseMacroLine(line)
			if err != nil {
				return nil, err
			}
			macros[name] = pattern
			i++
		case strings.HasPrefix(line, "%X") || strings.HasPrefix(line, "%x"):
			fields := strings.Fields(line)
			states = append(states, fields[1:]...)
			i++
		case strings.HasPrefix(line, "%L") || strings.HasPrefix(line, "%l"):
			fields := strings.Fields(line)
			tokenNames = append(tokenNames, fields[1:]...)
			i++
		case strings.HasPrefix(line, "%STR"):
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, fmt.Errorf("lexspec: %%STR requires a state name and a token class name: %q", line)
			}
			stringState = fields[1]
			stringLiteralClass = fields[2]
			i++
		case strings.HasPrefix(line, "<"):
			rule, consumed, err := parseRuleBlock(lines, i)
			if err != nil {
				return nil, err
			}
			rule.Priority = len(rules)
			rules = append(rules, rule)
			i += consumed
		default:
			return nil, fmt.Errorf("lexspec: unrecognized line %d: %q", i+1, line)
		}
	}

	if len(states) == 0 {
		return nil, fmt.Errorf("lexspec: no states declared (need at least one %%X line)")
	}

	expanded := make([]Rule, len(rules))
	for i, r := range rules {
		pat, err := expandMacros(r.Pattern, macros)
		if err != nil {
			return nil, err
		}
		r.Pattern = pat
		expanded[i] = r
	}

	classes := map[string]types.TokenClass{}
	for _, name := range tokenNames {
		classes[name] = lex.NewTokenClass(name, name)
	}

	dfas := map[string]*automaton.DFA[util.SVSet[string]]{}
	ruleMatchIndex := map[string]RuleMatch{}

	for _, state := range states {
		nfa := &automaton.NFA[string]{}
		ids := &regex.IDGen{}
		start := ids.Next()
		nfa.AddState(start, false)
		nfa.Start = start

		accepting := 0
		for _, r := range expanded {
			if r.State != state {
				continue
			}
			frag, err := regex.Compile(nfa, ids, r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("lexspec: state %s rule %q: %w", state, r.Pattern, err)
			}
			nfa.AddTransition(start, "", frag.Start)

			ruleStateName := fmt.Sprintf("%s#rule%d#accept", state, r.Priority)
			nfa.AddState(ruleStateName, true)
			nfa.AddTransition(frag.Accept, "", ruleStateName)
			nfa.SetValue(ruleStateName, ruleStateName)
			ruleMatchIndex[ruleStateName] = RuleMatch{Priority: r.Priority, Actions: r.Actions}
			accepting++
		}

		if accepting == 0 {
			// a state with no rules still needs a (trivially non-accepting)
			// DFA so the runtime never panics switching into it.
			dfa := automaton.DFA[util.SVSet[string]]{}
			dfas[state] = &dfa
			continue
		}

		dfa := nfa.ToDFA()
		dfas[state] = &dfa
	}

	ruleMatches := map[string]map[string]RuleMatch{}
	for _, state := range states {
		dfa, ok := dfas[state]
		if !ok {
			continue
		}
		perState := map[string]RuleMatch{}
		for _, dfaStateName := range dfa.States().Elements() {
			if !dfa.IsAccepting(dfaStateName) {
				continue
			}
			nfaStateNames := dfa.GetValue(dfaStateName)
			best := RuleMatch{Priority: -1}
			for _, nfaStateName := range nfaStateNames.Elements() {
				rm, ok := ruleMatchIndex[nfaStateName]
				if !ok {
					continue
				}
				if best.Priority == -1 || rm.Priority < best.Priority {
					best = rm
				}
			}
			if best.Priority != -1 {
				perState[dfaStateName] = best
			}
		}
		ruleMatches[state] = perState
	}

	return &Spec{
		States:             states,
		StartState:         states[0],
		TokenNames:         tokenNames,
		Classes:            classes,
		Rules:              expanded,
		DFAs:               dfas,
		StringState:        stringState,
		StringLiteralClass: stringLiteralClass,
		RuleMatches:        ruleMatches,
	}, nil
}

func parseMacroLine(line string) (name, pattern string, err error) {
	end := strings.Index(line, "}")
	if !strings.HasPrefix(line, "{") || end < 0 {
		return "", "", fmt.Errorf("lexspec: malformed macro definition: %q", line)
	}
	name = line[1:end]
	pattern = strings.TrimSpace(line[end+1:])
	return name, pattern, nil
}

func expandMacros(pattern string, macros map[string]string) (string, error) {
	for iter := 0; iter < maxMacroExpansions; iter++ {
		start := indexUnescaped(pattern, '{')
		if start < 0 {
			return pattern, nil
		}
		end := indexUnescaped(pattern[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("lexspec: unterminated macro reference in %q", pattern)
		}
		end += start
		name := pattern[start+1 : end]
		sub, ok := macros[name]
		if !ok {
			return "", fmt.Errorf("lexspec: undefined macro %q", name)
		}
		pattern = pattern[:start] + "(" + sub + ")" + pattern[end+1:]
	}
	return "", fmt.Errorf("lexspec: macro expansion did not converge after %d iterations (likely a cycle)", maxMacroExpansions)
}

// indexUnescaped returns the index of the first occurrence of target in s
// not immediately preceded by a backslash, so a literal escaped brace (\{,
// \}) used as an ordinary pattern atom is never mistaken for a macro
// reference's delimiter.
func indexUnescaped(s string, target byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == target && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// parseRuleBlock parses `<state>pattern { actions }`, where the action block
// may span multiple lines with balanced braces. Macro references of the form
// {name} may appear unspaced within pattern; the action block is recognized
// as the first brace group whose opening '{' is preceded by whitespace.
func parseRuleBlock(lines []string, i int) (Rule, int, error) {
	line := lines[i]
	trimmed := strings.TrimSpace(line)

	end := strings.Index(trimmed, ">")
	if end < 0 {
		return Rule{}, 0, fmt.Errorf("lexspec: malformed rule state tag at line %d: %q", i+1, line)
	}
	state := trimmed[1:end]
	rest := trimmed[end+1:]

	patternEnd := findActionBlockStart(rest)
	if patternEnd < 0 {
		return Rule{}, 0, fmt.Errorf("lexspec: rule missing action block at line %d: %q", i+1, line)
	}
	pattern := strings.TrimSpace(rest[:patternEnd])
	pattern = unwrapLiteral(pattern)

	actionBuf := rest[patternEnd+1:]
	depth := 1
	consumed := 1
	for depth > 0 {
		closeIdx := strings.IndexAny(actionBuf, "{}")
		if closeIdx < 0 {
			if i+consumed >= len(lines) {
				return Rule{}, 0, fmt.Errorf("lexspec: unterminated action block starting at line %d", i+1)
			}
			actionBuf += "\n" + lines[i+consumed]
			consumed++
			continue
		}
		if actionBuf[closeIdx] == '{' {
			depth++
		} else {
			depth--
		}
		if depth == 0 {
			actionBuf = actionBuf[:closeIdx]
			break
		}
		actionBuf = actionBuf[closeIdx+1:]
	}

	actions, err := parseActions(actionBuf)
	if err != nil {
		return Rule{}, 0, fmt.Errorf("lexspec: line %d: %w", i+1, err)
	}

	return Rule{State: state, Pattern: pattern, Actions: actions}, consumed, nil
}

// findActionBlockStart returns the index of the '{' that opens the rule's
// action block, distinguishing it from unspaced {macro} references embedded
// in the pattern: the action block's brace is always preceded by whitespace.
func findActionBlockStart(s string) int {
	depth := 0
	for idx, r := range s {
		switch r {
		case '{':
			if depth == 0 {
				prevIsSpace := idx > 0 && (s[idx-1] == ' ' || s[idx-1] == '\t')
				if prevIsSpace {
					return idx
				}
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return -1
}

// unwrapLiteral applies the quote-stripping rule: a pattern that begins with
// a quote keeps the quotes if its contents use a regex metacharacter outside
// an escape, else the quotes are stripped and the content is a literal.
func unwrapLiteral(pattern string) string {
	if len(pattern) < 2 || pattern[0] != '"' || pattern[len(pattern)-1] != '"' {
		return pattern
	}
	inner := pattern[1 : len(pattern)-1]
	if containsMetachar(inner) {
		return pattern
	}
	return escapeLiteral(inner)
}

func containsMetachar(s string) bool {
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if strings.ContainsRune("|*(){}", r) {
			return true
		}
	}
	return false
}

// escapeLiteral turns a bare literal string into a pattern safe for the
// regex compiler by escaping any character the compiler would otherwise
// treat as an operator.
func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`|*(){}\$`, r) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func parseActions(block string) ([]lex.Action, error) {
	block = strings.TrimSpace(block)
	if block == "" || block == "-" {
		return nil, nil
	}

	var actions []lex.Action
	parts := strings.Split(block, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		fields := strings.Fields(part)
		switch fields[0] {
		case "UDJI_U_STANJE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("UDJI_U_STANJE requires exactly one state argument: %q", part)
			}
			actions = append(actions, lex.SwapState(fields[1]))
		case "VRATI_SE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("VRATI_SE requires exactly one integer argument: %q", part)
			}
			n := 0
			if _, err := fmt.Sscanf(fields[1], "%d", &n); err != nil {
				return nil, fmt.Errorf("VRATI_SE argument not an integer: %q", part)
			}
			actions = append(actions, lex.ReturnChars(n))
		case "NOVI_REDAK":
			actions = append(actions, lex.Newline())
		default:
			actions = append(actions, lex.LexAs(fields[0]))
		}
	}

	var seenReturn bool
	for _, a := range actions {
		if a.Type == lex.ActionReturnChars {
			if seenReturn {
				return nil, fmt.Errorf("rule has more than one VRATI_SE action")
			}
			seenReturn = true
		}
	}

	return actions, nil
}

// splitLogicalLines splits src into lines while leaving it to the caller
// (parseRuleBlock) to re-join continuation lines for multi-line action
// blocks.
func splitLogicalLines(src string) []string {
	return strings.Split(src, "\n")
}

// Diagnostic wraps a parse failure as a spec-phase diagnostic for uniform
// reporting alongside lexical/syntactic/semantic errors.
func Diagnostic(err error) *diag.Diagnostic {
	return diag.SpecError("%s", err.Error())
}
