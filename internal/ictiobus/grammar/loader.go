package grammar

import (
	"fmt"
	"strings"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
)

// LoadResult is the output of parsing a grammar specification file: the
// grammar itself (already augmented with a synthetic start production) and
// the declared set of synchronisation tokens used by panic-mode recovery.
type LoadResult struct {
	Grammar Grammar
	SyncSet map[string]bool
}

// Load parses a grammar specification: %V declares non-terminals (first one
// named anywhere becomes the real start symbol), %T declares terminals, %Syn
// declares synchronisation tokens, and every other non-blank line is a
// production `<lhs> ::= rhs` with rhs symbols separated by whitespace,
// non-terminals wrapped in angle brackets, and an empty or "$" rhs denoting
// an ε-production.
func Load(src string) (LoadResult, error) {
	g := Grammar{}
	sync := map[string]bool{}

	var startSet bool

	lines := strings.Split(src, "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "%V"):
			for _, nt := range strings.Fields(line)[1:] {
				nt = strings.Trim(nt, "<>")
				g.AddRule(nt, nil)
				if !startSet {
					g.SetStart(nt)
					startSet = true
				}
			}
		case strings.HasPrefix(line, "%T"):
			for _, t := range strings.Fields(line)[1:] {
				g.AddTerm(t, types.MakeDefaultClass(t))
			}
		case strings.HasPrefix(line, "%Syn"):
			for _, t := range strings.Fields(line)[1:] {
				sync[t] = true
			}
		default:
			if err := loadProduction(&g, line); err != nil {
				return LoadResult{}, fmt.Errorf("grammar: line %d: %w", lineNo+1, err)
			}
		}
	}

	if err := g.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf("grammar: %w", err)
	}

	return LoadResult{Grammar: g.Augmented(), SyncSet: sync}, nil
}

func loadProduction(g *Grammar, line string) error {
	arrow := strings.Index(line, "::=")
	if arrow < 0 {
		return fmt.Errorf("expected '<lhs> ::= rhs', got %q", line)
	}

	lhs := strings.TrimSpace(line[:arrow])
	lhs = strings.Trim(lhs, "<>")
	if lhs == "" {
		return fmt.Errorf("empty left-hand side in %q", line)
	}

	rhsStr := strings.TrimSpace(line[arrow+3:])
	var prod Production
	if rhsStr == "" || rhsStr == "$" {
		prod = Production{"$"}
	} else {
		for _, sym := range strings.Fields(rhsStr) {
			sym = strings.Trim(sym, "<>")
			prod = append(prod, sym)
		}
	}

	if g.HasRule(lhs) {
		rule := g.Rule(lhs)
		rule.Productions = append(rule.Productions, prod)
		g.setRule(rule)
	} else {
		g.AddRule(lhs, []Production{prod})
	}

	return nil
}
