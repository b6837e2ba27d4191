package semantic

import (
	"fmt"
	"strings"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/render"
)

func renderGenerativeLine(node *types.ParseTree, depth int) string {
	return render.Line(*node, depth)
}

// renderAttrs formats the subset of an attribute record worth surfacing in
// the annotated-tree dump: type, l-value-ness, identifier text, and
// element count, matching spec §6's `[type=…, lvalue=…, id=…, elements=…]`
// bracketed annotation format.
func renderAttrs(a *Attributes) string {
	parts := []string{fmt.Sprintf("type=%s", a.Type)}
	parts = append(parts, fmt.Sprintf("lvalue=%v", a.IsLValue))
	if a.Identifier != "" {
		parts = append(parts, fmt.Sprintf("id=%s", a.Identifier))
	}
	if a.ElementCount > 0 {
		parts = append(parts, fmt.Sprintf("elements=%d", a.ElementCount))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
