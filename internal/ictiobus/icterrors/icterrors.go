// Package icterrors bridges the LR-parser internals to the compiler's
// diag.Diagnostic type. It exists because parse/lr.go's error paths are
// written against a small, token-position-aware error constructor; that
// constructor now builds a syntactic-phase Diagnostic instead of a bare
// error.
package icterrors

import (
	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
)

// NewSyntaxErrorFromToken builds a syntactic-phase diagnostic positioned at
// tok's location in the source.
func NewSyntaxErrorFromToken(msg string, tok types.Token) error {
	pos := diag.Position{Line: tok.Line(), Column: tok.LinePos()}
	return diag.Syntactic(pos, "%s", msg)
}
